package js_lower

import (
	"github.com/evanw/classvars/internal/js_ast"
	"github.com/evanw/classvars/internal/logger"
	"github.com/evanw/classvars/internal/runtime"
)

// The storage for one instance variable. The WeakMap maps each instance to a
// descriptor of the form "{ writable, value }".
type slot struct {
	name     string
	ref      js_ast.Ref
	loc      logger.Loc
	writable bool
	useCount int
}

// The per-instance initialization of one slot. Templates are built when the
// class is lowered and materialized later, once for every place in the
// constructor that needs them.
type initTemplate struct {
	slot       *slot
	valueOrNil js_ast.Expr
	loc        logger.Loc
}

func (l *lowerer) newSlot(decl instanceVarDecl) *slot {
	return &slot{
		name:     decl.name,
		ref:      l.newSymbol(js_ast.SymbolGenerated, l.names.generate(decl.name)),
		loc:      decl.loc,
		writable: decl.mutable,
	}
}

// "const _x = new WeakMap();"
func (l *lowerer) allocateSlot(s *slot) js_ast.Stmt {
	return js_ast.Stmt{Loc: s.loc, Data: &js_ast.SLocal{Kind: js_ast.LocalConst, Decls: []js_ast.Decl{{
		Binding: js_ast.Binding{Loc: s.loc, Data: &js_ast.BIdentifier{Ref: s.ref}},
		ValueOrNil: js_ast.Expr{Loc: s.loc, Data: &js_ast.ENew{
			Target: js_ast.Expr{Loc: s.loc, Data: &js_ast.EIdentifier{Ref: l.globalRef("WeakMap")}},
		}},
	}}}}
}

// "_x.set(this, { writable: true, value: 1 })"
//
// The initializer is cloned so that every call site gets its own nodes.
func materialize(t initTemplate) js_ast.Expr {
	loc := t.loc
	value := js_ast.Expr{Loc: loc, Data: &js_ast.EUndefined{}}
	if t.valueOrNil.Data != nil {
		value = js_ast.CloneExpr(t.valueOrNil)
	}
	descriptor := js_ast.Expr{Loc: loc, Data: &js_ast.EObject{
		IsSingleLine: true,
		Properties: []js_ast.Property{
			{
				Key:        js_ast.StringKey(loc, "writable"),
				ValueOrNil: js_ast.Expr{Loc: loc, Data: &js_ast.EBoolean{Value: t.slot.writable}},
				VarRef:     js_ast.InvalidRef,
				Loc:        loc,
			},
			{
				Key:        js_ast.StringKey(loc, "value"),
				ValueOrNil: value,
				VarRef:     js_ast.InvalidRef,
				Loc:        loc,
			},
		},
	}}
	return js_ast.Expr{Loc: loc, Data: &js_ast.ECall{
		Target: js_ast.Expr{Loc: loc, Data: &js_ast.EDot{
			Target:  js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Ref: t.slot.ref}},
			Name:    "set",
			NameLoc: loc,
		}},
		Args: []js_ast.Expr{{Loc: loc, Data: &js_ast.EThis{}}, descriptor},
	}}
}

func materializeStmts(templates []initTemplate) []js_ast.Stmt {
	stmts := make([]js_ast.Stmt, len(templates))
	for i, t := range templates {
		stmts[i] = js_ast.Stmt{Loc: t.loc, Data: &js_ast.SExpr{Value: materialize(t)}}
	}
	return stmts
}

func (l *lowerer) slotRef(loc logger.Loc, s *slot) js_ast.Expr {
	return js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Ref: s.ref}}
}

func (l *lowerer) slotGet(loc logger.Loc, receiver js_ast.Expr, s *slot) js_ast.Expr {
	return l.callRuntime(loc, runtime.InstanceVarGet, []js_ast.Expr{receiver, l.slotRef(loc, s)})
}

func (l *lowerer) slotSet(loc logger.Loc, receiver js_ast.Expr, s *slot, value js_ast.Expr) js_ast.Expr {
	return l.callRuntime(loc, runtime.InstanceVarSet, []js_ast.Expr{receiver, l.slotRef(loc, s), value})
}
