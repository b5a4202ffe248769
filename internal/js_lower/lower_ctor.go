package js_lower

import (
	"github.com/evanw/classvars/internal/js_ast"
	"github.com/evanw/classvars/internal/logger"
)

// Returns the constructor of the class, adding one if there isn't one. A
// base class gets "constructor() {}" and a derived class gets
// "constructor(...args) { super(...args); }".
func (l *lowerer) ensureConstructor(class *js_ast.Class, d *classDescriptor) *js_ast.Fn {
	if d.ctor != nil {
		return &d.ctor.Fn
	}

	loc := class.BodyLoc
	argsScope := &js_ast.Scope{Kind: js_ast.ScopeFunctionArgs, Parent: class.BodyScope, Members: make(map[string]js_ast.ScopeMember)}
	bodyScope := &js_ast.Scope{Kind: js_ast.ScopeFunctionBody, Parent: argsScope, Members: make(map[string]js_ast.ScopeMember)}
	argsScope.Children = []*js_ast.Scope{bodyScope}
	class.BodyScope.Children = append(class.BodyScope.Children, argsScope)

	fn := js_ast.Fn{Scope: argsScope, Body: js_ast.FnBody{Loc: loc}}
	if d.isDerived {
		argsRef := l.newSymbol(js_ast.SymbolHoisted, "args")
		l.names.reserve("args")
		argsScope.Members["args"] = js_ast.ScopeMember{Ref: argsRef, Loc: loc}
		fn.Args = []js_ast.Arg{{Binding: js_ast.Binding{Loc: loc, Data: &js_ast.BIdentifier{Ref: argsRef}}}}
		fn.HasRestArg = true
		fn.Body.Stmts = []js_ast.Stmt{{Loc: loc, Data: &js_ast.SExpr{Value: js_ast.Expr{Loc: loc, Data: &js_ast.ECall{
			Target: js_ast.Expr{Loc: loc, Data: &js_ast.ESuper{}},
			Args: []js_ast.Expr{{Loc: loc, Data: &js_ast.ESpread{
				Value: js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Ref: argsRef}},
			}}},
		}}}}}
	}

	d.ctor = &js_ast.EFunction{Fn: fn}
	class.Properties = append([]js_ast.Property{{
		Key:        js_ast.StringKey(loc, "constructor"),
		ValueOrNil: js_ast.Expr{Loc: loc, Data: d.ctor},
		VarRef:     js_ast.InvalidRef,
		Loc:        loc,
		Kind:       js_ast.PropertyNormal,
		Flags:      js_ast.PropertyIsMethod,
	}}, class.Properties...)
	return &d.ctor.Fn
}

// A base class constructor initializes instance variables before anything
// else. A derived class constructor can't touch "this" until the superclass
// constructor has returned, so the initializers go after every "super()"
// call instead. Calls to "super()" inside arrow functions don't count.
func (l *lowerer) injectInitializers(fn *js_ast.Fn, isDerived bool, templates []initTemplate) {
	if len(templates) == 0 {
		return
	}

	if !isDerived {
		fn.Body.Stmts = append(materializeStmts(templates), fn.Body.Stmts...)
		return
	}

	injector := superInjector{templates: templates}
	fn.Body.Stmts = injector.stmts(fn.Body.Stmts)

	if injector.sites == 0 && len(injector.superInClosure) > 0 {
		r := logger.Range{Loc: injector.superInClosure[0], Len: int32(len("super"))}
		l.log.AddIDWithRange(logger.MsgID_JS_SuperCallInClosure, &l.source, r,
			"Instance variables are not initialized by \"super()\" calls inside arrow functions")
	}
}

type superInjector struct {
	templates      []initTemplate
	superInClosure []logger.Loc
	sites          int
	closureDepth   int
}

func (s *superInjector) stmts(stmts []js_ast.Stmt) []js_ast.Stmt {
	result := make([]js_ast.Stmt, 0, len(stmts))
	for _, stmt := range stmts {
		// "super();" is followed by the initializers as separate statements
		if expr, ok := stmt.Data.(*js_ast.SExpr); ok && s.closureDepth == 0 && js_ast.IsSuperCall(expr.Value) {
			call := expr.Value.Data.(*js_ast.ECall)
			s.exprs(call.Args)
			s.sites++
			result = append(result, stmt)
			result = append(result, materializeStmts(s.templates)...)
			continue
		}
		result = append(result, s.stmt(stmt))
	}
	return result
}

func (s *superInjector) body(stmt js_ast.Stmt) js_ast.Stmt {
	stmts := s.stmts([]js_ast.Stmt{stmt})
	if len(stmts) == 1 {
		return stmts[0]
	}
	return js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SBlock{Stmts: stmts}}
}

func (s *superInjector) stmt(stmt js_ast.Stmt) js_ast.Stmt {
	switch st := stmt.Data.(type) {
	case *js_ast.SBlock:
		st.Stmts = s.stmts(st.Stmts)

	case *js_ast.SExpr:
		st.Value = s.expr(st.Value)

	case *js_ast.SLocal:
		for i := range st.Decls {
			if decl := &st.Decls[i]; decl.ValueOrNil.Data != nil {
				decl.ValueOrNil = s.expr(decl.ValueOrNil)
			}
		}

	case *js_ast.SReturn:
		if st.ValueOrNil.Data != nil {
			st.ValueOrNil = s.expr(st.ValueOrNil)
		}

	case *js_ast.SThrow:
		st.Value = s.expr(st.Value)

	case *js_ast.SIf:
		st.Test = s.expr(st.Test)
		st.Yes = s.body(st.Yes)
		if st.NoOrNil.Data != nil {
			st.NoOrNil = s.body(st.NoOrNil)
		}

	case *js_ast.SFor:
		if st.InitOrNil.Data != nil {
			st.InitOrNil = s.stmt(st.InitOrNil)
		}
		if st.TestOrNil.Data != nil {
			st.TestOrNil = s.expr(st.TestOrNil)
		}
		if st.UpdateOrNil.Data != nil {
			st.UpdateOrNil = s.expr(st.UpdateOrNil)
		}
		st.Body = s.body(st.Body)

	case *js_ast.SForOf:
		st.Value = s.expr(st.Value)
		st.Body = s.body(st.Body)

	case *js_ast.SWhile:
		st.Test = s.expr(st.Test)
		st.Body = s.body(st.Body)

	case *js_ast.SClass:
		if st.Class.ExtendsOrNil.Data != nil {
			st.Class.ExtendsOrNil = s.expr(st.Class.ExtendsOrNil)
		}
	}

	return stmt
}

func (s *superInjector) exprs(exprs []js_ast.Expr) {
	for i, expr := range exprs {
		exprs[i] = s.expr(expr)
	}
}

// "super()" inside an expression becomes "(super(), _x.set(this, ...), this)"
// which has the same value because "super()" returns "this"
func (s *superInjector) expr(expr js_ast.Expr) js_ast.Expr {
	switch e := expr.Data.(type) {
	case *js_ast.ECall:
		e.Target = s.expr(e.Target)
		s.exprs(e.Args)
		if _, ok := e.Target.Data.(*js_ast.ESuper); ok {
			if s.closureDepth > 0 {
				s.superInClosure = append(s.superInClosure, expr.Loc)
				break
			}
			s.sites++
			value := expr
			for _, t := range s.templates {
				value = js_ast.JoinWithComma(value, materialize(t))
			}
			return js_ast.JoinWithComma(value, js_ast.Expr{Loc: expr.Loc, Data: &js_ast.EThis{}})
		}

	case *js_ast.EArray:
		s.exprs(e.Items)

	case *js_ast.ESpread:
		e.Value = s.expr(e.Value)

	case *js_ast.EUnary:
		e.Value = s.expr(e.Value)

	case *js_ast.EBinary:
		e.Left = s.expr(e.Left)
		e.Right = s.expr(e.Right)

	case *js_ast.ENew:
		e.Target = s.expr(e.Target)
		s.exprs(e.Args)

	case *js_ast.EDot:
		e.Target = s.expr(e.Target)

	case *js_ast.EIndex:
		e.Target = s.expr(e.Target)
		e.Index = s.expr(e.Index)

	case *js_ast.EIf:
		e.Test = s.expr(e.Test)
		e.Yes = s.expr(e.Yes)
		e.No = s.expr(e.No)

	case *js_ast.EObject:
		for i := range e.Properties {
			property := &e.Properties[i]
			if property.Flags.Has(js_ast.PropertyIsComputed) {
				property.Key = s.expr(property.Key)
			}
			if property.ValueOrNil.Data != nil && !property.Flags.Has(js_ast.PropertyIsMethod) {
				property.ValueOrNil = s.expr(property.ValueOrNil)
			}
		}

	case *js_ast.EClass:
		if e.Class.ExtendsOrNil.Data != nil {
			e.Class.ExtendsOrNil = s.expr(e.Class.ExtendsOrNil)
		}

	// Arrow functions are searched only to find calls that can't be used
	case *js_ast.EArrow:
		s.closureDepth++
		e.Body.Stmts = s.stmts(e.Body.Stmts)
		s.closureDepth--
	}

	return expr
}
