package js_lower

import (
	"fmt"

	"github.com/evanw/classvars/internal/js_ast"
	"github.com/evanw/classvars/internal/logger"
)

// The statements that must run around a lowered class. A class with class
// variables, or a class expression that allocates storage, is moved into a
// closure so that everything can run in one expression:
//
//	let Foo = (() => {
//	  let count = 0;
//	  class Foo { ... }
//	  const _x = new WeakMap();
//	  return Foo;
//	})();
type loweredClass struct {
	pre          []js_ast.Stmt
	post         []js_ast.Stmt
	closure      *fnState
	needsClosure bool
}

func (l *lowerer) lowerClass(class *js_ast.Class, ctx visitContext, isExpr bool, nameHint string) loweredClass {
	d := l.classifyMembers(class)
	if d.hasUnsupportedMember {
		panic(lowerPanic{})
	}

	result := loweredClass{
		closure:      &fnState{},
		needsClosure: len(d.classVars) > 0 || (isExpr && len(d.instanceVars) > 0),
	}

	// Code that runs while the class is being defined goes in the closure
	outerCtx := ctx
	if result.needsClosure {
		outerCtx.fn = result.closure
	}

	// The names declared by this class hide the names of enclosing classes
	// inside of this class body
	slots := make([]*slot, len(d.instanceVars))
	body := newRefCollector(ctx.refs)
	innerCtx := ctx
	innerCtx.refs = body
	innerCtx.slots = make(map[string]*slot, len(ctx.slots)+len(d.instanceVars))
	for name, s := range ctx.slots {
		innerCtx.slots[name] = s
	}
	for i, decl := range d.instanceVars {
		slots[i] = l.newSlot(decl)
		innerCtx.slots[decl.name] = slots[i]
	}

	// The class heritage can't see the names of the class being defined
	heritage := newRefCollector(ctx.refs)
	if class.ExtendsOrNil.Data != nil {
		heritageCtx := outerCtx
		heritageCtx.refs = heritage
		class.ExtendsOrNil = l.visitExpr(class.ExtendsOrNil, heritageCtx)
	}

	// Computed keys and class variable initializers run before the class
	// name has been initialized
	definitionCtx := innerCtx
	definitionCtx.fn = outerCtx.fn
	if class.Name != nil {
		definitionCtx.tdz = append(append([]js_ast.Ref{}, ctx.tdz...), class.Name.Ref)
	}
	for i := range class.Properties {
		if property := &class.Properties[i]; property.Flags.Has(js_ast.PropertyIsComputed) {
			property.Key = l.visitBeforeAllocation(property.Key, definitionCtx, slots, "")
		}
	}
	if len(d.classVars) > 0 && len(d.impureKeys) > 0 {
		r := logger.Range{Loc: d.impureKeys[0]}
		l.log.AddIDWithRange(logger.MsgID_JS_ComputedKeyEvaluationOrder, &l.source, r,
			"This computed key is evaluated after the class variables of its class are initialized")
	}

	for _, v := range d.classVars {
		kind := js_ast.LocalConst
		if v.mutable {
			kind = js_ast.LocalLet
		}
		value := v.initializerOrNil
		if value.Data != nil {
			value = l.visitBeforeAllocation(value, definitionCtx, slots, l.tree.Symbols[v.ref.InnerIndex].OriginalName)
		} else if !v.mutable {
			value = js_ast.Expr{Loc: v.loc, Data: &js_ast.EUndefined{}}
		}
		result.pre = append(result.pre, js_ast.Stmt{Loc: v.loc, Data: &js_ast.SLocal{Kind: kind, Decls: []js_ast.Decl{{
			Binding:    js_ast.Binding{Loc: v.loc, Data: &js_ast.BIdentifier{Ref: v.ref}},
			ValueOrNil: value,
		}}}})
	}

	// The constructor is visited last when initializers are inserted into it
	hasInitializers := len(d.instanceVars) > 0
	for i := range class.Properties {
		property := &class.Properties[i]
		if hasInitializers && isConstructor(property) {
			continue
		}
		if fn, ok := property.ValueOrNil.Data.(*js_ast.EFunction); ok {
			l.visitFn(&fn.Fn, innerCtx)
		}
	}

	if hasInitializers {
		ctor := l.ensureConstructor(class, &d)
		ctorState := &fnState{}
		l.visitFnBody(ctor, innerCtx, ctorState)

		// Initializers are visited as if they were already in the constructor
		inits := newRefCollector(body)
		initCtx := innerCtx.enterFn(ctorState)
		initCtx.refs = inits
		templates := make([]initTemplate, len(d.instanceVars))
		for i, decl := range d.instanceVars {
			value := decl.initializerOrNil
			if value.Data != nil {
				value = l.visitExprWithName(value, initCtx, decl.name)
			}
			templates[i] = initTemplate{slot: slots[i], valueOrNil: value, loc: decl.loc}
		}

		l.renameShadowingBindings(constructorScopes(ctor), inits.freeRefs())
		l.injectInitializers(ctor, d.isDerived, templates)
		ctor.Body.Stmts = declareTemps(ctorState, ctor.Body.Stmts, ctor.Body.Loc)

		for _, s := range slots {
			result.post = append(result.post, l.allocateSlot(s))
		}
	}

	for _, s := range slots {
		if s.useCount == 0 {
			l.log.AddIDWithRange(logger.MsgID_JS_UnusedInstanceVariable, &l.source, l.source.RangeOfIdentifier(s.loc),
				fmt.Sprintf("Instance variable %q is never used", s.name))
		}
	}

	if result.needsClosure {
		heritageFree := heritage.freeRefs()
		if isExpr {
			body.declareScopeTree(class.BodyScope)
			l.nameClassExpr(class, nameHint, heritageFree, body.freeRefs())
		}
		l.renameShadowingClassVars(d.classVars, heritageFree, l.tree.Symbols[class.Name.Ref.InnerIndex].OriginalName)
	}

	if ctx.refs != nil {
		scope := class.BodyScope
		if scope.Parent != nil && scope.Parent.Kind == js_ast.ScopeClassName {
			scope = scope.Parent
		}
		ctx.refs.declareScope(scope)
	}
	return result
}

// Storage for the instance variables of a class is allocated after the class,
// so code that runs while the class is being defined throws when it uses them
func (l *lowerer) visitBeforeAllocation(expr js_ast.Expr, ctx visitContext, slots []*slot, nameHint string) js_ast.Expr {
	uses := make([]int, len(slots))
	for i, s := range slots {
		uses[i] = s.useCount
	}
	expr = l.visitExprWithName(expr, ctx, nameHint)
	for i, s := range slots {
		if s.useCount > uses[i] {
			l.log.AddIDWithRange(logger.MsgID_JS_EarlyInstanceVariableAccess, &l.source, logger.Range{Loc: expr.Loc},
				fmt.Sprintf("Instance variable %q is used before the class has been defined", s.name))
		}
	}
	return expr
}

// Class expressions must have a name to be returned from the closure. The
// name comes from the binding that the class is assigned to if there is one.
// The new class name would hide that binding from the class itself, so it
// can't be used if the class heritage or the class body refers to anything
// with that name.
func (l *lowerer) nameClassExpr(class *js_ast.Class, nameHint string, heritageFree []js_ast.Ref, bodyFree []js_ast.Ref) {
	if class.Name != nil {
		return
	}
	name := nameHint
	if name != "" && (l.refersToName(heritageFree, name) || l.refersToName(bodyFree, name)) {
		name = ""
	}
	if name == "" {
		name = l.names.generate("class")
	}
	class.Name = &js_ast.LocRef{Loc: class.BodyLoc, Ref: l.newSymbol(js_ast.SymbolClass, name)}
}

func (l *lowerer) refersToName(refs []js_ast.Ref, name string) bool {
	for _, ref := range refs {
		if l.tree.Symbols[ref.InnerIndex].OriginalName == name {
			return true
		}
	}
	return false
}

// "class Foo {}" => "(() => { class Foo {} ...; return Foo; })()"
func (l *lowerer) wrapInClosure(loc logger.Loc, class js_ast.Class, result loweredClass) js_ast.Expr {
	stmts := declareTemps(result.closure, result.pre, loc)
	stmts = append(stmts, js_ast.Stmt{Loc: loc, Data: &js_ast.SClass{Class: class}})
	stmts = append(stmts, result.post...)
	stmts = append(stmts, js_ast.Stmt{Loc: loc, Data: &js_ast.SReturn{
		ValueOrNil: js_ast.Expr{Loc: class.Name.Loc, Data: &js_ast.EIdentifier{Ref: class.Name.Ref}},
	}})
	return js_ast.Expr{Loc: loc, Data: &js_ast.ECall{
		Target: js_ast.Expr{Loc: loc, Data: &js_ast.EArrow{Body: js_ast.FnBody{Loc: loc, Stmts: stmts}}},
	}}
}

func (l *lowerer) lowerClassStmt(loc logger.Loc, s *js_ast.SClass, ctx visitContext) []js_ast.Stmt {
	result := l.lowerClass(&s.Class, ctx, false, "")
	if !result.needsClosure {
		return append([]js_ast.Stmt{{Loc: loc, Data: s}}, result.post...)
	}

	// "class Foo {}" => "let Foo = (() => { ... })();"
	name := s.Class.Name
	return []js_ast.Stmt{{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalLet, Decls: []js_ast.Decl{{
		Binding:    js_ast.Binding{Loc: name.Loc, Data: &js_ast.BIdentifier{Ref: name.Ref}},
		ValueOrNil: l.wrapInClosure(loc, s.Class, result),
	}}}}}
}

func (l *lowerer) lowerClassExpr(expr js_ast.Expr, e *js_ast.EClass, ctx visitContext, nameHint string) js_ast.Expr {
	result := l.lowerClass(&e.Class, ctx, true, nameHint)
	if !result.needsClosure {
		return expr
	}
	return l.wrapInClosure(expr.Loc, e.Class, result)
}
