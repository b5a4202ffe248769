package js_lower

import (
	"github.com/evanw/classvars/internal/js_ast"
)

// Everything the visitor needs to know about the code around the node it's
// visiting. This is passed by value, so changing it only affects the subtree
// that the changed copy is passed to.
type visitContext struct {
	// The instance variables that "::" can refer to at this point
	slots map[string]*slot

	// The function whose "var" declarations hold new temporaries
	fn *fnState

	// Class names that are still in their temporal dead zone at this point.
	// This is set for code that runs before the class has been defined.
	tdz []js_ast.Ref

	// Set while visiting code that will be moved into a constructor
	refs *refCollector
}

// Functions run later, so class names are no longer in their temporal dead
// zone inside them
func (ctx visitContext) enterFn(fn *fnState) visitContext {
	ctx.fn = fn
	ctx.tdz = nil
	return ctx
}

func (l *lowerer) visitStmts(stmts []js_ast.Stmt, ctx visitContext) []js_ast.Stmt {
	result := make([]js_ast.Stmt, 0, len(stmts))
	for _, stmt := range stmts {
		if s, ok := stmt.Data.(*js_ast.SClass); ok {
			result = append(result, l.lowerClassStmt(stmt.Loc, s, ctx)...)
			continue
		}
		result = append(result, l.visitStmt(stmt, ctx))
	}
	return result
}

// This is for statements in a position that only allows one statement, such
// as the body of an "if" statement
func (l *lowerer) visitSingleStmt(stmt js_ast.Stmt, ctx visitContext) js_ast.Stmt {
	stmts := l.visitStmts([]js_ast.Stmt{stmt}, ctx)
	if len(stmts) == 1 {
		return stmts[0]
	}
	return js_ast.Stmt{Loc: stmt.Loc, Data: &js_ast.SBlock{Stmts: stmts}}
}

func (l *lowerer) visitStmt(stmt js_ast.Stmt, ctx visitContext) js_ast.Stmt {
	switch s := stmt.Data.(type) {
	case *js_ast.SBlock:
		s.Stmts = l.visitStmts(s.Stmts, ctx)

	case *js_ast.SExpr:
		s.Value = l.visitExpr(s.Value, ctx)

	case *js_ast.SLocal:
		l.visitDecls(s.Decls, ctx)

	case *js_ast.SFunction:
		if ctx.refs != nil {
			ctx.refs.declareScope(s.Fn.Scope)
		}
		l.visitFn(&s.Fn, ctx)

	case *js_ast.SClass:
		return l.visitSingleStmt(stmt, ctx)

	case *js_ast.SReturn:
		if s.ValueOrNil.Data != nil {
			s.ValueOrNil = l.visitExpr(s.ValueOrNil, ctx)
		}

	case *js_ast.SThrow:
		s.Value = l.visitExpr(s.Value, ctx)

	case *js_ast.SIf:
		s.Test = l.visitExpr(s.Test, ctx)
		s.Yes = l.visitSingleStmt(s.Yes, ctx)
		if s.NoOrNil.Data != nil {
			s.NoOrNil = l.visitSingleStmt(s.NoOrNil, ctx)
		}

	case *js_ast.SFor:
		if s.InitOrNil.Data != nil {
			s.InitOrNil = l.visitStmt(s.InitOrNil, ctx)
		}
		if s.TestOrNil.Data != nil {
			s.TestOrNil = l.visitExpr(s.TestOrNil, ctx)
		}
		if s.UpdateOrNil.Data != nil {
			s.UpdateOrNil = l.visitExpr(s.UpdateOrNil, ctx)
		}
		s.Body = l.visitSingleStmt(s.Body, ctx)

	case *js_ast.SForOf:
		l.visitForOf(s, ctx)

	case *js_ast.SWhile:
		s.Test = l.visitExpr(s.Test, ctx)
		s.Body = l.visitSingleStmt(s.Body, ctx)
	}

	return stmt
}

func (l *lowerer) visitDecls(decls []js_ast.Decl, ctx visitContext) {
	for i := range decls {
		decl := &decls[i]
		if decl.ValueOrNil.Data == nil {
			continue
		}

		// "let Foo = class {}" gives the class the name "Foo"
		nameHint := ""
		if b, ok := decl.Binding.Data.(*js_ast.BIdentifier); ok {
			nameHint = l.tree.Symbols[b.Ref.InnerIndex].OriginalName
		}
		decl.ValueOrNil = l.visitExprWithName(decl.ValueOrNil, ctx, nameHint)
	}
}

func (l *lowerer) visitForOf(s *js_ast.SForOf, ctx visitContext) {
	s.Value = l.visitExpr(s.Value, ctx)

	if expr, ok := s.Init.Data.(*js_ast.SExpr); ok {
		if private, ok := expr.Value.Data.(*js_ast.EPrivateMember); ok {
			// "for (a::x of b) c" => "for (const _a of b) { __instanceVarSet(a, _x, _a); c }"
			loc := s.Init.Loc
			ref := l.newSymbol(js_ast.SymbolConst, l.names.temp())
			value := js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Ref: ref}}
			assign := l.lowerPrivateAssign(loc, js_ast.BinOpAssign, private, value, ctx)
			stmts := []js_ast.Stmt{{Loc: loc, Data: &js_ast.SExpr{Value: assign}}}
			body := l.visitSingleStmt(s.Body, ctx)
			if block, ok := body.Data.(*js_ast.SBlock); ok {
				stmts = append(stmts, block.Stmts...)
			} else {
				stmts = append(stmts, body)
			}
			s.Init = js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalConst, Decls: []js_ast.Decl{{
				Binding: js_ast.Binding{Loc: loc, Data: &js_ast.BIdentifier{Ref: ref}},
			}}}}
			s.Body = js_ast.Stmt{Loc: s.Body.Loc, Data: &js_ast.SBlock{Stmts: stmts}}
			return
		}
	}

	s.Init = l.visitStmt(s.Init, ctx)
	s.Body = l.visitSingleStmt(s.Body, ctx)
}

// Argument defaults are evaluated outside of the function body, so any
// temporaries they need go in the enclosing function
func (l *lowerer) visitFnBody(fn *js_ast.Fn, ctx visitContext, state *fnState) {
	argsCtx := ctx
	argsCtx.tdz = nil
	for i := range fn.Args {
		if arg := &fn.Args[i]; arg.DefaultOrNil.Data != nil {
			arg.DefaultOrNil = l.visitExpr(arg.DefaultOrNil, argsCtx)
		}
	}
	fn.Body.Stmts = l.visitStmts(fn.Body.Stmts, ctx.enterFn(state))
}

func (l *lowerer) visitFn(fn *js_ast.Fn, ctx visitContext) {
	state := &fnState{}
	l.visitFnBody(fn, ctx, state)
	fn.Body.Stmts = declareTemps(state, fn.Body.Stmts, fn.Body.Loc)
}

func (l *lowerer) visitArrow(arrow *js_ast.EArrow, ctx visitContext) {
	argsCtx := ctx
	argsCtx.tdz = nil
	for i := range arrow.Args {
		if arg := &arrow.Args[i]; arg.DefaultOrNil.Data != nil {
			arg.DefaultOrNil = l.visitExpr(arg.DefaultOrNil, argsCtx)
		}
	}
	state := &fnState{}
	arrow.Body.Stmts = l.visitStmts(arrow.Body.Stmts, ctx.enterFn(state))
	arrow.Body.Stmts = declareTemps(state, arrow.Body.Stmts, arrow.Body.Loc)
}

func (l *lowerer) visitExprs(exprs []js_ast.Expr, ctx visitContext) {
	for i, expr := range exprs {
		exprs[i] = l.visitExpr(expr, ctx)
	}
}

func (l *lowerer) visitExpr(expr js_ast.Expr, ctx visitContext) js_ast.Expr {
	return l.visitExprWithName(expr, ctx, "")
}

// The name hint is used to name anonymous class expressions that need to be
// wrapped in a closure
func (l *lowerer) visitExprWithName(expr js_ast.Expr, ctx visitContext, nameHint string) js_ast.Expr {
	switch e := expr.Data.(type) {
	case *js_ast.EIdentifier:
		if ctx.refs != nil {
			ctx.refs.use(e.Ref)
		}
		for _, ref := range ctx.tdz {
			if e.Ref == ref {
				return l.guardClassName(expr, ref)
			}
		}

	case *js_ast.EArray:
		l.visitExprs(e.Items, ctx)

	case *js_ast.ESpread:
		e.Value = l.visitExpr(e.Value, ctx)

	case *js_ast.EUnary:
		if private, ok := e.Value.Data.(*js_ast.EPrivateMember); ok && e.Op.UnaryAssignTarget() != js_ast.AssignTargetNone {
			return l.lowerPrivateUpdate(expr.Loc, e.Op, private, ctx)
		}
		e.Value = l.visitExpr(e.Value, ctx)

	case *js_ast.EBinary:
		if private, ok := e.Left.Data.(*js_ast.EPrivateMember); ok && e.Op.BinaryAssignTarget() != js_ast.AssignTargetNone {
			return l.lowerPrivateAssign(expr.Loc, e.Op, private, e.Right, ctx)
		}
		rightHint := ""
		if id, ok := e.Left.Data.(*js_ast.EIdentifier); ok && e.Op == js_ast.BinOpAssign {
			rightHint = l.tree.Symbols[id.Ref.InnerIndex].OriginalName
		}
		e.Left = l.visitExpr(e.Left, ctx)
		e.Right = l.visitExprWithName(e.Right, ctx, rightHint)

	case *js_ast.ECall:
		if private, ok := e.Target.Data.(*js_ast.EPrivateMember); ok {
			return l.lowerPrivateCall(expr.Loc, private, e.Args, ctx)
		}
		e.Target = l.visitExpr(e.Target, ctx)
		l.visitExprs(e.Args, ctx)

	case *js_ast.ENew:
		e.Target = l.visitExpr(e.Target, ctx)
		l.visitExprs(e.Args, ctx)

	case *js_ast.EDot:
		e.Target = l.visitExpr(e.Target, ctx)

	case *js_ast.EIndex:
		e.Target = l.visitExpr(e.Target, ctx)
		e.Index = l.visitExpr(e.Index, ctx)

	case *js_ast.EPrivateMember:
		return l.lowerPrivateGet(expr.Loc, e, ctx)

	case *js_ast.EIf:
		e.Test = l.visitExpr(e.Test, ctx)
		e.Yes = l.visitExpr(e.Yes, ctx)
		e.No = l.visitExpr(e.No, ctx)

	case *js_ast.EObject:
		for i := range e.Properties {
			property := &e.Properties[i]
			if property.Flags.Has(js_ast.PropertyIsComputed) {
				property.Key = l.visitExpr(property.Key, ctx)
			}
			if property.ValueOrNil.Data != nil {
				property.ValueOrNil = l.visitExpr(property.ValueOrNil, ctx)
			}
		}

	case *js_ast.EFunction:
		if ctx.refs != nil {
			ctx.refs.declareScope(e.Fn.Scope)
		}
		l.visitFn(&e.Fn, ctx)

	case *js_ast.EArrow:
		if ctx.refs != nil {
			ctx.refs.declareScope(e.Scope)
		}
		l.visitArrow(e, ctx)

	case *js_ast.EClass:
		return l.lowerClassExpr(expr, e, ctx, nameHint)
	}

	return expr
}
