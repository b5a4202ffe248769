package js_ast

// The lowering pass sometimes needs the same subtree in more than one place,
// for example when instance variable initializers are inserted after several
// "super()" calls. Each place must get its own nodes because later passes
// mutate nodes in place. Scopes and symbols are shared between the copies.

func CloneExpr(expr Expr) Expr {
	switch e := expr.Data.(type) {
	case nil:
		return expr

	case *EArray:
		clone := *e
		clone.Items = CloneExprs(e.Items)
		return Expr{Loc: expr.Loc, Data: &clone}

	case *EUnary:
		return Expr{Loc: expr.Loc, Data: &EUnary{Op: e.Op, Value: CloneExpr(e.Value)}}

	case *EBinary:
		return Expr{Loc: expr.Loc, Data: &EBinary{Op: e.Op, Left: CloneExpr(e.Left), Right: CloneExpr(e.Right)}}

	case *EBoolean:
		return Expr{Loc: expr.Loc, Data: &EBoolean{Value: e.Value}}

	case *ESuper:
		return Expr{Loc: expr.Loc, Data: &ESuper{}}

	case *ENull:
		return Expr{Loc: expr.Loc, Data: &ENull{}}

	case *EUndefined:
		return Expr{Loc: expr.Loc, Data: &EUndefined{}}

	case *EThis:
		return Expr{Loc: expr.Loc, Data: &EThis{}}

	case *ENew:
		return Expr{Loc: expr.Loc, Data: &ENew{Target: CloneExpr(e.Target), Args: CloneExprs(e.Args)}}

	case *ECall:
		return Expr{Loc: expr.Loc, Data: &ECall{Target: CloneExpr(e.Target), Args: CloneExprs(e.Args)}}

	case *EDot:
		return Expr{Loc: expr.Loc, Data: &EDot{Target: CloneExpr(e.Target), Name: e.Name, NameLoc: e.NameLoc}}

	case *EIndex:
		return Expr{Loc: expr.Loc, Data: &EIndex{Target: CloneExpr(e.Target), Index: CloneExpr(e.Index)}}

	case *EPrivateMember:
		return Expr{Loc: expr.Loc, Data: &EPrivateMember{Target: CloneExpr(e.Target), Name: e.Name, NameLoc: e.NameLoc}}

	case *EArrow:
		clone := *e
		clone.Args = cloneArgs(e.Args)
		clone.Body = FnBody{Loc: e.Body.Loc, Stmts: CloneStmts(e.Body.Stmts)}
		return Expr{Loc: expr.Loc, Data: &clone}

	case *EFunction:
		return Expr{Loc: expr.Loc, Data: &EFunction{Fn: cloneFn(e.Fn)}}

	case *EClass:
		return Expr{Loc: expr.Loc, Data: &EClass{Class: cloneClass(e.Class)}}

	case *EIdentifier:
		return Expr{Loc: expr.Loc, Data: &EIdentifier{Ref: e.Ref}}

	case *EMissing:
		return Expr{Loc: expr.Loc, Data: &EMissing{}}

	case *ENumber:
		return Expr{Loc: expr.Loc, Data: &ENumber{Value: e.Value}}

	case *EString:
		return Expr{Loc: expr.Loc, Data: &EString{Value: e.Value}}

	case *EObject:
		return Expr{Loc: expr.Loc, Data: &EObject{Properties: cloneProperties(e.Properties), IsSingleLine: e.IsSingleLine}}

	case *ESpread:
		return Expr{Loc: expr.Loc, Data: &ESpread{Value: CloneExpr(e.Value)}}

	case *EIf:
		return Expr{Loc: expr.Loc, Data: &EIf{Test: CloneExpr(e.Test), Yes: CloneExpr(e.Yes), No: CloneExpr(e.No)}}

	default:
		panic("Internal error")
	}
}

func CloneExprs(exprs []Expr) []Expr {
	if exprs == nil {
		return nil
	}
	clone := make([]Expr, len(exprs))
	for i, expr := range exprs {
		clone[i] = CloneExpr(expr)
	}
	return clone
}

func CloneStmt(stmt Stmt) Stmt {
	switch s := stmt.Data.(type) {
	case nil:
		return stmt

	case *SBlock:
		return Stmt{Loc: stmt.Loc, Data: &SBlock{Stmts: CloneStmts(s.Stmts), CloseBraceLoc: s.CloseBraceLoc}}

	case *SEmpty:
		return Stmt{Loc: stmt.Loc, Data: &SEmpty{}}

	case *SExpr:
		return Stmt{Loc: stmt.Loc, Data: &SExpr{Value: CloneExpr(s.Value)}}

	case *SFunction:
		return Stmt{Loc: stmt.Loc, Data: &SFunction{Fn: cloneFn(s.Fn)}}

	case *SClass:
		return Stmt{Loc: stmt.Loc, Data: &SClass{Class: cloneClass(s.Class)}}

	case *SReturn:
		return Stmt{Loc: stmt.Loc, Data: &SReturn{ValueOrNil: CloneExpr(s.ValueOrNil)}}

	case *SThrow:
		return Stmt{Loc: stmt.Loc, Data: &SThrow{Value: CloneExpr(s.Value)}}

	case *SIf:
		return Stmt{Loc: stmt.Loc, Data: &SIf{Test: CloneExpr(s.Test), Yes: CloneStmt(s.Yes), NoOrNil: CloneStmt(s.NoOrNil)}}

	case *SFor:
		return Stmt{Loc: stmt.Loc, Data: &SFor{
			InitOrNil:   CloneStmt(s.InitOrNil),
			TestOrNil:   CloneExpr(s.TestOrNil),
			UpdateOrNil: CloneExpr(s.UpdateOrNil),
			Body:        CloneStmt(s.Body),
		}}

	case *SForOf:
		return Stmt{Loc: stmt.Loc, Data: &SForOf{Init: CloneStmt(s.Init), Value: CloneExpr(s.Value), Body: CloneStmt(s.Body)}}

	case *SWhile:
		return Stmt{Loc: stmt.Loc, Data: &SWhile{Test: CloneExpr(s.Test), Body: CloneStmt(s.Body)}}

	case *SBreak:
		return Stmt{Loc: stmt.Loc, Data: &SBreak{}}

	case *SContinue:
		return Stmt{Loc: stmt.Loc, Data: &SContinue{}}

	case *SLocal:
		decls := make([]Decl, len(s.Decls))
		for i, decl := range s.Decls {
			decls[i] = Decl{Binding: cloneBinding(decl.Binding), ValueOrNil: CloneExpr(decl.ValueOrNil), TypeRange: decl.TypeRange}
		}
		return Stmt{Loc: stmt.Loc, Data: &SLocal{Kind: s.Kind, Decls: decls}}

	default:
		panic("Internal error")
	}
}

func CloneStmts(stmts []Stmt) []Stmt {
	if stmts == nil {
		return nil
	}
	clone := make([]Stmt, len(stmts))
	for i, stmt := range stmts {
		clone[i] = CloneStmt(stmt)
	}
	return clone
}

func cloneBinding(binding Binding) Binding {
	switch b := binding.Data.(type) {
	case *BIdentifier:
		return Binding{Loc: binding.Loc, Data: &BIdentifier{Ref: b.Ref}}
	case *BMissing:
		return Binding{Loc: binding.Loc, Data: &BMissing{}}
	}
	return binding
}

func cloneArgs(args []Arg) []Arg {
	clone := make([]Arg, len(args))
	for i, arg := range args {
		clone[i] = Arg{Binding: cloneBinding(arg.Binding), DefaultOrNil: CloneExpr(arg.DefaultOrNil), TypeRange: arg.TypeRange}
	}
	return clone
}

func cloneFn(fn Fn) Fn {
	clone := fn
	if fn.Name != nil {
		name := *fn.Name
		clone.Name = &name
	}
	clone.Args = cloneArgs(fn.Args)
	clone.Body = FnBody{Loc: fn.Body.Loc, Stmts: CloneStmts(fn.Body.Stmts)}
	return clone
}

func cloneClass(class Class) Class {
	clone := class
	if class.Name != nil {
		name := *class.Name
		clone.Name = &name
	}
	clone.Decorators = CloneExprs(class.Decorators)
	clone.ExtendsOrNil = CloneExpr(class.ExtendsOrNil)
	clone.Properties = cloneProperties(class.Properties)
	return clone
}

func cloneProperties(properties []Property) []Property {
	clone := make([]Property, len(properties))
	for i, property := range properties {
		clone[i] = property
		clone[i].Decorators = CloneExprs(property.Decorators)
		clone[i].Key = CloneExpr(property.Key)
		clone[i].ValueOrNil = CloneExpr(property.ValueOrNil)
		clone[i].InitializerOrNil = CloneExpr(property.InitializerOrNil)
	}
	return clone
}
