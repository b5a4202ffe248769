package js_parser

import (
	"fmt"

	"github.com/evanw/classvars/internal/config"
	"github.com/evanw/classvars/internal/js_ast"
	"github.com/evanw/classvars/internal/js_lexer"
	"github.com/evanw/classvars/internal/logger"
)

// This parser does two passes:
//
//  1. Parse the source into an AST, create the scope tree, and declare
//     symbols. Each identifier expression remembers the scope it was used in.
//
//  2. Bind every identifier expression to a symbol by walking up the scope
//     tree. This happens after the whole file has been parsed because
//     declarations are visible before the point where they appear.
//
// Instance variable accesses such as "this::x" are not bound here. Deciding
// which class they refer to is the job of the lowering pass.
type parser struct {
	log          logger.Log
	source       logger.Source
	lexer        js_lexer.Lexer
	options      Options
	symbols      []js_ast.Symbol
	moduleScope  *js_ast.Scope
	currentScope *js_ast.Scope
	unbound      map[string]js_ast.Ref
	identifiers  []identifierUse
}

type identifierUse struct {
	id    *js_ast.EIdentifier
	name  string
	scope *js_ast.Scope
}

type Options struct {
	ts config.TSOptions
}

func OptionsFromConfig(options *config.Options) Options {
	return Options{
		ts: options.TS,
	}
}

func Parse(log logger.Log, source logger.Source, options Options) (result js_ast.AST, ok bool) {
	ok = true
	defer func() {
		r := recover()
		if _, isLexerPanic := r.(js_lexer.LexerPanic); isLexerPanic {
			ok = false
		} else if r != nil {
			panic(r)
		}
	}()

	p := newParser(log, source, js_lexer.NewLexer(log, source), options)
	stmts := p.parseStmtsUpTo(js_lexer.TEndOfFile)
	p.bindIdentifiers()

	result = js_ast.AST{
		Stmts:       stmts,
		Symbols:     p.symbols,
		ModuleScope: p.moduleScope,
	}
	return
}

func newParser(log logger.Log, source logger.Source, lexer js_lexer.Lexer, options Options) *parser {
	p := &parser{
		log:     log,
		source:  source,
		lexer:   lexer,
		options: options,
		unbound: make(map[string]js_ast.Ref),
	}
	p.moduleScope = p.pushScope(js_ast.ScopeEntry)
	return p
}

func (p *parser) pushScope(kind js_ast.ScopeKind) *js_ast.Scope {
	parent := p.currentScope
	scope := &js_ast.Scope{
		Kind:    kind,
		Parent:  parent,
		Members: make(map[string]js_ast.ScopeMember),
	}
	if parent != nil {
		parent.Children = append(parent.Children, scope)
	}
	p.currentScope = scope
	return scope
}

func (p *parser) popScope() {
	p.currentScope = p.currentScope.Parent
}

func (p *parser) newSymbol(kind js_ast.SymbolKind, name string) js_ast.Ref {
	ref := js_ast.Ref{InnerIndex: uint32(len(p.symbols))}
	p.symbols = append(p.symbols, js_ast.Symbol{
		Kind:         kind,
		OriginalName: name,
	})
	return ref
}

func isHoisted(kind js_ast.SymbolKind) bool {
	return kind == js_ast.SymbolHoisted || kind == js_ast.SymbolHoistedFunction
}

func (p *parser) declareSymbol(kind js_ast.SymbolKind, loc logger.Loc, name string) js_ast.Ref {
	scope := p.currentScope

	// "var" declarations belong to the enclosing function or module
	if kind == js_ast.SymbolHoisted {
		for !scope.Kind.StopsHoisting() {
			scope = scope.Parent
		}

		// A "var" in a function body merges with an argument of the same name
		if scope.Kind == js_ast.ScopeFunctionBody {
			if existing, ok := scope.Parent.Members[name]; ok {
				return existing.Ref
			}
		}
	}

	if existing, ok := scope.Members[name]; ok {
		if isHoisted(kind) && isHoisted(p.symbols[existing.Ref.InnerIndex].Kind) {
			return existing.Ref
		}

		// Duplicate class variables are reported when the class is lowered
		if scope.Kind == js_ast.ScopeClassBody {
			return p.newSymbol(kind, name)
		}

		r := p.source.RangeOfIdentifier(loc)
		p.log.AddRangeError(&p.source, r, fmt.Sprintf("The symbol %q has already been declared", name))
		return existing.Ref
	}

	ref := p.newSymbol(kind, name)
	scope.Members[name] = js_ast.ScopeMember{Ref: ref, Loc: loc}
	return ref
}

func (p *parser) newIdentifier(loc logger.Loc, name string) js_ast.Expr {
	id := &js_ast.EIdentifier{Ref: js_ast.InvalidRef}
	p.identifiers = append(p.identifiers, identifierUse{id: id, name: name, scope: p.currentScope})
	return js_ast.Expr{Loc: loc, Data: id}
}

// This is used when an expression turns out to be an arrow function argument
// instead of a use of a variable. It returns the name of the identifier.
func (p *parser) forgetIdentifier(id *js_ast.EIdentifier) string {
	for i := len(p.identifiers) - 1; i >= 0; i-- {
		if use := &p.identifiers[i]; use.id == id {
			use.id = nil
			return use.name
		}
	}
	panic("Internal error")
}

func (p *parser) bindIdentifiers() {
	for _, use := range p.identifiers {
		if use.id == nil {
			continue
		}
		ref := p.findSymbol(use.scope, use.name)
		use.id.Ref = ref
		p.symbols[ref.InnerIndex].UseCountEstimate++
	}
}

func (p *parser) findSymbol(scope *js_ast.Scope, name string) js_ast.Ref {
	for s := scope; s != nil; s = s.Parent {
		if member, ok := s.Members[name]; ok {
			return member.Ref
		}
	}

	// Unbound identifiers share one symbol per name
	ref, ok := p.unbound[name]
	if !ok {
		ref = p.newSymbol(js_ast.SymbolUnbound, name)
		p.unbound[name] = ref
	}
	return ref
}

func (p *parser) parseStmtsUpTo(end js_lexer.T) []js_ast.Stmt {
	stmts := []js_ast.Stmt{}
	for p.lexer.Token != end {
		stmt := p.parseStmt()
		if _, ok := stmt.Data.(*js_ast.SEmpty); ok {
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}

func (p *parser) parseStmt() js_ast.Stmt {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TSemicolon:
		p.lexer.Next()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SEmpty{}}

	case js_lexer.TOpenBrace:
		p.pushScope(js_ast.ScopeBlock)
		p.lexer.Next()
		stmts := p.parseStmtsUpTo(js_lexer.TCloseBrace)
		closeBraceLoc := p.lexer.Loc()
		p.lexer.Next()
		p.popScope()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SBlock{Stmts: stmts, CloseBraceLoc: closeBraceLoc}}

	case js_lexer.TVar:
		p.lexer.Next()
		decls := p.parseAndDeclareDecls(js_ast.SymbolHoisted)
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalVar, Decls: decls}}

	case js_lexer.TConst:
		p.lexer.Next()
		decls := p.parseAndDeclareDecls(js_ast.SymbolConst)
		p.requireInitializers(decls)
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalConst, Decls: decls}}

	case js_lexer.TFunction:
		p.lexer.Next()
		nameLoc := p.lexer.Loc()
		nameText := p.lexer.Identifier
		p.lexer.Expect(js_lexer.TIdentifier)
		name := &js_ast.LocRef{Loc: nameLoc, Ref: p.declareSymbol(js_ast.SymbolHoistedFunction, nameLoc, nameText)}
		p.pushScope(js_ast.ScopeFunctionArgs)
		fn := p.parseFn(name)
		p.popScope()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SFunction{Fn: fn}}

	case js_lexer.TClass, js_lexer.TAt:
		decorators := p.parseDecorators()
		classKeyword := p.lexer.Range()
		p.lexer.Expect(js_lexer.TClass)
		nameLoc := p.lexer.Loc()
		nameText := p.lexer.Identifier
		p.lexer.Expect(js_lexer.TIdentifier)
		if p.options.ts.Parse && p.lexer.Token == js_lexer.TLessThan {
			p.skipTypeScriptTypeArguments()
		}
		name := &js_ast.LocRef{Loc: nameLoc, Ref: p.declareSymbol(js_ast.SymbolClass, nameLoc, nameText)}
		class := p.parseClass(classKeyword, name, decorators)
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SClass{Class: class}}

	case js_lexer.TIf:
		p.lexer.Next()
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		yes := p.parseStmt()
		var noOrNil js_ast.Stmt
		if p.lexer.Token == js_lexer.TElse {
			p.lexer.Next()
			noOrNil = p.parseStmt()
		}
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SIf{Test: test, Yes: yes, NoOrNil: noOrNil}}

	case js_lexer.TWhile:
		p.lexer.Next()
		p.lexer.Expect(js_lexer.TOpenParen)
		test := p.parseExpr(js_ast.LLowest)
		p.lexer.Expect(js_lexer.TCloseParen)
		body := p.parseStmt()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SWhile{Test: test, Body: body}}

	case js_lexer.TFor:
		return p.parseForStmt(loc)

	case js_lexer.TReturn:
		p.lexer.Next()
		var value js_ast.Expr
		if p.lexer.Token != js_lexer.TSemicolon && !p.lexer.HasNewlineBefore &&
			p.lexer.Token != js_lexer.TCloseBrace && p.lexer.Token != js_lexer.TEndOfFile {
			value = p.parseExpr(js_ast.LLowest)
		}
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SReturn{ValueOrNil: value}}

	case js_lexer.TThrow:
		p.lexer.Next()
		if p.lexer.HasNewlineBefore {
			p.log.AddError(&p.source, logger.Loc{Start: loc.Start + 5}, "Unexpected newline after \"throw\"")
			panic(js_lexer.LexerPanic{})
		}
		value := p.parseExpr(js_ast.LLowest)
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SThrow{Value: value}}

	case js_lexer.TBreak:
		p.lexer.Next()
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SBreak{}}

	case js_lexer.TContinue:
		p.lexer.Next()
		p.lexer.ExpectOrInsertSemicolon()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SContinue{}}

	case js_lexer.TDo, js_lexer.TSwitch, js_lexer.TTry:
		p.log.AddRangeError(&p.source, p.lexer.Range(), fmt.Sprintf("%q statements are not supported", p.lexer.Raw()))
		panic(js_lexer.LexerPanic{})

	case js_lexer.TIdentifier:
		if p.lexer.IsContextualKeyword("let") {
			p.lexer.Next()
			if p.lexer.Token == js_lexer.TIdentifier {
				decls := p.parseAndDeclareDecls(js_ast.SymbolOther)
				p.lexer.ExpectOrInsertSemicolon()
				return js_ast.Stmt{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalLet, Decls: decls}}
			}

			// Otherwise "let" is the name of a variable
			expr := p.parseSuffix(p.newIdentifier(loc, "let"), js_ast.LLowest)
			p.lexer.ExpectOrInsertSemicolon()
			return js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: expr}}
		}
	}

	expr := p.parseExpr(js_ast.LLowest)
	p.lexer.ExpectOrInsertSemicolon()
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SExpr{Value: expr}}
}

func (p *parser) parseForStmt(loc logger.Loc) js_ast.Stmt {
	p.lexer.Next()

	// The loop variables are scoped to the loop
	p.pushScope(js_ast.ScopeBlock)
	defer p.popScope()

	p.lexer.Expect(js_lexer.TOpenParen)
	var initOrNil js_ast.Stmt
	var decls []js_ast.Decl
	initLoc := p.lexer.Loc()
	isConst := false

	switch p.lexer.Token {
	case js_lexer.TVar:
		p.lexer.Next()
		decls = p.parseAndDeclareDecls(js_ast.SymbolHoisted)
		initOrNil = js_ast.Stmt{Loc: initLoc, Data: &js_ast.SLocal{Kind: js_ast.LocalVar, Decls: decls}}

	case js_lexer.TConst:
		p.lexer.Next()
		decls = p.parseAndDeclareDecls(js_ast.SymbolConst)
		initOrNil = js_ast.Stmt{Loc: initLoc, Data: &js_ast.SLocal{Kind: js_ast.LocalConst, Decls: decls}}
		isConst = true

	case js_lexer.TSemicolon:

	default:
		if p.lexer.IsContextualKeyword("let") {
			p.lexer.Next()
			decls = p.parseAndDeclareDecls(js_ast.SymbolOther)
			initOrNil = js_ast.Stmt{Loc: initLoc, Data: &js_ast.SLocal{Kind: js_ast.LocalLet, Decls: decls}}
		} else {
			initOrNil = js_ast.Stmt{Loc: initLoc, Data: &js_ast.SExpr{Value: p.parseExpr(js_ast.LLowest)}}
		}
	}

	if p.lexer.Token == js_lexer.TIn || (p.lexer.Token == js_lexer.TCloseParen && isForInExpr(initOrNil)) {
		p.log.AddError(&p.source, loc, "for-in loops are not supported")
		panic(js_lexer.LexerPanic{})
	}

	if p.lexer.IsContextualKeyword("of") {
		if decls != nil {
			if len(decls) != 1 || decls[0].ValueOrNil.Data != nil {
				p.log.AddError(&p.source, initLoc, "for-of loops must have a single declaration without an initializer")
				panic(js_lexer.LexerPanic{})
			}
		} else if expr, ok := initOrNil.Data.(*js_ast.SExpr); ok {
			p.checkAssignTarget(expr.Value)
		}
		p.lexer.Next()
		value := p.parseExpr(js_ast.LComma)
		p.lexer.Expect(js_lexer.TCloseParen)
		body := p.parseStmt()
		return js_ast.Stmt{Loc: loc, Data: &js_ast.SForOf{Init: initOrNil, Value: value, Body: body}}
	}

	if isConst {
		p.requireInitializers(decls)
	}

	p.lexer.Expect(js_lexer.TSemicolon)
	var testOrNil js_ast.Expr
	if p.lexer.Token != js_lexer.TSemicolon {
		testOrNil = p.parseExpr(js_ast.LLowest)
	}

	p.lexer.Expect(js_lexer.TSemicolon)
	var updateOrNil js_ast.Expr
	if p.lexer.Token != js_lexer.TCloseParen {
		updateOrNil = p.parseExpr(js_ast.LLowest)
	}

	p.lexer.Expect(js_lexer.TCloseParen)
	body := p.parseStmt()
	return js_ast.Stmt{Loc: loc, Data: &js_ast.SFor{
		InitOrNil:   initOrNil,
		TestOrNil:   testOrNil,
		UpdateOrNil: updateOrNil,
		Body:        body,
	}}
}

// "for (a in b)" parses as a loop initializer followed by ")"
func isForInExpr(init js_ast.Stmt) bool {
	if expr, ok := init.Data.(*js_ast.SExpr); ok {
		if binary, ok := expr.Value.Data.(*js_ast.EBinary); ok {
			return binary.Op == js_ast.BinOpIn
		}
	}
	return false
}

// Only identifier bindings are supported. Destructuring is reported as a
// syntax error by "Expect".
func (p *parser) parseAndDeclareDecls(kind js_ast.SymbolKind) []js_ast.Decl {
	decls := []js_ast.Decl{}

	for {
		loc := p.lexer.Loc()
		name := p.lexer.Identifier
		p.lexer.Expect(js_lexer.TIdentifier)
		decl := js_ast.Decl{Binding: js_ast.Binding{Loc: loc, Data: &js_ast.BIdentifier{Ref: p.declareSymbol(kind, loc, name)}}}

		if p.options.ts.Parse && p.lexer.Token == js_lexer.TColon {
			p.lexer.Next()
			decl.TypeRange = p.skipTypeScriptType(false)
		}

		if p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			decl.ValueOrNil = p.parseExpr(js_ast.LComma)
		}

		decls = append(decls, decl)
		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	return decls
}

func (p *parser) requireInitializers(decls []js_ast.Decl) {
	for _, d := range decls {
		if d.ValueOrNil.Data == nil {
			r := p.source.RangeOfIdentifier(d.Binding.Loc)
			p.log.AddRangeError(&p.source, r, fmt.Sprintf("The constant %q must be initialized", p.source.TextForRange(r)))
		}
	}
}

func (p *parser) parseDecorators() []js_ast.Expr {
	var decorators []js_ast.Expr
	for p.lexer.Token == js_lexer.TAt {
		p.lexer.Next()
		decorators = append(decorators, p.parseExpr(js_ast.LNew))
	}
	return decorators
}

// The arguments scope must already be the current scope. It is kept on the
// "Fn" so the lowering pass can find the bindings of a constructor.
func (p *parser) parseFn(name *js_ast.LocRef) js_ast.Fn {
	fn := js_ast.Fn{Name: name, Scope: p.currentScope}
	p.lexer.Expect(js_lexer.TOpenParen)

	for p.lexer.Token != js_lexer.TCloseParen {
		if p.lexer.Token == js_lexer.TDotDotDot {
			p.lexer.Next()
			fn.HasRestArg = true
		}

		loc := p.lexer.Loc()
		argName := p.lexer.Identifier
		p.lexer.Expect(js_lexer.TIdentifier)
		arg := js_ast.Arg{Binding: js_ast.Binding{Loc: loc, Data: &js_ast.BIdentifier{Ref: p.declareSymbol(js_ast.SymbolHoisted, loc, argName)}}}

		if p.options.ts.Parse {
			if p.lexer.Token == js_lexer.TQuestion {
				p.lexer.Next()
			}
			if p.lexer.Token == js_lexer.TColon {
				p.lexer.Next()
				arg.TypeRange = p.skipTypeScriptType(false)
			}
		}

		if !fn.HasRestArg && p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			arg.DefaultOrNil = p.parseExpr(js_ast.LComma)
		}

		fn.Args = append(fn.Args, arg)
		if fn.HasRestArg || p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TCloseParen)

	// Skip over a return type
	if p.options.ts.Parse && p.lexer.Token == js_lexer.TColon {
		p.lexer.Next()
		p.skipTypeScriptType(true)
	}

	p.pushScope(js_ast.ScopeFunctionBody)
	fn.Body = p.parseFnBody()
	p.popScope()
	return fn
}

func (p *parser) parseFnBody() js_ast.FnBody {
	loc := p.lexer.Loc()
	p.lexer.Expect(js_lexer.TOpenBrace)
	stmts := p.parseStmtsUpTo(js_lexer.TCloseBrace)
	p.lexer.Next()
	return js_ast.FnBody{Loc: loc, Stmts: stmts}
}

// The arguments scope must already be the current scope
func (p *parser) parseArrowBody(args []js_ast.Arg, hasRestArg bool) *js_ast.EArrow {
	arrow := &js_ast.EArrow{Args: args, HasRestArg: hasRestArg, Scope: p.currentScope}
	p.lexer.Expect(js_lexer.TEqualsGreaterThan)
	p.pushScope(js_ast.ScopeFunctionBody)

	if p.lexer.Token == js_lexer.TOpenBrace {
		arrow.Body = p.parseFnBody()
	} else {
		loc := p.lexer.Loc()
		value := p.parseExpr(js_ast.LComma)
		arrow.Body = js_ast.FnBody{Loc: loc, Stmts: []js_ast.Stmt{{Loc: loc, Data: &js_ast.SReturn{ValueOrNil: value}}}}
		arrow.PreferExpr = true
	}

	p.popScope()
	return arrow
}

func (p *parser) parseClass(classKeyword logger.Range, name *js_ast.LocRef, decorators []js_ast.Expr) js_ast.Class {
	var extendsOrNil js_ast.Expr

	if p.lexer.Token == js_lexer.TExtends {
		p.lexer.Next()
		extendsOrNil = p.parseExpr(js_ast.LNew)
		if p.options.ts.Parse && p.lexer.Token == js_lexer.TLessThan {
			p.skipTypeScriptTypeArguments()
		}
	}

	if p.options.ts.Parse && p.lexer.IsContextualKeyword("implements") {
		p.lexer.Next()
		for {
			p.skipTypeScriptType(true)
			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
		}
	}

	bodyLoc := p.lexer.Loc()
	p.lexer.Expect(js_lexer.TOpenBrace)
	scope := p.pushScope(js_ast.ScopeClassBody)
	properties := []js_ast.Property{}
	hasConstructor := false

	for p.lexer.Token != js_lexer.TCloseBrace {
		if p.lexer.Token == js_lexer.TSemicolon {
			p.lexer.Next()
			continue
		}
		properties = p.parseClassMember(properties, &hasConstructor)
	}

	p.popScope()
	closeBraceLoc := p.lexer.Loc()
	p.lexer.Expect(js_lexer.TCloseBrace)

	return js_ast.Class{
		Decorators:    decorators,
		Name:          name,
		ExtendsOrNil:  extendsOrNil,
		BodyLoc:       bodyLoc,
		CloseBraceLoc: closeBraceLoc,
		Properties:    properties,
		BodyScope:     scope,
	}
}

func (p *parser) isPropertyKeyStart() bool {
	switch p.lexer.Token {
	case js_lexer.TStringLiteral, js_lexer.TNumericLiteral, js_lexer.TOpenBracket:
		return true
	}
	return p.lexer.IsIdentifierOrKeyword()
}

func (p *parser) parsePropertyKey() (key js_ast.Expr, flags js_ast.PropertyFlags, wasIdentifier bool) {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TStringLiteral:
		key = js_ast.Expr{Loc: loc, Data: &js_ast.EString{Value: p.lexer.StringLiteral}}
		p.lexer.Next()

	case js_lexer.TNumericLiteral:
		key = js_ast.Expr{Loc: loc, Data: &js_ast.ENumber{Value: p.lexer.Number}}
		p.lexer.Next()

	case js_lexer.TOpenBracket:
		p.lexer.Next()
		key = p.parseExpr(js_ast.LComma)
		p.lexer.Expect(js_lexer.TCloseBracket)
		flags = js_ast.PropertyIsComputed

	default:
		if !p.lexer.IsIdentifierOrKeyword() {
			p.lexer.Expect(js_lexer.TIdentifier)
		}
		wasIdentifier = p.lexer.Token == js_lexer.TIdentifier
		key = js_ast.Expr{Loc: loc, Data: &js_ast.EString{Value: p.lexer.Identifier}}
		p.lexer.Next()
	}

	return
}

// Parses the method that follows a property key. The key has already been
// consumed.
func (p *parser) parseMethod(loc logger.Loc) js_ast.Expr {
	p.pushScope(js_ast.ScopeFunctionArgs)
	fn := p.parseFn(nil)
	p.popScope()
	return js_ast.Expr{Loc: loc, Data: &js_ast.EFunction{Fn: fn}}
}

// Each of "static", "let", "const", "get", and "set" is a modifier only if
// it's followed by something that can continue the member. Otherwise it's
// the name of the member.
func (p *parser) parseClassMember(properties []js_ast.Property, hasConstructor *bool) []js_ast.Property {
	decorators := p.parseDecorators()
	loc := p.lexer.Loc()
	kind := js_ast.PropertyNormal
	var flags js_ast.PropertyFlags
	var key js_ast.Expr

	if p.lexer.IsContextualKeyword("static") {
		p.lexer.Next()
		if p.isPropertyKeyStart() {
			flags |= js_ast.PropertyIsStatic
		} else {
			key = js_ast.Expr{Loc: loc, Data: &js_ast.EString{Value: "static"}}
		}
	}

	if key.Data == nil {
		keyLoc := p.lexer.Loc()

		switch {
		case p.lexer.IsContextualKeyword("let") || p.lexer.Token == js_lexer.TConst:
			word := p.lexer.Identifier
			p.lexer.Next()
			if p.lexer.Token == js_lexer.TIdentifier {
				if word == "let" {
					flags |= js_ast.PropertyIsMutable
				}
				return p.parseClassVarDecls(properties, decorators, flags)
			}
			key = js_ast.Expr{Loc: keyLoc, Data: &js_ast.EString{Value: word}}

		case p.lexer.IsContextualKeyword("get") || p.lexer.IsContextualKeyword("set"):
			word := p.lexer.Identifier
			p.lexer.Next()
			if !p.isPropertyKeyStart() {
				key = js_ast.Expr{Loc: keyLoc, Data: &js_ast.EString{Value: word}}
			} else if word == "get" {
				kind = js_ast.PropertyGet
			} else {
				kind = js_ast.PropertySet
			}
		}
	}

	if key.Data == nil {
		var keyFlags js_ast.PropertyFlags
		key, keyFlags, _ = p.parsePropertyKey()
		flags |= keyFlags
	}

	// Methods, getters, and setters
	if p.lexer.Token == js_lexer.TOpenParen || kind != js_ast.PropertyNormal {
		if str, ok := key.Data.(*js_ast.EString); ok && str.Value == "constructor" &&
			!flags.Has(js_ast.PropertyIsStatic) && !flags.Has(js_ast.PropertyIsComputed) {
			if *hasConstructor || kind != js_ast.PropertyNormal {
				r := p.source.RangeOfIdentifier(key.Loc)
				if kind != js_ast.PropertyNormal {
					p.log.AddRangeError(&p.source, r, "Class constructor may not be an accessor")
				} else {
					p.log.AddRangeError(&p.source, r, "Classes cannot contain more than one constructor")
				}
			}
			*hasConstructor = true
		}

		return append(properties, js_ast.Property{
			Decorators: decorators,
			Key:        key,
			ValueOrNil: p.parseMethod(p.lexer.Loc()),
			Loc:        loc,
			Kind:       kind,
			Flags:      flags | js_ast.PropertyIsMethod,
		})
	}

	// Anything else is a public field. These are parsed so they can be
	// reported with a useful error.
	property := js_ast.Property{
		Decorators: decorators,
		Key:        key,
		VarRef:     js_ast.InvalidRef,
		Loc:        loc,
		Kind:       js_ast.PropertyField,
		Flags:      flags,
	}
	if p.options.ts.Parse {
		if p.lexer.Token == js_lexer.TQuestion || p.lexer.Token == js_lexer.TExclamation {
			p.lexer.Next()
		}
		if p.lexer.Token == js_lexer.TColon {
			p.lexer.Next()
			property.TypeRange = p.skipTypeScriptType(false)
		}
	}
	if p.lexer.Token == js_lexer.TEquals {
		p.lexer.Next()
		property.InitializerOrNil = p.parseExpr(js_ast.LComma)
	}
	p.lexer.ExpectOrInsertSemicolon()
	return append(properties, property)
}

// Parses the declarators of "let a = 1, b;" in a class body. Each one
// becomes a separate property. Class variables ("static let") are bindings
// in the class body scope, but instance variables have no symbol.
func (p *parser) parseClassVarDecls(properties []js_ast.Property, decorators []js_ast.Expr, flags js_ast.PropertyFlags) []js_ast.Property {
	for {
		nameLoc := p.lexer.Loc()
		name := p.lexer.Identifier
		p.lexer.Expect(js_lexer.TIdentifier)

		property := js_ast.Property{
			Decorators: decorators,
			Key:        js_ast.Expr{Loc: nameLoc, Data: &js_ast.EString{Value: name}},
			VarRef:     js_ast.InvalidRef,
			Loc:        nameLoc,
			Kind:       js_ast.PropertyInstanceVar,
			Flags:      flags,
		}

		if flags.Has(js_ast.PropertyIsStatic) {
			kind := js_ast.SymbolConst
			if flags.Has(js_ast.PropertyIsMutable) {
				kind = js_ast.SymbolOther
			}
			property.Kind = js_ast.PropertyClassVar
			property.VarRef = p.declareSymbol(kind, nameLoc, name)
		}

		if p.options.ts.Parse && p.lexer.Token == js_lexer.TColon {
			p.lexer.Next()
			property.TypeRange = p.skipTypeScriptType(false)
		}

		if p.lexer.Token == js_lexer.TEquals {
			p.lexer.Next()
			property.InitializerOrNil = p.parseExpr(js_ast.LComma)
		}

		properties = append(properties, property)
		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.lexer.ExpectOrInsertSemicolon()
	return properties
}

func (p *parser) parseObjectProperty() js_ast.Property {
	loc := p.lexer.Loc()
	kind := js_ast.PropertyNormal
	var key js_ast.Expr
	var flags js_ast.PropertyFlags
	wasIdentifier := false

	if p.lexer.Token == js_lexer.TDotDotDot {
		p.lexer.Next()
		return js_ast.Property{
			Kind:       js_ast.PropertySpread,
			Loc:        loc,
			ValueOrNil: p.parseExpr(js_ast.LComma),
			VarRef:     js_ast.InvalidRef,
		}
	}

	if p.lexer.IsContextualKeyword("get") || p.lexer.IsContextualKeyword("set") {
		word := p.lexer.Identifier
		p.lexer.Next()
		if !p.isPropertyKeyStart() {
			key = js_ast.Expr{Loc: loc, Data: &js_ast.EString{Value: word}}
			wasIdentifier = true
		} else if word == "get" {
			kind = js_ast.PropertyGet
		} else {
			kind = js_ast.PropertySet
		}
	}

	if key.Data == nil {
		key, flags, wasIdentifier = p.parsePropertyKey()
	}

	property := js_ast.Property{Key: key, Loc: loc, Kind: kind, Flags: flags, VarRef: js_ast.InvalidRef}

	switch {
	case p.lexer.Token == js_lexer.TOpenParen || kind != js_ast.PropertyNormal:
		property.ValueOrNil = p.parseMethod(p.lexer.Loc())
		property.Flags |= js_ast.PropertyIsMethod

	case p.lexer.Token == js_lexer.TColon:
		p.lexer.Next()
		property.ValueOrNil = p.parseExpr(js_ast.LComma)

	case wasIdentifier:
		name := key.Data.(*js_ast.EString).Value
		property.ValueOrNil = p.newIdentifier(key.Loc, name)
		property.Flags |= js_ast.PropertyWasShorthand

	default:
		p.lexer.Expect(js_lexer.TColon)
	}

	return property
}

func (p *parser) parseExpr(level js_ast.L) js_ast.Expr {
	return p.parseSuffix(p.parsePrefix(level), level)
}

func (p *parser) parsePrefix(level js_ast.L) js_ast.Expr {
	loc := p.lexer.Loc()

	switch p.lexer.Token {
	case js_lexer.TSuper:
		superRange := p.lexer.Range()
		p.lexer.Next()
		switch p.lexer.Token {
		case js_lexer.TOpenParen, js_lexer.TDot, js_lexer.TOpenBracket:
			return js_ast.Expr{Loc: loc, Data: &js_ast.ESuper{}}
		}
		p.log.AddRangeError(&p.source, superRange, "Unexpected \"super\"")
		panic(js_lexer.LexerPanic{})

	case js_lexer.TOpenParen:
		return p.parseParenExpr(loc)

	case js_lexer.TFalse:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBoolean{Value: false}}

	case js_lexer.TTrue:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBoolean{Value: true}}

	case js_lexer.TNull:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENull{}}

	case js_lexer.TThis:
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EThis{}}

	case js_lexer.TIdentifier:
		name := p.lexer.Identifier
		p.lexer.Next()

		// "x => x"
		if p.lexer.Token == js_lexer.TEqualsGreaterThan && !p.lexer.HasNewlineBefore {
			p.pushScope(js_ast.ScopeFunctionArgs)
			ref := p.declareSymbol(js_ast.SymbolHoisted, loc, name)
			arrow := p.parseArrowBody([]js_ast.Arg{{Binding: js_ast.Binding{Loc: loc, Data: &js_ast.BIdentifier{Ref: ref}}}}, false)
			p.popScope()
			return js_ast.Expr{Loc: loc, Data: arrow}
		}

		return p.newIdentifier(loc, name)

	case js_lexer.TStringLiteral:
		value := p.lexer.StringLiteral
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EString{Value: value}}

	case js_lexer.TNumericLiteral:
		value := p.lexer.Number
		p.lexer.Next()
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENumber{Value: value}}

	case js_lexer.TVoid:
		return p.parseUnary(loc, js_ast.UnOpVoid)

	case js_lexer.TTypeof:
		return p.parseUnary(loc, js_ast.UnOpTypeof)

	case js_lexer.TDelete:
		return p.parseUnary(loc, js_ast.UnOpDelete)

	case js_lexer.TMinus:
		return p.parseUnary(loc, js_ast.UnOpNeg)

	case js_lexer.TPlus:
		return p.parseUnary(loc, js_ast.UnOpPos)

	case js_lexer.TTilde:
		return p.parseUnary(loc, js_ast.UnOpCpl)

	case js_lexer.TExclamation:
		return p.parseUnary(loc, js_ast.UnOpNot)

	case js_lexer.TMinusMinus:
		expr := p.parseUnary(loc, js_ast.UnOpPreDec)
		p.checkAssignTarget(expr.Data.(*js_ast.EUnary).Value)
		return expr

	case js_lexer.TPlusPlus:
		expr := p.parseUnary(loc, js_ast.UnOpPreInc)
		p.checkAssignTarget(expr.Data.(*js_ast.EUnary).Value)
		return expr

	case js_lexer.TFunction:
		p.lexer.Next()
		p.pushScope(js_ast.ScopeFunctionArgs)

		// The name of a function expression is only visible inside it
		var name *js_ast.LocRef
		if p.lexer.Token == js_lexer.TIdentifier {
			nameLoc := p.lexer.Loc()
			name = &js_ast.LocRef{Loc: nameLoc, Ref: p.declareSymbol(js_ast.SymbolHoistedFunction, nameLoc, p.lexer.Identifier)}
			p.lexer.Next()
		}

		fn := p.parseFn(name)
		p.popScope()
		return js_ast.Expr{Loc: loc, Data: &js_ast.EFunction{Fn: fn}}

	case js_lexer.TClass, js_lexer.TAt:
		decorators := p.parseDecorators()
		classKeyword := p.lexer.Range()
		p.lexer.Expect(js_lexer.TClass)

		// The name of a class expression is only visible inside it
		var name *js_ast.LocRef
		if p.lexer.Token == js_lexer.TIdentifier {
			p.pushScope(js_ast.ScopeClassName)
			nameLoc := p.lexer.Loc()
			name = &js_ast.LocRef{Loc: nameLoc, Ref: p.declareSymbol(js_ast.SymbolClass, nameLoc, p.lexer.Identifier)}
			p.lexer.Next()
		}
		if p.options.ts.Parse && p.lexer.Token == js_lexer.TLessThan {
			p.skipTypeScriptTypeArguments()
		}

		class := p.parseClass(classKeyword, name, decorators)
		if name != nil {
			p.popScope()
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.EClass{Class: class}}

	case js_lexer.TNew:
		p.lexer.Next()
		target := p.parseExpr(js_ast.LMember)
		var args []js_ast.Expr
		if p.lexer.Token == js_lexer.TOpenParen {
			args = p.parseCallArgs()
		}
		return js_ast.Expr{Loc: loc, Data: &js_ast.ENew{Target: target, Args: args}}

	case js_lexer.TOpenBracket:
		p.lexer.Next()
		isSingleLine := !p.lexer.HasNewlineBefore
		items := []js_ast.Expr{}

		for p.lexer.Token != js_lexer.TCloseBracket {
			switch p.lexer.Token {
			case js_lexer.TComma:
				items = append(items, js_ast.Expr{Loc: p.lexer.Loc(), Data: &js_ast.EMissing{}})

			case js_lexer.TDotDotDot:
				dotsLoc := p.lexer.Loc()
				p.lexer.Next()
				items = append(items, js_ast.Expr{Loc: dotsLoc, Data: &js_ast.ESpread{Value: p.parseExpr(js_ast.LComma)}})

			default:
				items = append(items, p.parseExpr(js_ast.LComma))
			}

			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
			if p.lexer.HasNewlineBefore {
				isSingleLine = false
			}
		}

		if p.lexer.HasNewlineBefore {
			isSingleLine = false
		}
		p.lexer.Expect(js_lexer.TCloseBracket)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EArray{Items: items, IsSingleLine: isSingleLine}}

	case js_lexer.TOpenBrace:
		p.lexer.Next()
		isSingleLine := !p.lexer.HasNewlineBefore
		properties := []js_ast.Property{}

		for p.lexer.Token != js_lexer.TCloseBrace {
			properties = append(properties, p.parseObjectProperty())
			if p.lexer.Token != js_lexer.TComma {
				break
			}
			p.lexer.Next()
			if p.lexer.HasNewlineBefore {
				isSingleLine = false
			}
		}

		if p.lexer.HasNewlineBefore {
			isSingleLine = false
		}
		p.lexer.Expect(js_lexer.TCloseBrace)
		return js_ast.Expr{Loc: loc, Data: &js_ast.EObject{Properties: properties, IsSingleLine: isSingleLine}}
	}

	p.lexer.Unexpected()
	return js_ast.Expr{}
}

func (p *parser) parseUnary(loc logger.Loc, op js_ast.OpCode) js_ast.Expr {
	p.lexer.Next()
	value := p.parseExpr(js_ast.LPrefix)
	return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: op, Value: value}}
}

// The contents of the parentheses are parsed in the scope an arrow function
// would use. If there's no "=>" afterward, that scope becomes a block scope
// and the contents are a parenthesized expression.
func (p *parser) parseParenExpr(loc logger.Loc) js_ast.Expr {
	scope := p.pushScope(js_ast.ScopeFunctionArgs)
	p.lexer.Next()

	items := []js_ast.Expr{}
	typeRanges := []logger.Range{}
	mustBeArrow := false

	for p.lexer.Token != js_lexer.TCloseParen {
		if p.lexer.Token == js_lexer.TDotDotDot {
			dotsLoc := p.lexer.Loc()
			p.lexer.Next()
			items = append(items, js_ast.Expr{Loc: dotsLoc, Data: &js_ast.ESpread{Value: p.parseExpr(js_ast.LComma)}})
			mustBeArrow = true
		} else {
			items = append(items, p.parseExpr(js_ast.LComma))
		}

		var typeRange logger.Range
		if p.options.ts.Parse && p.lexer.Token == js_lexer.TColon {
			p.lexer.Next()
			typeRange = p.skipTypeScriptType(false)
			mustBeArrow = true
		}
		typeRanges = append(typeRanges, typeRange)

		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TCloseParen)

	if p.lexer.Token == js_lexer.TEqualsGreaterThan && !p.lexer.HasNewlineBefore {
		args, hasRestArg := p.convertExprsToArgs(items, typeRanges)
		arrow := p.parseArrowBody(args, hasRestArg)
		p.popScope()
		return js_ast.Expr{Loc: loc, Data: arrow}
	}

	if len(items) == 0 || mustBeArrow {
		p.lexer.Expected(js_lexer.TEqualsGreaterThan)
	}

	scope.Kind = js_ast.ScopeBlock
	p.popScope()
	return js_ast.JoinAllWithComma(items)
}

func (p *parser) convertExprsToArgs(items []js_ast.Expr, typeRanges []logger.Range) (args []js_ast.Arg, hasRestArg bool) {
	for i, item := range items {
		var defaultOrNil js_ast.Expr

		if spread, ok := item.Data.(*js_ast.ESpread); ok {
			if i+1 != len(items) {
				p.log.AddError(&p.source, item.Loc, "Expected \")\" after the rest argument")
				panic(js_lexer.LexerPanic{})
			}
			item = spread.Value
			hasRestArg = true
		} else if binary, ok := item.Data.(*js_ast.EBinary); ok && binary.Op == js_ast.BinOpAssign {
			item = binary.Left
			defaultOrNil = binary.Right
		}

		id, ok := item.Data.(*js_ast.EIdentifier)
		if !ok {
			p.log.AddError(&p.source, item.Loc, "Invalid binding pattern")
			panic(js_lexer.LexerPanic{})
		}

		ref := p.declareSymbol(js_ast.SymbolHoisted, item.Loc, p.forgetIdentifier(id))
		args = append(args, js_ast.Arg{
			Binding:      js_ast.Binding{Loc: item.Loc, Data: &js_ast.BIdentifier{Ref: ref}},
			DefaultOrNil: defaultOrNil,
			TypeRange:    typeRanges[i],
		})
	}
	return
}

func (p *parser) parseCallArgs() []js_ast.Expr {
	args := []js_ast.Expr{}
	p.lexer.Expect(js_lexer.TOpenParen)

	for p.lexer.Token != js_lexer.TCloseParen {
		loc := p.lexer.Loc()
		isSpread := p.lexer.Token == js_lexer.TDotDotDot
		if isSpread {
			p.lexer.Next()
		}
		arg := p.parseExpr(js_ast.LComma)
		if isSpread {
			arg = js_ast.Expr{Loc: loc, Data: &js_ast.ESpread{Value: arg}}
		}
		args = append(args, arg)
		if p.lexer.Token != js_lexer.TComma {
			break
		}
		p.lexer.Next()
	}

	p.lexer.Expect(js_lexer.TCloseParen)
	return args
}

func (p *parser) checkAssignTarget(target js_ast.Expr) {
	switch target.Data.(type) {
	case *js_ast.EIdentifier, *js_ast.EDot, *js_ast.EIndex, *js_ast.EPrivateMember:
		return
	}
	p.log.AddError(&p.source, target.Loc, "Invalid assignment target")
	panic(js_lexer.LexerPanic{})
}

var binaryOps = map[js_lexer.T]js_ast.OpCode{
	js_lexer.TPlus:                                    js_ast.BinOpAdd,
	js_lexer.TMinus:                                   js_ast.BinOpSub,
	js_lexer.TAsterisk:                                js_ast.BinOpMul,
	js_lexer.TSlash:                                   js_ast.BinOpDiv,
	js_lexer.TPercent:                                 js_ast.BinOpRem,
	js_lexer.TAsteriskAsterisk:                        js_ast.BinOpPow,
	js_lexer.TLessThan:                                js_ast.BinOpLt,
	js_lexer.TLessThanEquals:                          js_ast.BinOpLe,
	js_lexer.TGreaterThan:                             js_ast.BinOpGt,
	js_lexer.TGreaterThanEquals:                       js_ast.BinOpGe,
	js_lexer.TIn:                                      js_ast.BinOpIn,
	js_lexer.TInstanceof:                              js_ast.BinOpInstanceof,
	js_lexer.TLessThanLessThan:                        js_ast.BinOpShl,
	js_lexer.TGreaterThanGreaterThan:                  js_ast.BinOpShr,
	js_lexer.TGreaterThanGreaterThanGreaterThan:       js_ast.BinOpUShr,
	js_lexer.TEqualsEquals:                            js_ast.BinOpLooseEq,
	js_lexer.TExclamationEquals:                       js_ast.BinOpLooseNe,
	js_lexer.TEqualsEqualsEquals:                      js_ast.BinOpStrictEq,
	js_lexer.TExclamationEqualsEquals:                 js_ast.BinOpStrictNe,
	js_lexer.TQuestionQuestion:                        js_ast.BinOpNullishCoalescing,
	js_lexer.TBarBar:                                  js_ast.BinOpLogicalOr,
	js_lexer.TAmpersandAmpersand:                      js_ast.BinOpLogicalAnd,
	js_lexer.TBar:                                     js_ast.BinOpBitwiseOr,
	js_lexer.TAmpersand:                               js_ast.BinOpBitwiseAnd,
	js_lexer.TCaret:                                   js_ast.BinOpBitwiseXor,
	js_lexer.TEquals:                                  js_ast.BinOpAssign,
	js_lexer.TPlusEquals:                              js_ast.BinOpAddAssign,
	js_lexer.TMinusEquals:                             js_ast.BinOpSubAssign,
	js_lexer.TAsteriskEquals:                          js_ast.BinOpMulAssign,
	js_lexer.TSlashEquals:                             js_ast.BinOpDivAssign,
	js_lexer.TPercentEquals:                           js_ast.BinOpRemAssign,
	js_lexer.TAsteriskAsteriskEquals:                  js_ast.BinOpPowAssign,
	js_lexer.TLessThanLessThanEquals:                  js_ast.BinOpShlAssign,
	js_lexer.TGreaterThanGreaterThanEquals:            js_ast.BinOpShrAssign,
	js_lexer.TGreaterThanGreaterThanGreaterThanEquals: js_ast.BinOpUShrAssign,
	js_lexer.TBarEquals:                               js_ast.BinOpBitwiseOrAssign,
	js_lexer.TAmpersandEquals:                         js_ast.BinOpBitwiseAndAssign,
	js_lexer.TCaretEquals:                             js_ast.BinOpBitwiseXorAssign,
	js_lexer.TQuestionQuestionEquals:                  js_ast.BinOpNullishCoalescingAssign,
	js_lexer.TBarBarEquals:                            js_ast.BinOpLogicalOrAssign,
	js_lexer.TAmpersandAmpersandEquals:                js_ast.BinOpLogicalAndAssign,
}

func (p *parser) parseSuffix(left js_ast.Expr, level js_ast.L) js_ast.Expr {
	for {
		switch p.lexer.Token {
		case js_lexer.TDot:
			p.lexer.Next()
			nameLoc := p.lexer.Loc()
			if !p.lexer.IsIdentifierOrKeyword() {
				p.lexer.Expect(js_lexer.TIdentifier)
			}
			name := p.lexer.Identifier
			p.lexer.Next()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EDot{Target: left, Name: name, NameLoc: nameLoc}}

		case js_lexer.TColonColon:
			p.lexer.Next()
			nameLoc := p.lexer.Loc()
			name := p.lexer.Identifier
			p.lexer.Expect(js_lexer.TIdentifier)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EPrivateMember{Target: left, Name: name, NameLoc: nameLoc}}

		case js_lexer.TOpenBracket:
			p.lexer.Next()
			index := p.parseExpr(js_ast.LLowest)
			p.lexer.Expect(js_lexer.TCloseBracket)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EIndex{Target: left, Index: index}}

		case js_lexer.TOpenParen:
			if level >= js_ast.LCall {
				return left
			}
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.ECall{Target: left, Args: p.parseCallArgs()}}

		case js_lexer.TQuestion:
			if level >= js_ast.LConditional {
				return left
			}
			p.lexer.Next()
			yes := p.parseExpr(js_ast.LComma)
			p.lexer.Expect(js_lexer.TColon)
			no := p.parseExpr(js_ast.LComma)
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EIf{Test: left, Yes: yes, No: no}}

		case js_lexer.TMinusMinus, js_lexer.TPlusPlus:
			if p.lexer.HasNewlineBefore || level >= js_ast.LPostfix {
				return left
			}
			op := js_ast.UnOpPostInc
			if p.lexer.Token == js_lexer.TMinusMinus {
				op = js_ast.UnOpPostDec
			}
			p.checkAssignTarget(left)
			p.lexer.Next()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EUnary{Op: op, Value: left}}

		case js_lexer.TComma:
			if level >= js_ast.LComma {
				return left
			}
			p.lexer.Next()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EBinary{Op: js_ast.BinOpComma, Left: left, Right: p.parseExpr(js_ast.LComma)}}

		default:
			op, ok := binaryOps[p.lexer.Token]
			if !ok {
				return left
			}
			opLevel := js_ast.OpTable[op].Level
			if level >= opLevel {
				return left
			}

			// Assignments and "**" are right-associative
			rightLevel := opLevel
			if op.IsRightAssociative() {
				rightLevel = opLevel - 1
			}
			if op.BinaryAssignTarget() != js_ast.AssignTargetNone {
				p.checkAssignTarget(left)
			}

			p.lexer.Next()
			left = js_ast.Expr{Loc: left.Loc, Data: &js_ast.EBinary{Op: op, Left: left, Right: p.parseExpr(rightLevel)}}
		}
	}
}
