package js_parser

import (
	"testing"

	"github.com/evanw/classvars/internal/config"
	"github.com/evanw/classvars/internal/js_ast"
	"github.com/evanw/classvars/internal/js_printer"
	"github.com/evanw/classvars/internal/logger"
	"github.com/evanw/classvars/internal/test"
)

func expectParseErrorCommon(t *testing.T, contents string, expected string, options config.Options) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		Parse(log, test.SourceForTest(contents), OptionsFromConfig(&options))
		msgs := log.Done()
		text := ""
		for _, msg := range msgs {
			text += msg.String(logger.OutputOptions{}, logger.TerminalInfo{})
		}
		test.AssertEqualWithDiff(t, text, expected)
	})
}

func expectParseError(t *testing.T, contents string, expected string) {
	t.Helper()
	expectParseErrorCommon(t, contents, expected, config.Options{})
}

func expectParseErrorTS(t *testing.T, contents string, expected string) {
	t.Helper()
	expectParseErrorCommon(t, contents, expected, config.Options{
		TS: config.TSOptions{Parse: true},
	})
}

func expectPrinted(t *testing.T, contents string, expected string) {
	t.Helper()
	t.Run(contents, func(t *testing.T) {
		t.Helper()
		log := logger.NewDeferLog()
		tree, ok := Parse(log, test.SourceForTest(contents), Options{})
		msgs := log.Done()
		text := ""
		for _, msg := range msgs {
			text += msg.String(logger.OutputOptions{}, logger.TerminalInfo{})
		}
		test.AssertEqualWithDiff(t, text, "")
		if !ok {
			t.Fatal("Parse error")
		}
		js := js_printer.Print(tree, js_printer.Options{}).JS
		test.AssertEqualWithDiff(t, string(js), expected)
	})
}

func parseForTest(t *testing.T, contents string) js_ast.AST {
	t.Helper()
	log := logger.NewDeferLog()
	tree, ok := Parse(log, test.SourceForTest(contents), Options{})
	if !ok || log.HasErrors() {
		t.Fatalf("Parse error in %q", contents)
	}
	return tree
}

// Returns the symbol of the identifier expression in "<name>;" statements,
// which must be the last statement in the given statement list
func lastExprSymbol(t *testing.T, tree js_ast.AST, stmts []js_ast.Stmt) js_ast.Symbol {
	t.Helper()
	expr, ok := stmts[len(stmts)-1].Data.(*js_ast.SExpr)
	if !ok {
		t.Fatal("Expected an expression statement")
	}
	id, ok := expr.Value.Data.(*js_ast.EIdentifier)
	if !ok {
		t.Fatal("Expected an identifier")
	}
	return tree.Symbols[id.Ref.InnerIndex]
}

func TestSyntaxErrors(t *testing.T) {
	expectParseError(t, "(", "<stdin>: error: Unexpected end of file\n")
	expectParseError(t, "a b", "<stdin>: error: Expected \";\" but found \"b\"\n")
	expectParseError(t, "()", "<stdin>: error: Expected \"=>\" but found end of file\n")
	expectParseError(t, "(...a)", "<stdin>: error: Expected \"=>\" but found end of file\n")
	expectParseError(t, "(a + 1) => a", "<stdin>: error: Invalid binding pattern\n")
	expectParseError(t, "(...a, b) => a", "<stdin>: error: Expected \")\" after the rest argument\n")
	expectParseError(t, "1 = 2", "<stdin>: error: Invalid assignment target\n")
	expectParseError(t, "a() += 2", "<stdin>: error: Invalid assignment target\n")
	expectParseError(t, "++a()", "<stdin>: error: Invalid assignment target\n")
	expectParseError(t, "super", "<stdin>: error: Unexpected \"super\"\n")
	expectParseError(t, "var [a] = b", "<stdin>: error: Expected identifier but found \"[\"\n")
	expectParseError(t, "const a", "<stdin>: error: The constant \"a\" must be initialized\n")
	expectParseError(t, "throw\nx", "<stdin>: error: Unexpected newline after \"throw\"\n")
	expectParseError(t, "for (let a = 1 of b) {}", "<stdin>: error: for-of loops must have a single declaration without an initializer\n")
	expectParseError(t, "import x from 'y'", "<stdin>: error: Unexpected \"import\"\n")
	expectParseError(t, "x = `y`", "<stdin>: error: Template literals are not supported\n")
	expectParseError(t, "x::1", "<stdin>: error: Expected identifier but found \"1\"\n")
}

func TestUnsupportedStatements(t *testing.T) {
	expectParseError(t, "do x(); while (y)", "<stdin>: error: \"do\" statements are not supported\n")
	expectParseError(t, "switch (x) {}", "<stdin>: error: \"switch\" statements are not supported\n")
	expectParseError(t, "try {} catch (e) {}", "<stdin>: error: \"try\" statements are not supported\n")
	expectParseError(t, "for (var a in b) {}", "<stdin>: error: for-in loops are not supported\n")
	expectParseError(t, "for (let a in b) {}", "<stdin>: error: for-in loops are not supported\n")
	expectParseError(t, "for (a in b) {}", "<stdin>: error: for-in loops are not supported\n")
}

func TestRedeclaration(t *testing.T) {
	expectParseError(t, "let a; let a", "<stdin>: error: The symbol \"a\" has already been declared\n")
	expectParseError(t, "let a; var a", "<stdin>: error: The symbol \"a\" has already been declared\n")
	expectParseError(t, "class A {} let A", "<stdin>: error: The symbol \"A\" has already been declared\n")
	expectParseError(t, "var a; var a; function a() {}", "")
	expectParseError(t, "function f(a) { var a }", "")
	expectParseError(t, "let a; { let a }", "")
}

func TestClassBodyErrors(t *testing.T) {
	expectParseError(t, "class A { constructor() {} constructor() {} }",
		"<stdin>: error: Classes cannot contain more than one constructor\n")
	expectParseError(t, "class A { get constructor() {} }",
		"<stdin>: error: Class constructor may not be an accessor\n")

	// These are reported by the lowering pass instead
	expectParseError(t, "class A { let x; let x }", "")
	expectParseError(t, "class A { static let x; static let x }", "")
	expectParseError(t, "class A { @dec let x }", "")
	expectParseError(t, "class A { x = 1 }", "")
}

func TestClassMembers(t *testing.T) {
	expectPrinted(t, "class A { static }", "class A {\n  static;\n}\n")
	expectPrinted(t, "class A { static() {} }", "class A {\n  static() {\n  }\n}\n")
	expectPrinted(t, "class A { static static() {} }", "class A {\n  static static() {\n  }\n}\n")
	expectPrinted(t, "class A { let() {} }", "class A {\n  let() {\n  }\n}\n")
	expectPrinted(t, "class A { let = 1 }", "class A {\n  let = 1;\n}\n")
	expectPrinted(t, "class A { const() {} }", "class A {\n  const() {\n  }\n}\n")
	expectPrinted(t, "class A { get() {} set = 1 }", "class A {\n  get() {\n  }\n  set = 1;\n}\n")
	expectPrinted(t, "class A { static get x() {} }", "class A {\n  static get x() {\n  }\n}\n")
	expectPrinted(t, "class A { let\nx = 1 }", "class A {\n  let x = 1;\n}\n")
	expectPrinted(t, "class A { static const a = 1, b = a }", "class A {\n  static const a = 1;\n  static const b = a;\n}\n")
	expectPrinted(t, "class A { @dec let x }", "class A {\n  @dec let x;\n}\n")
	expectPrinted(t, "@dec class A {}", "@dec class A {\n}\n")
}

func TestLetAsIdentifier(t *testing.T) {
	expectPrinted(t, "let = 1", "let = 1;\n")
	expectPrinted(t, "let(1)", "let(1);\n")
	expectPrinted(t, "let\na = 1", "let a = 1;\n")
}

func TestPrivateMember(t *testing.T) {
	expectPrinted(t, "this::x", "this::x;\n")
	expectPrinted(t, "this::x.y", "this::x.y;\n")
	expectPrinted(t, "this.y::x", "this.y::x;\n")
	expectPrinted(t, "this::x = this::y += 1", "this::x = this::y += 1;\n")
	expectPrinted(t, "other::x()", "other::x();\n")
	expectPrinted(t, "new A()::x", "new A()::x;\n")
}

func TestTypeScriptErrors(t *testing.T) {
	expectParseErrorTS(t, "let x: = 1", "<stdin>: error: Unexpected \"=\"\n")
	expectParseErrorTS(t, "let x: Array<number", "<stdin>: error: Unexpected end of file\n")
	expectParseError(t, "let x: number = 1", "<stdin>: error: Expected \";\" but found \":\"\n")
}

func TestBinding(t *testing.T) {
	tree := parseForTest(t, "let a; { let a; a }")
	block := tree.Stmts[1].Data.(*js_ast.SBlock)
	inner := lastExprSymbol(t, tree, block.Stmts)
	test.AssertEqual(t, inner.OriginalName, "a")
	test.AssertEqual(t, inner.Kind, js_ast.SymbolOther)
	test.AssertEqual(t, inner.UseCountEstimate, uint32(1))

	// Hoisted
	tree = parseForTest(t, "{ var b } b")
	symbol := lastExprSymbol(t, tree, tree.Stmts)
	test.AssertEqual(t, symbol.Kind, js_ast.SymbolHoisted)

	// Declared after use
	tree = parseForTest(t, "function f() { return c } let c; c")
	symbol = lastExprSymbol(t, tree, tree.Stmts)
	test.AssertEqual(t, symbol.Kind, js_ast.SymbolOther)
	test.AssertEqual(t, symbol.UseCountEstimate, uint32(2))

	// Unbound identifiers share a symbol
	tree = parseForTest(t, "window; window")
	symbol = lastExprSymbol(t, tree, tree.Stmts)
	test.AssertEqual(t, symbol.Kind, js_ast.SymbolUnbound)
	test.AssertEqual(t, symbol.UseCountEstimate, uint32(2))
}

func TestArrowArgumentBinding(t *testing.T) {
	tree := parseForTest(t, "let a; (a, b = a) => a")
	arrow := tree.Stmts[1].Data.(*js_ast.SExpr).Value.Data.(*js_ast.EArrow)
	test.AssertEqual(t, len(arrow.Args), 2)
	test.AssertEqual(t, arrow.Scope.Kind, js_ast.ScopeFunctionArgs)

	// The argument shadows the outer "a" and the parenthesized "a" is not a use
	argRef := arrow.Args[0].Binding.Data.(*js_ast.BIdentifier).Ref
	defaultRef := arrow.Args[1].DefaultOrNil.Data.(*js_ast.EIdentifier).Ref
	test.AssertEqual(t, defaultRef, argRef)
	outer := tree.Stmts[0].Data.(*js_ast.SLocal).Decls[0].Binding.Data.(*js_ast.BIdentifier).Ref
	test.AssertEqual(t, tree.Symbols[outer.InnerIndex].UseCountEstimate, uint32(0))

	// A parenthesized expression doesn't create an arguments scope
	tree = parseForTest(t, "(a, b)")
	test.AssertEqual(t, tree.ModuleScope.Children[0].Kind, js_ast.ScopeBlock)
}

func TestClassScopes(t *testing.T) {
	tree := parseForTest(t, "class A { static let n = 0; m() { return n } }")
	class := tree.Stmts[0].Data.(*js_ast.SClass).Class
	test.AssertEqual(t, class.BodyScope.Kind, js_ast.ScopeClassBody)
	member, ok := class.BodyScope.Members["n"]
	test.AssertEqual(t, ok, true)
	test.AssertEqual(t, class.Properties[0].Kind, js_ast.PropertyClassVar)
	test.AssertEqual(t, class.Properties[0].VarRef, member.Ref)
	test.AssertEqual(t, tree.Symbols[member.Ref.InnerIndex].UseCountEstimate, uint32(1))

	// Instance variables are not bindings
	tree = parseForTest(t, "class A { let x; m() { return x } }")
	class = tree.Stmts[0].Data.(*js_ast.SClass).Class
	_, ok = class.BodyScope.Members["x"]
	test.AssertEqual(t, ok, false)
	test.AssertEqual(t, class.Properties[0].VarRef, js_ast.InvalidRef)

	// The name of a class expression is only visible inside the class
	tree = parseForTest(t, "x = class B {}")
	test.AssertEqual(t, tree.ModuleScope.Children[0].Kind, js_ast.ScopeClassName)
	_, ok = tree.ModuleScope.Members["B"]
	test.AssertEqual(t, ok, false)
}
