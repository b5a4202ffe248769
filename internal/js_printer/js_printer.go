package js_printer

import (
	"math"
	"strconv"
	"strings"

	"github.com/evanw/classvars/internal/helpers"
	"github.com/evanw/classvars/internal/js_ast"
)

var positiveInfinity = math.Inf(1)
var negativeInfinity = math.Inf(-1)

type printer struct {
	symbols        []js_ast.Symbol
	js             []byte
	options        Options
	stmtStart      int
	arrowExprStart int
	prevOp         js_ast.OpCode
	prevOpEnd      int
}

type Options struct {
	Indent    int
	ASCIIOnly bool
}

type PrintResult struct {
	JS []byte
}

func Print(tree js_ast.AST, options Options) PrintResult {
	p := &printer{
		symbols:        tree.Symbols,
		options:        options,
		stmtStart:      -1,
		arrowExprStart: -1,
		prevOpEnd:      -1,
	}

	for _, stmt := range tree.Stmts {
		p.printStmt(stmt)
	}

	return PrintResult{JS: p.js}
}

func (p *printer) print(text string) {
	p.js = append(p.js, text...)
}

// This is the same as "print(string(bytes))" without any unnecessary temporary
// allocations
func (p *printer) printBytes(bytes []byte) {
	p.js = append(p.js, bytes...)
}

func (p *printer) printIndent() {
	for i := 0; i < p.options.Indent; i++ {
		p.print("  ")
	}
}

func (p *printer) printSymbol(ref js_ast.Ref) {
	p.print(p.symbols[ref.InnerIndex].OriginalName)
}

func (p *printer) printQuotedUTF8(text string) {
	p.printBytes(helpers.QuoteForJS(text, p.options.ASCIIOnly))
}

func (p *printer) printNumber(value float64, level js_ast.L) {
	switch {
	case value != value:
		p.print("NaN")

	case value == positiveInfinity:
		p.print("Infinity")

	case value == negativeInfinity || math.Signbit(value):
		wrap := level >= js_ast.LPrefix
		if wrap {
			p.print("(")
		}
		p.printSpaceBeforeOperator(js_ast.UnOpNeg)
		p.print("-")
		if value == negativeInfinity {
			p.print("Infinity")
		} else {
			p.print(formatNumber(-value))
		}
		if wrap {
			p.print(")")
		}

	default:
		p.print(formatNumber(value))
	}
}

// Go writes exponents as "1e+21" and "1e-07" but JavaScript writes them as
// "1e21" and "1e-7"
func formatNumber(value float64) string {
	if value == math.Trunc(value) && value < 1e21 {
		return strconv.FormatFloat(value, 'f', -1, 64)
	}

	text := strconv.FormatFloat(value, 'g', -1, 64)
	if i := strings.IndexByte(text, 'e'); i != -1 {
		sign := ""
		if text[i+1] == '-' {
			sign = "-"
		}
		text = text[:i] + "e" + sign + strings.TrimLeft(text[i+2:], "0")
	}
	return text
}

func (p *printer) printSpaceBeforeOperator(next js_ast.OpCode) {
	if p.prevOpEnd == len(p.js) {
		prev := p.prevOp

		// "+ +y" instead of "++y"
		// "- --y" instead of "---y"
		if (prev == js_ast.UnOpPos && (next == js_ast.UnOpPos || next == js_ast.UnOpPreInc)) ||
			(prev == js_ast.UnOpNeg && (next == js_ast.UnOpNeg || next == js_ast.UnOpPreDec)) {
			p.print(" ")
		}
	}
}

func (p *printer) printPropertyKey(property js_ast.Property) {
	if property.Flags.Has(js_ast.PropertyIsComputed) {
		p.print("[")
		p.printExpr(property.Key, js_ast.LComma)
		p.print("]")
		return
	}

	switch key := property.Key.Data.(type) {
	case *js_ast.EString:
		if js_ast.IsIdentifier(key.Value) {
			p.print(key.Value)
		} else {
			p.printQuotedUTF8(key.Value)
		}

	case *js_ast.ENumber:
		p.printNumber(key.Value, js_ast.LLowest)

	default:
		p.printExpr(property.Key, js_ast.LLowest)
	}
}

func (p *printer) printDecorators(decorators []js_ast.Expr) {
	for _, decorator := range decorators {
		p.print("@")
		p.printExpr(decorator, js_ast.LNew)
		p.print(" ")
	}
}

func (p *printer) printProperty(property js_ast.Property) {
	if property.Kind == js_ast.PropertySpread {
		p.print("...")
		p.printExpr(property.ValueOrNil, js_ast.LComma)
		return
	}

	p.printDecorators(property.Decorators)
	if property.Flags.Has(js_ast.PropertyIsStatic) {
		p.print("static ")
	}

	switch property.Kind {
	case js_ast.PropertyInstanceVar, js_ast.PropertyClassVar:
		if property.Flags.Has(js_ast.PropertyIsMutable) {
			p.print("let ")
		} else {
			p.print("const ")
		}
		p.printPropertyKey(property)
		if property.InitializerOrNil.Data != nil {
			p.print(" = ")
			p.printExpr(property.InitializerOrNil, js_ast.LComma)
		}
		return

	case js_ast.PropertyField:
		p.printPropertyKey(property)
		if property.InitializerOrNil.Data != nil {
			p.print(" = ")
			p.printExpr(property.InitializerOrNil, js_ast.LComma)
		}
		return

	case js_ast.PropertyGet:
		p.print("get ")

	case js_ast.PropertySet:
		p.print("set ")
	}

	if fn, ok := property.ValueOrNil.Data.(*js_ast.EFunction); ok && property.Flags.Has(js_ast.PropertyIsMethod) {
		p.printPropertyKey(property)
		p.printFn(fn.Fn)
		return
	}

	if property.Flags.Has(js_ast.PropertyWasShorthand) {
		if id, ok := property.ValueOrNil.Data.(*js_ast.EIdentifier); ok {
			if str, ok := property.Key.Data.(*js_ast.EString); ok && p.symbols[id.Ref.InnerIndex].OriginalName == str.Value {
				p.print(str.Value)
				return
			}
		}
	}

	p.printPropertyKey(property)
	p.print(": ")
	p.printExpr(property.ValueOrNil, js_ast.LComma)
}

func (p *printer) printArgs(args []js_ast.Arg, hasRestArg bool) {
	p.print("(")
	for i, arg := range args {
		if i != 0 {
			p.print(", ")
		}
		if hasRestArg && i+1 == len(args) {
			p.print("...")
		}
		p.printBinding(arg.Binding)
		if arg.DefaultOrNil.Data != nil {
			p.print(" = ")
			p.printExpr(arg.DefaultOrNil, js_ast.LComma)
		}
	}
	p.print(")")
}

func (p *printer) printFn(fn js_ast.Fn) {
	p.printArgs(fn.Args, fn.HasRestArg)
	p.print(" ")
	p.printBlock(fn.Body.Stmts)
}

func (p *printer) printClass(class js_ast.Class) {
	if class.Name != nil {
		p.print(" ")
		p.printSymbol(class.Name.Ref)
	}
	if class.ExtendsOrNil.Data != nil {
		p.print(" extends ")
		p.printExpr(class.ExtendsOrNil, js_ast.LNew-1)
	}
	p.print(" {\n")

	p.options.Indent++
	for _, property := range class.Properties {
		p.printIndent()
		p.printProperty(property)

		// Methods don't need semicolons but fields and variables do
		if !property.Flags.Has(js_ast.PropertyIsMethod) {
			p.print(";")
		}
		p.print("\n")
	}
	p.options.Indent--

	p.printIndent()
	p.print("}")
}

func (p *printer) printBinding(binding js_ast.Binding) {
	switch b := binding.Data.(type) {
	case *js_ast.BMissing:

	case *js_ast.BIdentifier:
		p.printSymbol(b.Ref)

	default:
		panic("Internal error")
	}
}

func (p *printer) printExpr(expr js_ast.Expr, level js_ast.L) {
	switch e := expr.Data.(type) {
	case *js_ast.EMissing:

	case *js_ast.EUndefined:
		if level >= js_ast.LPrefix {
			p.print("(void 0)")
		} else {
			p.print("void 0")
		}

	case *js_ast.ESuper:
		p.print("super")

	case *js_ast.ENull:
		p.print("null")

	case *js_ast.EThis:
		p.print("this")

	case *js_ast.EBoolean:
		if e.Value {
			p.print("true")
		} else {
			p.print("false")
		}

	case *js_ast.ENumber:
		p.printNumber(e.Value, level)

	case *js_ast.EString:
		p.printQuotedUTF8(e.Value)

	case *js_ast.EIdentifier:
		p.printSymbol(e.Ref)

	case *js_ast.ESpread:
		p.print("...")
		p.printExpr(e.Value, js_ast.LComma)

	case *js_ast.ENew:
		wrap := level >= js_ast.LCall
		if wrap {
			p.print("(")
		}
		p.print("new ")
		p.printExpr(e.Target, js_ast.LNew)
		p.printCallArgs(e.Args)
		if wrap {
			p.print(")")
		}

	case *js_ast.ECall:
		wrap := level >= js_ast.LNew
		if wrap {
			p.print("(")
		}
		p.printExpr(e.Target, js_ast.LPostfix)
		p.printCallArgs(e.Args)
		if wrap {
			p.print(")")
		}

	case *js_ast.EDot:
		p.printExpr(e.Target, js_ast.LPostfix)
		p.print(".")
		p.print(e.Name)

	case *js_ast.EPrivateMember:
		p.printExpr(e.Target, js_ast.LPostfix)
		p.print("::")
		p.print(e.Name)

	case *js_ast.EIndex:
		p.printExpr(e.Target, js_ast.LPostfix)
		p.print("[")
		p.printExpr(e.Index, js_ast.LLowest)
		p.print("]")

	case *js_ast.EIf:
		wrap := level >= js_ast.LConditional
		if wrap {
			p.print("(")
		}
		p.printExpr(e.Test, js_ast.LConditional)
		p.print(" ? ")
		p.printExpr(e.Yes, js_ast.LYield)
		p.print(" : ")
		p.printExpr(e.No, js_ast.LYield)
		if wrap {
			p.print(")")
		}

	case *js_ast.EArrow:
		wrap := level >= js_ast.LAssign
		if wrap {
			p.print("(")
		}
		p.printArgs(e.Args, e.HasRestArg)
		p.print(" => ")

		wasPrinted := false
		if len(e.Body.Stmts) == 1 && e.PreferExpr {
			if s, ok := e.Body.Stmts[0].Data.(*js_ast.SReturn); ok && s.ValueOrNil.Data != nil {
				p.arrowExprStart = len(p.js)
				p.printExpr(s.ValueOrNil, js_ast.LComma)
				wasPrinted = true
			}
		}
		if !wasPrinted {
			p.printBlock(e.Body.Stmts)
		}
		if wrap {
			p.print(")")
		}

	case *js_ast.EFunction:
		n := len(p.js)
		wrap := p.stmtStart == n
		if wrap {
			p.print("(")
		}
		p.print("function")
		if e.Fn.Name != nil {
			p.print(" ")
			p.printSymbol(e.Fn.Name.Ref)
		}
		p.printFn(e.Fn)
		if wrap {
			p.print(")")
		}

	case *js_ast.EClass:
		n := len(p.js)
		wrap := p.stmtStart == n
		if wrap {
			p.print("(")
		}
		p.printDecorators(e.Class.Decorators)
		p.print("class")
		p.printClass(e.Class)
		if wrap {
			p.print(")")
		}

	case *js_ast.EArray:
		p.print("[")
		for i, item := range e.Items {
			if i != 0 {
				p.print(", ")
			}
			p.printExpr(item, js_ast.LComma)

			// Make sure there's a comma after trailing missing items
			if _, ok := item.Data.(*js_ast.EMissing); ok && i == len(e.Items)-1 {
				p.print(",")
			}
		}
		p.print("]")

	case *js_ast.EObject:
		n := len(p.js)
		wrap := p.stmtStart == n || p.arrowExprStart == n
		if wrap {
			p.print("(")
		}
		p.print("{")
		if len(e.Properties) != 0 {
			if !e.IsSingleLine {
				p.options.Indent++
			}
			for i, property := range e.Properties {
				if i != 0 {
					p.print(",")
				}
				if e.IsSingleLine {
					p.print(" ")
				} else {
					p.print("\n")
					p.printIndent()
				}
				p.printProperty(property)
			}
			if !e.IsSingleLine {
				p.options.Indent--
				p.print("\n")
				p.printIndent()
			} else {
				p.print(" ")
			}
		}
		p.print("}")
		if wrap {
			p.print(")")
		}

	case *js_ast.EUnary:
		entry := js_ast.OpTable[e.Op]
		wrap := level >= entry.Level
		if wrap {
			p.print("(")
		}

		if e.Op.IsPrefix() {
			p.printSpaceBeforeOperator(e.Op)
			p.print(entry.Text)
			if entry.IsKeyword {
				p.print(" ")
			}
			p.prevOp = e.Op
			p.prevOpEnd = len(p.js)
			p.printExpr(e.Value, js_ast.LPrefix-1)
		} else {
			p.printExpr(e.Value, js_ast.LPostfix-1)
			p.print(entry.Text)
			p.prevOp = e.Op
			p.prevOpEnd = len(p.js)
		}

		if wrap {
			p.print(")")
		}

	case *js_ast.EBinary:
		entry := js_ast.OpTable[e.Op]
		wrap := level >= entry.Level
		if wrap {
			p.print("(")
		}

		leftLevel := entry.Level - 1
		rightLevel := entry.Level - 1
		if e.Op.IsRightAssociative() {
			leftLevel = entry.Level
		}
		if e.Op.IsLeftAssociative() {
			rightLevel = entry.Level
		}

		switch e.Op {
		case js_ast.BinOpNullishCoalescing:
			// "??" can't directly contain "||" or "&&" without being wrapped in parentheses
			if left, ok := e.Left.Data.(*js_ast.EBinary); ok && (left.Op == js_ast.BinOpLogicalOr || left.Op == js_ast.BinOpLogicalAnd) {
				leftLevel = js_ast.LPrefix
			}
			if right, ok := e.Right.Data.(*js_ast.EBinary); ok && (right.Op == js_ast.BinOpLogicalOr || right.Op == js_ast.BinOpLogicalAnd) {
				rightLevel = js_ast.LPrefix
			}

		case js_ast.BinOpPow:
			// "**" can't contain certain unary expressions
			if left, ok := e.Left.Data.(*js_ast.EUnary); ok && left.Op.IsPrefix() {
				leftLevel = js_ast.LCall - 1
			} else if left, ok := e.Left.Data.(*js_ast.ENumber); ok && math.Signbit(left.Value) {
				leftLevel = js_ast.LCall - 1
			}
		}

		p.printExpr(e.Left, leftLevel)

		if e.Op == js_ast.BinOpComma {
			p.print(", ")
		} else {
			p.print(" ")
			p.print(entry.Text)
			p.print(" ")
		}

		p.printExpr(e.Right, rightLevel)

		if wrap {
			p.print(")")
		}

	default:
		panic("Internal error")
	}
}

func (p *printer) printCallArgs(args []js_ast.Expr) {
	p.print("(")
	for i, arg := range args {
		if i != 0 {
			p.print(", ")
		}
		p.printExpr(arg, js_ast.LComma)
	}
	p.print(")")
}

func (p *printer) printDecls(keyword string, decls []js_ast.Decl) {
	p.print(keyword)
	p.print(" ")
	for i, decl := range decls {
		if i != 0 {
			p.print(", ")
		}
		p.printBinding(decl.Binding)
		if decl.ValueOrNil.Data != nil {
			p.print(" = ")
			p.printExpr(decl.ValueOrNil, js_ast.LComma)
		}
	}
}

func localKeyword(kind js_ast.LocalKind) string {
	switch kind {
	case js_ast.LocalLet:
		return "let"
	case js_ast.LocalConst:
		return "const"
	}
	return "var"
}

func (p *printer) printForInit(init js_ast.Stmt) {
	switch s := init.Data.(type) {
	case *js_ast.SLocal:
		p.printDecls(localKeyword(s.Kind), s.Decls)

	case *js_ast.SExpr:
		p.printExpr(s.Value, js_ast.LLowest)
	}
}

func (p *printer) printBody(body js_ast.Stmt) {
	if block, ok := body.Data.(*js_ast.SBlock); ok {
		p.print(" ")
		p.printBlock(block.Stmts)
		p.print("\n")
	} else {
		p.print("\n")
		p.options.Indent++
		p.printStmt(body)
		p.options.Indent--
	}
}

func (p *printer) printBlock(stmts []js_ast.Stmt) {
	p.print("{\n")

	p.options.Indent++
	for _, stmt := range stmts {
		p.printStmt(stmt)
	}
	p.options.Indent--

	p.printIndent()
	p.print("}")
}

func wrapToAvoidAmbiguousElse(s js_ast.S) bool {
	for {
		switch current := s.(type) {
		case *js_ast.SIf:
			if current.NoOrNil.Data == nil {
				return true
			}
			s = current.NoOrNil.Data

		case *js_ast.SFor:
			s = current.Body.Data

		case *js_ast.SForOf:
			s = current.Body.Data

		case *js_ast.SWhile:
			s = current.Body.Data

		default:
			return false
		}
	}
}

func (p *printer) printIf(s *js_ast.SIf) {
	p.print("if (")
	p.printExpr(s.Test, js_ast.LLowest)
	p.print(")")

	if yes, ok := s.Yes.Data.(*js_ast.SBlock); ok {
		p.print(" ")
		p.printBlock(yes.Stmts)
		if s.NoOrNil.Data != nil {
			p.print(" ")
		} else {
			p.print("\n")
		}
	} else if wrapToAvoidAmbiguousElse(s.Yes.Data) {
		p.print(" {\n")
		p.options.Indent++
		p.printStmt(s.Yes)
		p.options.Indent--
		p.printIndent()
		if s.NoOrNil.Data != nil {
			p.print("} ")
		} else {
			p.print("}\n")
		}
	} else {
		p.print("\n")
		p.options.Indent++
		p.printStmt(s.Yes)
		p.options.Indent--
		if s.NoOrNil.Data != nil {
			p.printIndent()
		}
	}

	if s.NoOrNil.Data != nil {
		p.print("else")
		if no, ok := s.NoOrNil.Data.(*js_ast.SIf); ok {
			p.print(" ")
			p.printIf(no)
		} else {
			p.printBody(s.NoOrNil)
		}
	}
}

func (p *printer) printStmt(stmt js_ast.Stmt) {
	switch s := stmt.Data.(type) {
	case *js_ast.SEmpty:
		p.printIndent()
		p.print(";\n")

	case *js_ast.SBlock:
		p.printIndent()
		p.printBlock(s.Stmts)
		p.print("\n")

	case *js_ast.SExpr:
		p.printIndent()
		p.stmtStart = len(p.js)
		p.printExpr(s.Value, js_ast.LLowest)
		p.print(";\n")

	case *js_ast.SLocal:
		p.printIndent()
		p.printDecls(localKeyword(s.Kind), s.Decls)
		p.print(";\n")

	case *js_ast.SFunction:
		p.printIndent()
		p.print("function ")
		p.printSymbol(s.Fn.Name.Ref)
		p.printFn(s.Fn)
		p.print("\n")

	case *js_ast.SClass:
		p.printIndent()
		p.printDecorators(s.Class.Decorators)
		p.print("class")
		p.printClass(s.Class)
		p.print("\n")

	case *js_ast.SReturn:
		p.printIndent()
		p.print("return")
		if s.ValueOrNil.Data != nil {
			p.print(" ")
			p.printExpr(s.ValueOrNil, js_ast.LLowest)
		}
		p.print(";\n")

	case *js_ast.SThrow:
		p.printIndent()
		p.print("throw ")
		p.printExpr(s.Value, js_ast.LLowest)
		p.print(";\n")

	case *js_ast.SIf:
		p.printIndent()
		p.printIf(s)

	case *js_ast.SFor:
		p.printIndent()
		p.print("for (")
		if s.InitOrNil.Data != nil {
			p.printForInit(s.InitOrNil)
		}
		p.print("; ")
		if s.TestOrNil.Data != nil {
			p.printExpr(s.TestOrNil, js_ast.LLowest)
		}
		p.print("; ")
		if s.UpdateOrNil.Data != nil {
			p.printExpr(s.UpdateOrNil, js_ast.LLowest)
		}
		p.print(")")
		p.printBody(s.Body)

	case *js_ast.SForOf:
		p.printIndent()
		p.print("for (")
		p.printForInit(s.Init)
		p.print(" of ")
		p.printExpr(s.Value, js_ast.LComma)
		p.print(")")
		p.printBody(s.Body)

	case *js_ast.SWhile:
		p.printIndent()
		p.print("while (")
		p.printExpr(s.Test, js_ast.LLowest)
		p.print(")")
		p.printBody(s.Body)

	case *js_ast.SBreak:
		p.printIndent()
		p.print("break;\n")

	case *js_ast.SContinue:
		p.printIndent()
		p.print("continue;\n")

	default:
		panic("Internal error")
	}
}
