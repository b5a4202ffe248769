package js_lower

// This pass replaces instance variables ("let x = 1;" in a class body, used as
// "this::x") with one WeakMap per variable. Every instance is added to the
// WeakMap of each of its variables when it's constructed, and every "::"
// access becomes a call to a runtime helper that checks the receiver.
//
// Classes are lowered outermost first. The instance variables of a class are
// visible in every nested class unless the nested class declares a variable
// with the same name, in which case the nested name wins from that point down.
//
// The parser has already bound every identifier to a symbol, so symbols can
// be renamed here by changing their name in the symbol table.

import (
	"strconv"
	"strings"

	"github.com/evanw/classvars/internal/js_ast"
	"github.com/evanw/classvars/internal/logger"
	"github.com/evanw/classvars/internal/runtime"
)

type Result struct {
	// The runtime helpers that the lowered code calls, in the order they
	// should be defined
	UsedHelpers []string
}

// This is used to abort lowering after a fatal error has been logged. There
// is never partial output.
type lowerPanic struct{}

type lowerer struct {
	log       logger.Log
	source    logger.Source
	tree      *js_ast.AST
	names     nameGenerator
	hasErrors bool

	// Runtime helpers and globals such as "WeakMap" are referenced through one
	// unbound symbol per name
	globals     map[string]js_ast.Ref
	usedHelpers map[string]bool
}

func Lower(log logger.Log, source logger.Source, tree *js_ast.AST) (result Result, ok bool) {
	defer func() {
		r := recover()
		if _, isLowerPanic := r.(lowerPanic); isLowerPanic {
			result = Result{}
			ok = false
		} else if r != nil {
			panic(r)
		}
	}()

	l := &lowerer{
		log:         log,
		source:      source,
		tree:        tree,
		names:       newNameGenerator(tree.Symbols),
		globals:     make(map[string]js_ast.Ref),
		usedHelpers: make(map[string]bool),
	}

	module := &fnState{}
	tree.Stmts = l.visitStmts(tree.Stmts, visitContext{fn: module})
	tree.Stmts = declareTemps(module, tree.Stmts, logger.Loc{})

	if l.hasErrors {
		return Result{}, false
	}

	for _, name := range runtime.HelperNames {
		if l.usedHelpers[name] {
			result.UsedHelpers = append(result.UsedHelpers, name)
		}
	}
	return result, true
}

// Generated names must not collide with any name in the file, even in an
// unrelated scope. That's more conservative than necessary but it means a
// generated name never needs to be checked against scopes.
type nameGenerator struct {
	used     map[string]bool
	nextTemp int
}

func newNameGenerator(symbols []js_ast.Symbol) nameGenerator {
	g := nameGenerator{used: make(map[string]bool, len(symbols)+len(runtime.HelperNames))}
	for _, symbol := range symbols {
		g.used[symbol.OriginalName] = true
	}
	for _, name := range runtime.HelperNames {
		g.used[name] = true
	}
	return g
}

func (g *nameGenerator) reserve(name string) {
	g.used[name] = true
}

// Returns "_x" for "x", then "_x2", "_x3", and so on
func (g *nameGenerator) generate(base string) string {
	base = "_" + strings.TrimLeft(base, "_")
	name := base
	for i := 2; g.used[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	g.used[name] = true
	return name
}

// Returns "_a" through "_z", then "_aa", "_ab", and so on
func (g *nameGenerator) temp() string {
	for {
		name := "_" + tempName(g.nextTemp)
		g.nextTemp++
		if !g.used[name] {
			g.used[name] = true
			return name
		}
	}
}

func tempName(i int) string {
	name := ""
	for {
		name = string(rune('a'+i%26)) + name
		i = i/26 - 1
		if i < 0 {
			return name
		}
	}
}

func (l *lowerer) newSymbol(kind js_ast.SymbolKind, name string) js_ast.Ref {
	ref := js_ast.Ref{InnerIndex: uint32(len(l.tree.Symbols))}
	l.tree.Symbols = append(l.tree.Symbols, js_ast.Symbol{Kind: kind, OriginalName: name})
	return ref
}

func (l *lowerer) globalRef(name string) js_ast.Ref {
	ref, ok := l.globals[name]
	if !ok {
		ref = l.newSymbol(js_ast.SymbolUnbound, name)
		l.globals[name] = ref
	}
	l.tree.Symbols[ref.InnerIndex].UseCountEstimate++
	return ref
}

func (l *lowerer) callRuntime(loc logger.Loc, name string, args []js_ast.Expr) js_ast.Expr {
	l.usedHelpers[name] = true
	return js_ast.Expr{Loc: loc, Data: &js_ast.ECall{
		Target: js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Ref: l.globalRef(name)}},
		Args:   args,
	}}
}

// Temporaries are declared with "var" at the top of the function that uses
// them, or at the top of the file
type fnState struct {
	temps []js_ast.Ref
}

func (l *lowerer) newTemp(fn *fnState) js_ast.Ref {
	ref := l.newSymbol(js_ast.SymbolGenerated, l.names.temp())
	fn.temps = append(fn.temps, ref)
	return ref
}

func declareTemps(fn *fnState, stmts []js_ast.Stmt, loc logger.Loc) []js_ast.Stmt {
	if len(fn.temps) == 0 {
		return stmts
	}
	decls := make([]js_ast.Decl, len(fn.temps))
	for i, ref := range fn.temps {
		decls[i] = js_ast.Decl{Binding: js_ast.Binding{Loc: loc, Data: &js_ast.BIdentifier{Ref: ref}}}
	}
	fn.temps = nil
	return append([]js_ast.Stmt{{Loc: loc, Data: &js_ast.SLocal{Kind: js_ast.LocalVar, Decls: decls}}}, stmts...)
}
