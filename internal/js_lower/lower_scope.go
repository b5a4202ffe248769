package js_lower

import (
	"github.com/evanw/classvars/internal/js_ast"
	"github.com/evanw/classvars/internal/runtime"
)

// Records the identifiers used by code that's about to be moved somewhere
// else, and the symbols that are declared inside that code. Collectors nest
// when a class is lowered inside code that is itself being collected.
type refCollector struct {
	parent   *refCollector
	used     []js_ast.Ref
	seen     map[js_ast.Ref]bool
	declared map[js_ast.Ref]bool
}

func newRefCollector(parent *refCollector) *refCollector {
	return &refCollector{
		parent:   parent,
		seen:     make(map[js_ast.Ref]bool),
		declared: make(map[js_ast.Ref]bool),
	}
}

func (c *refCollector) use(ref js_ast.Ref) {
	for ; c != nil; c = c.parent {
		if !c.seen[ref] {
			c.seen[ref] = true
			c.used = append(c.used, ref)
		}
	}
}

func (c *refCollector) declareScope(scope *js_ast.Scope) {
	if scope == nil {
		return
	}
	for ; c != nil; c = c.parent {
		c.declareScopeTree(scope)
	}
}

func (c *refCollector) declareScopeTree(scope *js_ast.Scope) {
	for _, member := range scope.Members {
		c.declared[member.Ref] = true
	}
	for _, child := range scope.Children {
		c.declareScopeTree(child)
	}
}

// Returns the identifiers that refer to something declared outside of the
// collected code, in the order they were first used
func (c *refCollector) freeRefs() []js_ast.Ref {
	var free []js_ast.Ref
	for _, ref := range c.used {
		if !c.declared[ref] {
			free = append(free, ref)
		}
	}
	return free
}

// Returns the scopes of a constructor that initializers could be inserted
// into. Nested functions and classes are not included.
func constructorScopes(fn *js_ast.Fn) []*js_ast.Scope {
	scopes := []*js_ast.Scope{fn.Scope}
	for i := 0; i < len(scopes); i++ {
		for _, child := range scopes[i].Children {
			if child.Kind == js_ast.ScopeBlock || (i == 0 && child.Kind == js_ast.ScopeFunctionBody) {
				scopes = append(scopes, child)
			}
		}
	}
	return scopes
}

// Code that's moved into a new place can refer to a name that's hidden by a
// declaration in that place. When that happens, the hiding declaration is
// renamed. Declarations are only looked up by name, so renaming a symbol
// doesn't change which scope member it is.
func (l *lowerer) renameShadowingBindings(scopes []*js_ast.Scope, free []js_ast.Ref) {
	renamed := make(map[js_ast.Ref]bool)
	for _, ref := range free {
		name := l.tree.Symbols[ref.InnerIndex].OriginalName
		for _, scope := range scopes {
			if member, ok := scope.Members[name]; ok && member.Ref != ref && !renamed[member.Ref] {
				renamed[member.Ref] = true
				l.tree.Symbols[member.Ref.InnerIndex].OriginalName = l.names.generate(name)
			}
		}
	}
}

// Class variables are moved out of the class body into the closure around
// the class. There they could hide something that the class heritage refers
// to, or collide with the class name.
func (l *lowerer) renameShadowingClassVars(classVars []classVarDecl, heritageFree []js_ast.Ref, className string) {
	names := make(map[string]bool)
	for _, ref := range heritageFree {
		names[l.tree.Symbols[ref.InnerIndex].OriginalName] = true
	}
	if className != "" {
		names[className] = true
	}
	for _, v := range classVars {
		symbol := &l.tree.Symbols[v.ref.InnerIndex]
		if names[symbol.OriginalName] {
			symbol.OriginalName = l.names.generate(symbol.OriginalName)
		}
	}
}

// "Foo" => "(__classNameTDZError("Foo"), Foo)"
func (l *lowerer) guardClassName(expr js_ast.Expr, ref js_ast.Ref) js_ast.Expr {
	name := l.tree.Symbols[ref.InnerIndex].OriginalName
	return js_ast.JoinWithComma(
		l.callRuntime(expr.Loc, runtime.ClassNameTDZError, []js_ast.Expr{js_ast.StringKey(expr.Loc, name)}),
		expr,
	)
}
