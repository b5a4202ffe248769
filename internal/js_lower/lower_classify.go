package js_lower

import (
	"fmt"

	"github.com/evanw/classvars/internal/js_ast"
	"github.com/evanw/classvars/internal/logger"
)

type instanceVarDecl struct {
	name             string
	loc              logger.Loc
	mutable          bool
	initializerOrNil js_ast.Expr
}

type classVarDecl struct {
	ref              js_ast.Ref
	loc              logger.Loc
	mutable          bool
	initializerOrNil js_ast.Expr
}

type classDescriptor struct {
	isDerived    bool
	ctor         *js_ast.EFunction
	instanceVars []instanceVarDecl
	classVars    []classVarDecl

	// Computed keys that might have side effects
	impureKeys []logger.Loc

	hasUnsupportedMember bool
}

// Removes instance and class variables from the class body and sorts every
// member by kind. Errors are reported for anything that can't be lowered.
func (l *lowerer) classifyMembers(class *js_ast.Class) classDescriptor {
	d := classDescriptor{isDerived: class.ExtendsOrNil.Data != nil}
	instanceNames := make(map[string]bool)
	classNames := make(map[string]bool)
	members := class.Properties[:0]

	if len(class.Decorators) > 0 {
		l.reportDecorators(class.Decorators)
		d.hasUnsupportedMember = true
	}

	for _, property := range class.Properties {
		if len(property.Decorators) > 0 {
			l.reportDecorators(property.Decorators)
			d.hasUnsupportedMember = true
		}

		switch property.Kind {
		case js_ast.PropertyInstanceVar:
			name, _ := js_ast.KeyName(&property)
			if instanceNames[name] {
				r := l.source.RangeOfIdentifier(property.Key.Loc)
				l.log.AddRangeError(&l.source, r, fmt.Sprintf("Duplicate class instance variable %q", name))
				d.hasUnsupportedMember = true
				continue
			}
			instanceNames[name] = true
			d.instanceVars = append(d.instanceVars, instanceVarDecl{
				name:             name,
				loc:              property.Loc,
				mutable:          property.Flags.Has(js_ast.PropertyIsMutable),
				initializerOrNil: property.InitializerOrNil,
			})
			continue

		case js_ast.PropertyClassVar:
			name := l.tree.Symbols[property.VarRef.InnerIndex].OriginalName
			if classNames[name] {
				r := l.source.RangeOfIdentifier(property.Key.Loc)
				l.log.AddRangeError(&l.source, r, fmt.Sprintf("Duplicate class variable %q", name))
				d.hasUnsupportedMember = true
				continue
			}
			classNames[name] = true
			d.classVars = append(d.classVars, classVarDecl{
				ref:              property.VarRef,
				loc:              property.Loc,
				mutable:          property.Flags.Has(js_ast.PropertyIsMutable),
				initializerOrNil: property.InitializerOrNil,
			})
			continue

		case js_ast.PropertyField:
			r := logger.Range{Loc: property.Key.Loc}
			if !property.Flags.Has(js_ast.PropertyIsComputed) {
				r = l.source.RangeOfIdentifier(property.Key.Loc)
			}
			l.log.AddRangeError(&l.source, r, "Public class properties are not supported")
			d.hasUnsupportedMember = true
			continue
		}

		if property.Flags.Has(js_ast.PropertyIsComputed) && !js_ast.ExprCanBeRemovedIfUnused(property.Key) {
			d.impureKeys = append(d.impureKeys, property.Key.Loc)
		}
		members = append(members, property)
	}

	class.Properties = members

	// The constructor is found after filtering so the pointer stays valid
	for _, property := range class.Properties {
		if isConstructor(&property) {
			d.ctor = property.ValueOrNil.Data.(*js_ast.EFunction)
		}
	}

	return d
}

func isConstructor(property *js_ast.Property) bool {
	if property.Kind != js_ast.PropertyNormal || !property.Flags.Has(js_ast.PropertyIsMethod) || property.Flags.Has(js_ast.PropertyIsStatic) {
		return false
	}
	name, ok := js_ast.KeyName(property)
	return ok && name == "constructor"
}

func (l *lowerer) reportDecorators(decorators []js_ast.Expr) {
	r := l.source.RangeOfOperatorBefore(decorators[0].Loc, "@")
	l.log.AddRangeError(&l.source, r, "Decorators are not supported")
}
