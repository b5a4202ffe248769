package js_ast

import (
	"github.com/evanw/classvars/internal/logger"
)

func Assign(a Expr, b Expr) Expr {
	return Expr{Loc: a.Loc, Data: &EBinary{Op: BinOpAssign, Left: a, Right: b}}
}

func JoinWithComma(a Expr, b Expr) Expr {
	if a.Data == nil {
		return b
	}
	if b.Data == nil {
		return a
	}
	return Expr{Loc: a.Loc, Data: &EBinary{Op: BinOpComma, Left: a, Right: b}}
}

func JoinAllWithComma(all []Expr) (result Expr) {
	for _, value := range all {
		result = JoinWithComma(result, value)
	}
	return
}

// Returns true for a direct call to the superclass constructor such as
// "super(a, b)". Member calls such as "super.foo()" are not included.
func IsSuperCall(expr Expr) bool {
	if call, ok := expr.Data.(*ECall); ok {
		if _, ok := call.Target.Data.(*ESuper); ok {
			return true
		}
	}
	return false
}

// Returns true if reading this expression a second time has no side effects
// and always produces the same value as the first read within one access
// chain. Anything else must be stored in a temporary before it's reused.
func IsStableReceiver(data E) bool {
	switch data.(type) {
	case *EThis, *ESuper, *EIdentifier, *ENull, *EUndefined, *EBoolean, *ENumber, *EString:
		return true
	}
	return false
}

// Returns true if evaluating this expression definitely has no side effects.
// Function and arrow expressions only allocate, so they count as pure.
func ExprCanBeRemovedIfUnused(expr Expr) bool {
	switch e := expr.Data.(type) {
	case *EThis, *ENull, *EUndefined, *EBoolean, *ENumber, *EString, *EMissing,
		*EIdentifier, *EFunction, *EArrow:
		return true

	case *EArray:
		for _, item := range e.Items {
			if _, ok := item.Data.(*ESpread); ok || !ExprCanBeRemovedIfUnused(item) {
				return false
			}
		}
		return true

	case *EObject:
		for _, property := range e.Properties {
			if property.Kind == PropertySpread || property.Flags.Has(PropertyIsComputed) {
				return false
			}
			if property.ValueOrNil.Data != nil && !ExprCanBeRemovedIfUnused(property.ValueOrNil) {
				return false
			}
		}
		return true

	case *EIf:
		return ExprCanBeRemovedIfUnused(e.Test) && ExprCanBeRemovedIfUnused(e.Yes) && ExprCanBeRemovedIfUnused(e.No)

	case *EUnary:
		switch e.Op {
		case UnOpVoid, UnOpNot, UnOpTypeof:
			return ExprCanBeRemovedIfUnused(e.Value)
		}

	case *EBinary:
		switch e.Op {
		case BinOpStrictEq, BinOpStrictNe, BinOpComma, BinOpLogicalOr, BinOpLogicalAnd, BinOpNullishCoalescing:
			return ExprCanBeRemovedIfUnused(e.Left) && ExprCanBeRemovedIfUnused(e.Right)
		}
	}

	return false
}

func StringKey(loc logger.Loc, name string) Expr {
	return Expr{Loc: loc, Data: &EString{Value: name}}
}

// Returns the name of a non-computed property key, if it has one
func KeyName(property *Property) (string, bool) {
	if property.Flags.Has(PropertyIsComputed) {
		return "", false
	}
	if str, ok := property.Key.Data.(*EString); ok {
		return str.Value, true
	}
	return "", false
}
