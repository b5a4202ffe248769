package js_lower

import (
	"fmt"
	"sort"

	"github.com/evanw/classvars/internal/helpers"
	"github.com/evanw/classvars/internal/js_ast"
	"github.com/evanw/classvars/internal/logger"
)

// Returns nil if no enclosing class declares this name. That's an error and
// it's reported here.
func (l *lowerer) lookupSlot(private *js_ast.EPrivateMember, ctx visitContext) *slot {
	if s, ok := ctx.slots[private.Name]; ok {
		s.useCount++
		return s
	}

	text := fmt.Sprintf("Unknown instance variable %q", private.Name)
	if len(ctx.slots) > 0 {
		names := make([]string, 0, len(ctx.slots))
		for name := range ctx.slots {
			names = append(names, name)
		}
		sort.Strings(names)
		if corrected, ok := helpers.MakeTypoDetector(names).MaybeCorrectTypo(private.Name); ok {
			text += fmt.Sprintf(" (did you mean %q?)", corrected)
		}
	}
	l.log.AddRangeError(&l.source, l.source.RangeOfIdentifier(private.NameLoc), text)
	l.hasErrors = true
	return nil
}

// "a::x" => "__instanceVarGet(a, _x)"
func (l *lowerer) lowerPrivateGet(loc logger.Loc, private *js_ast.EPrivateMember, ctx visitContext) js_ast.Expr {
	target := l.visitExpr(private.Target, ctx)
	s := l.lookupSlot(private, ctx)
	if s == nil {
		private.Target = target
		return js_ast.Expr{Loc: loc, Data: private}
	}
	return l.slotGet(loc, target, s)
}

// "a::x = b" => "__instanceVarSet(a, _x, b)"
// "a::x += b" => "__instanceVarSet(_a = a, _x, __instanceVarGet(_a, _x) + b)"
// "a::x ||= b" => "__instanceVarGet(_a = a, _x) || __instanceVarSet(_a, _x, b)"
func (l *lowerer) lowerPrivateAssign(loc logger.Loc, op js_ast.OpCode, private *js_ast.EPrivateMember, value js_ast.Expr, ctx visitContext) js_ast.Expr {
	target := l.visitExpr(private.Target, ctx)
	s := l.lookupSlot(private, ctx)
	if s == nil {
		private.Target = target
		return js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{
			Op:    op,
			Left:  js_ast.Expr{Loc: loc, Data: private},
			Right: l.visitExpr(value, ctx),
		}}
	}

	if op == js_ast.BinOpAssign {
		return l.slotSet(loc, target, s, l.visitExpr(value, ctx))
	}

	receiver := l.memoizeReceiver(target, ctx)

	if base, ok := op.CompoundAssignBase(); ok {
		setReceiver := receiver.read()
		getReceiver := receiver.read()
		return l.slotSet(loc, setReceiver, s, js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{
			Op:    base,
			Left:  l.slotGet(loc, getReceiver, s),
			Right: l.visitExpr(value, ctx),
		}})
	}

	var base js_ast.OpCode
	switch op {
	case js_ast.BinOpNullishCoalescingAssign:
		base = js_ast.BinOpNullishCoalescing
	case js_ast.BinOpLogicalOrAssign:
		base = js_ast.BinOpLogicalOr
	case js_ast.BinOpLogicalAndAssign:
		base = js_ast.BinOpLogicalAnd
	default:
		panic("Internal error")
	}
	getReceiver := receiver.read()
	setReceiver := receiver.read()
	return js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{
		Op:    base,
		Left:  l.slotGet(loc, getReceiver, s),
		Right: l.slotSet(loc, setReceiver, s, l.visitExpr(value, ctx)),
	}}
}

// "++a::x" => "__instanceVarSet(_a = a, _x, +__instanceVarGet(_a, _x) + 1)"
// "a::x++" => "(__instanceVarSet(_a = a, _x, (_b = +__instanceVarGet(_a, _x)) + 1), _b)"
func (l *lowerer) lowerPrivateUpdate(loc logger.Loc, op js_ast.OpCode, private *js_ast.EPrivateMember, ctx visitContext) js_ast.Expr {
	target := l.visitExpr(private.Target, ctx)
	s := l.lookupSlot(private, ctx)
	if s == nil {
		private.Target = target
		return js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: op, Value: js_ast.Expr{Loc: loc, Data: private}}}
	}

	binOp := js_ast.BinOpAdd
	if op == js_ast.UnOpPreDec || op == js_ast.UnOpPostDec {
		binOp = js_ast.BinOpSub
	}

	receiver := l.memoizeReceiver(target, ctx)
	setReceiver := receiver.read()
	getReceiver := receiver.read()
	oldValue := js_ast.Expr{Loc: loc, Data: &js_ast.EUnary{Op: js_ast.UnOpPos, Value: l.slotGet(loc, getReceiver, s)}}
	one := js_ast.Expr{Loc: loc, Data: &js_ast.ENumber{Value: 1}}

	if op.IsPrefix() {
		return l.slotSet(loc, setReceiver, s, js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: binOp, Left: oldValue, Right: one}})
	}

	temp := js_ast.Expr{Loc: loc, Data: &js_ast.EIdentifier{Ref: l.newTemp(ctx.fn)}}
	return js_ast.JoinWithComma(
		l.slotSet(loc, setReceiver, s, js_ast.Expr{Loc: loc, Data: &js_ast.EBinary{Op: binOp, Left: js_ast.Assign(temp, oldValue), Right: one}}),
		js_ast.CloneExpr(temp),
	)
}

// "a::f(b)" => "__instanceVarGet(_a = a, _f).call(_a, b)"
func (l *lowerer) lowerPrivateCall(loc logger.Loc, private *js_ast.EPrivateMember, args []js_ast.Expr, ctx visitContext) js_ast.Expr {
	target := l.visitExpr(private.Target, ctx)
	s := l.lookupSlot(private, ctx)
	if s == nil {
		private.Target = target
		l.visitExprs(args, ctx)
		return js_ast.Expr{Loc: loc, Data: &js_ast.ECall{Target: js_ast.Expr{Loc: loc, Data: private}, Args: args}}
	}

	receiver := l.memoizeReceiver(target, ctx)
	fn := l.slotGet(loc, receiver.read(), s)
	callArgs := append([]js_ast.Expr{receiver.read()}, args...)
	l.visitExprs(callArgs[1:], ctx)
	return js_ast.Expr{Loc: loc, Data: &js_ast.ECall{
		Target: js_ast.Expr{Loc: loc, Data: &js_ast.EDot{Target: fn, Name: "call", NameLoc: private.NameLoc}},
		Args:   callArgs,
	}}
}

// A receiver that is needed more than once in one access. A receiver that
// could have side effects is evaluated once into a temporary and then read
// from the temporary.
type memoizedReceiver struct {
	expr     js_ast.Expr
	tempRef  js_ast.Ref
	useCount int
}

func (l *lowerer) memoizeReceiver(expr js_ast.Expr, ctx visitContext) *memoizedReceiver {
	m := &memoizedReceiver{expr: expr, tempRef: js_ast.InvalidRef}
	if !js_ast.IsStableReceiver(expr.Data) {
		m.tempRef = l.newTemp(ctx.fn)
	}
	return m
}

// The expression returned by the first read must be evaluated before any
// of the others
func (m *memoizedReceiver) read() js_ast.Expr {
	m.useCount++
	if m.tempRef == js_ast.InvalidRef {
		if m.useCount == 1 {
			return m.expr
		}
		return js_ast.CloneExpr(m.expr)
	}
	temp := js_ast.Expr{Loc: m.expr.Loc, Data: &js_ast.EIdentifier{Ref: m.tempRef}}
	if m.useCount == 1 {
		return js_ast.Assign(temp, m.expr)
	}
	return temp
}
