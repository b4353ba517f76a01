package narrow

import (
	"github.com/funvibe/typeeval/internal/tree"
	"github.com/funvibe/typeeval/internal/types"
)

// dispatchBinary covers every test shape that is a BinaryOp: the
// None comparisons (`x is None`, `x[i] is None`, `x.m is None`),
// literal and discriminator comparisons, `len(x) == n`, and
// membership (`x in C`, `k in td`).
func (e *Engine) dispatchBinary(reference, testExpr tree.Index, n tree.Node, isPositive bool, recursion int) (Callback, bool) {
	op := n.Op
	negatedOp := op == "is not" || op == "!=" || op == "not in"
	effectivePositive := isPositive
	if negatedOp {
		effectivePositive = !isPositive
	}

	switch op {
	case "is", "is not", "==", "!=":
		return e.dispatchComparison(reference, n.Left, n.Right, effectivePositive, recursion)
	case "in", "not in":
		return e.dispatchMembership(reference, n.Left, n.Right, effectivePositive, recursion)
	}
	return nil, false
}

// dispatchComparison handles `a OP b` where OP is one of is/is
// not/==/!= after polarity has already been folded in (effectivePositive
// is true for the "equal" reading, false for "not equal").
func (e *Engine) dispatchComparison(reference, left, right tree.Index, positive bool, recursion int) (Callback, bool) {
	// Normalize so `side` is the expression compared against the
	// reference and `otherSide` is the constant/literal/None side.
	for _, pair := range [][2]tree.Index{{left, right}, {right, left}} {
		side, other := pair[0], pair[1]

		if cb, ok := e.typeOfComparisonCallback(reference, side, other, positive); ok { // type(x) is Y
			return cb, true
		}

		if e.isNoneConstant(other) {
			// Covers `x is None` and, since IsMatchingExpression
			// already recognizes MemberAccess and Index shapes, also
			// `x.m is None` whenever the caller's reference is exactly
			// that member access.
			if e.matches(reference, side) {
				return noneComparisonCallback(positive), true
			}
			if cb, ok := e.tupleIndexIsNoneCallback(reference, side, positive); ok { // x[i] is None
				return cb, true
			}
		}

		if lit, ok := e.literalValueOf(other); ok {
			if e.matches(reference, side) { // x is/== L
				return literalComparisonCallback(lit, positive), true
			}
			if cb, ok := e.memberLiteralCallback(reference, side, lit, positive); ok { // x.m == L
				return cb, true
			}
			if cb, ok := e.indexLiteralCallback(reference, side, lit, positive); ok { // x[k] == L
				return cb, true
			}
		}

		if cb, ok := e.lenComparisonCallback(reference, side, other, positive); ok { // len(x) == n
			return cb, true
		}
	}
	return nil, false
}

func (e *Engine) isNoneConstant(idx tree.Index) bool {
	n := e.Tree.Get(idx)
	return n.Kind == tree.KindConstant && n.ConstKind == tree.ConstNone
}

// noneComparisonCallback narrows a direct None comparison: positive
// narrows to None; negative removes None from a union. Any passes
// through unchanged in both branches.
func noneComparisonCallback(positive bool) Callback {
	return func(t types.Type) types.Type {
		if types.IsAnyOrUnknown(t) {
			return t
		}
		if positive {
			return types.NoneWithConditions(types.ConditionsOf(t))
		}
		return types.MapSubtypes(t, func(sub types.Type) types.Type {
			if _, isNone := sub.(types.NoneType); isNone {
				return types.NeverType{}
			}
			return sub
		})
	}
}

// tupleIndexIsNoneCallback narrows `x[i] is None` / `is not None`
// where x is a fixed-length tuple and i is an in-range integer
// literal. Subtypes whose i-th element can never be None are
// eliminated in the positive branch; in the negative branch subtypes
// whose i-th element is definitely None are eliminated.
func (e *Engine) tupleIndexIsNoneCallback(reference, side tree.Index, positive bool) (Callback, bool) {
	n := e.Tree.Get(side)
	if n.Kind != tree.KindIndex {
		return nil, false
	}
	if !e.matches(reference, n.Base) {
		return nil, false
	}
	idx := e.Tree.Get(n.IndexExpr)
	if idx.Kind != tree.KindNumber || !idx.IsInt || idx.IntValue < 0 {
		return nil, false
	}
	i := int(idx.IntValue)

	return func(t types.Type) types.Type {
		return types.MapSubtypes(t, func(sub types.Type) types.Type {
			c, ok := sub.(types.ClassType)
			if !ok || !c.IsTupleClass || c.TupleArguments == nil || i >= len(c.TupleArguments) {
				return sub
			}
			elemIsNone := isNoneType(c.TupleArguments[i].Type)
			if positive && !elemIsNone && !couldBeNone(c.TupleArguments[i].Type) {
				return types.NeverType{}
			}
			if !positive && elemIsNone {
				return types.NeverType{}
			}
			return sub
		})
	}, true
}

func isNoneType(t types.Type) bool {
	_, ok := t.(types.NoneType)
	return ok
}

func couldBeNone(t types.Type) bool {
	found := false
	types.ForEachSubtype(t, func(sub types.Type) {
		if isNoneType(sub) || types.IsAnyOrUnknown(sub) {
			found = true
		}
	})
	return found
}

// lenComparisonCallback narrows `len(x) == n` / `!= n`.
// Fixed-length tuple subtypes survive the positive branch only
// when their length matches n (negative: only when it doesn't);
// unbounded tuples are always preserved (their length is unknown).
func (e *Engine) lenComparisonCallback(reference, side, other tree.Index, positive bool) (Callback, bool) {
	call := e.Tree.Get(side)
	if call.Kind != tree.KindCall {
		return nil, false
	}
	fn := e.Tree.Get(call.Func)
	if fn.Kind != tree.KindName || fn.Name != "len" || len(call.Args) != 1 {
		return nil, false
	}
	arg := e.Tree.Get(call.Args[0]).ArgValue
	if !e.matches(reference, arg) {
		return nil, false
	}
	lenLit := e.Tree.Get(other)
	if lenLit.Kind != tree.KindNumber || !lenLit.IsInt {
		return nil, false
	}
	n := int(lenLit.IntValue)

	return func(t types.Type) types.Type {
		return types.MapSubtypes(t, func(sub types.Type) types.Type {
			c, ok := sub.(types.ClassType)
			if !ok || !c.IsTupleClass || c.TupleArguments == nil {
				return sub // unbounded or non-tuple: preserved
			}
			for _, a := range c.TupleArguments {
				if a.IsUnbounded {
					return sub // tuple[T, ...]: length unknown, preserved
				}
			}
			matches := len(c.TupleArguments) == n
			if positive && !matches {
				return types.NeverType{}
			}
			if !positive && matches {
				return types.NeverType{}
			}
			return sub
		})
	}, true
}
