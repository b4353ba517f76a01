package narrow

import (
	"github.com/funvibe/typeeval/internal/tree"
	"github.com/funvibe/typeeval/internal/types"
)

// typeOfComparisonCallback narrows `type(x) is Y` / `is not Y`.
// Positive: a subtype of Y's exact generic class is retained as is
// (e.g. `type(x) is Base` narrows an Animal|Plant union down to
// whichever one Base names); any other class subtype, a subclass of Y
// included, is replaced with Y-as-instance. Negative eliminates a
// subtype only when it is final and equals Y exactly — an
// unconstrained/non-final class could still have `x` be an instance
// of a Y subclass, so it survives.
func (e *Engine) typeOfComparisonCallback(reference, side, other tree.Index, positive bool) (Callback, bool) {
	call := e.Tree.Get(side)
	if call.Kind != tree.KindCall {
		return nil, false
	}
	fn := e.Tree.Get(call.Func)
	if fn.Kind != tree.KindName || fn.Name != "type" || len(call.Args) != 1 {
		return nil, false
	}
	arg := e.Tree.Get(call.Args[0]).ArgValue
	if !e.matches(reference, arg) {
		return nil, false
	}
	if e.ResolveExprType == nil {
		return nil, false
	}
	yType, ok := e.ResolveExprType(other)
	if !ok {
		return nil, false
	}
	y, ok := yType.(types.ClassType)
	if !ok {
		return nil, false
	}
	yInstance := y.AsInstance()

	return func(t types.Type) types.Type {
		return types.MapSubtypes(t, func(sub types.Type) types.Type {
			c, ok := sub.(types.ClassType)
			if !ok {
				if positive {
					return types.NeverType{}
				}
				return sub
			}
			if positive {
				if c.SameGenericClass(y) {
					return sub
				}
				return yInstance
			}
			if c.IsFinal && c.SameGenericClass(y) {
				return types.NeverType{}
			}
			return sub
		})
	}, true
}
