package narrow

import (
	"github.com/funvibe/typeeval/internal/tree"
	"github.com/funvibe/typeeval/internal/types"
)

// dispatchCall covers every test shape that is a Call:
// isinstance/issubclass, callable(x), bool(x), and user-defined type
// guards.
func (e *Engine) dispatchCall(reference, testExpr tree.Index, n tree.Node, isPositive bool, recursion int) (Callback, bool) {
	fn := e.Tree.Get(n.Func)
	if fn.Kind != tree.KindName || len(n.Args) == 0 {
		return nil, false
	}

	switch fn.Name {
	case "isinstance", "issubclass":
		if len(n.Args) != 2 || e.ResolveExprType == nil {
			return nil, false
		}
		arg0 := e.Tree.Get(n.Args[0]).ArgValue
		if !e.matches(reference, arg0) {
			return nil, false
		}
		arg1 := e.Tree.Get(n.Args[1]).ArgValue
		filterType, ok := e.ResolveExprType(arg1)
		if !ok {
			return nil, false
		}
		isInstanceCheck := fn.Name == "isinstance"
		filters := filterTypesOf(filterType, isInstanceCheck)
		return e.isinstanceNarrowing(filters, isPositive, true, isInstanceCheck, e.Module, int(testExpr)), true

	case "callable":
		if len(n.Args) != 1 {
			return nil, false
		}
		arg0 := e.Tree.Get(n.Args[0]).ArgValue
		if !e.matches(reference, arg0) {
			return nil, false
		}
		return callableCallback(isPositive), true

	case "bool":
		if len(n.Args) != 1 {
			return nil, false
		}
		arg0 := e.Tree.Get(n.Args[0]).ArgValue
		if !e.matches(reference, arg0) {
			return nil, false
		}
		return truthinessCallback(isPositive), true
	}

	arg0 := e.Tree.Get(n.Args[0]).ArgValue
	if e.matches(reference, arg0) && e.ResolveExprType != nil {
		if guard, ok := e.resolveTypeGuard(n.Func); ok {
			return typeGuardCallback(guard, isPositive), true
		}
	}
	return nil, false
}

func (e *Engine) resolveTypeGuard(funcExpr tree.Index) (*types.TypeGuardInfo, bool) {
	fnType, ok := e.ResolveExprType(funcExpr)
	if !ok {
		return nil, false
	}
	f, ok := fnType.(types.FunctionType)
	if !ok || f.TypeGuard == nil {
		return nil, false
	}
	return f.TypeGuard, true
}

// typeGuardCallback narrows through a TypeGuard[G] return
// annotation: non-strict positive replaces the whole type with G;
// strict positive intersects each subtype with G
// pointwise (approximated here by keeping subtypes that share G's
// generic class or derive from G, else replacing with G); strict negative
// eliminates subtypes wholly contained in G.
func typeGuardCallback(guard *types.TypeGuardInfo, positive bool) Callback {
	guardClass, guardIsClass := guard.GuardedType.(types.ClassType)

	return func(t types.Type) types.Type {
		if positive {
			if !guard.IsStrict {
				return guard.GuardedType
			}
			return types.MapSubtypes(t, func(sub types.Type) types.Type {
				if !guardIsClass {
					return guard.GuardedType
				}
				if c, ok := sub.(types.ClassType); ok && (c.SameGenericClass(guardClass) || c.IsDescendantOf(guardClass)) {
					return sub
				}
				return guardClass
			})
		}
		if !guard.IsStrict || !guardIsClass {
			return t
		}
		return types.MapSubtypes(t, func(sub types.Type) types.Type {
			if c, ok := sub.(types.ClassType); ok && (c.SameGenericClass(guardClass) || c.IsDescendantOf(guardClass)) {
				return types.NeverType{}
			}
			return sub
		})
	}
}

// callableCallback narrows `callable(x)`: keep function, overloaded,
// and instantiable-or-__call__-declaring class subtypes; eliminate
// None/Module in the positive branch.
func callableCallback(positive bool) Callback {
	return func(t types.Type) types.Type {
		return types.MapSubtypes(t, func(sub types.Type) types.Type {
			isCallable := false
			switch v := sub.(type) {
			case types.FunctionType, types.OverloadedFunctionType:
				isCallable = true
			case types.ClassType:
				if v.Instantiable() {
					isCallable = true
				} else if _, ok := v.Fields["__call__"]; ok {
					isCallable = true
				}
			}
			if positive {
				if isCallable {
					return sub
				}
				switch sub.(type) {
				case types.NoneType, types.ModuleType:
					return types.NeverType{}
				}
				return sub
			}
			if isCallable {
				return types.NeverType{}
			}
			return sub
		})
	}
}
