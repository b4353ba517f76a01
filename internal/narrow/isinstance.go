package narrow

import (
	"github.com/funvibe/typeeval/internal/types"
)

// filterTypesOf extracts the list of filter types from the
// already-resolved type of an isinstance/issubclass second argument:
// a Union is read as "tuple of classes", a bare ClassType (or
// NoneType, matched via the `None` pseudo-class) is a single filter.
// `Type[T]` filters are unwrapped to T. isinstance filters take
// instance form (the narrowed result is an instance of the filter);
// issubclass filters stay instantiable, since the values being
// narrowed are themselves classes.
func filterTypesOf(argType types.Type, isInstanceCheck bool) []types.Type {
	switch v := argType.(type) {
	case types.UnionType:
		out := make([]types.Type, 0, len(v.Subtypes))
		for _, s := range v.Subtypes {
			out = append(out, filterTypesOf(s, isInstanceCheck)...)
		}
		return out
	case types.ClassType:
		if isInstanceCheck {
			return []types.Type{v.AsInstance()}
		}
		return []types.Type{v.AsInstantiable()}
	case types.NoneType:
		return []types.Type{v}
	default:
		return []types.Type{argType}
	}
}

type filterRelation int

const (
	relationNone filterRelation = iota
	relationSuperclass
	relationSubclass
)

func classify(subtype, filter types.ClassType) filterRelation {
	if filter.IsAncestorOf(subtype) {
		return relationSuperclass
	}
	// A `dict` filter also matches a TypedDict subtype, since every
	// TypedDict is structurally a dict even though it has no `dict`
	// in its MRO.
	if filter.GenericClassKey == "dict" && subtype.IsTypedDict {
		return relationSuperclass
	}
	if filter.IsDescendantOf(subtype) {
		return relationSubclass
	}
	return relationNone
}

// specialize infers type arguments for a filter that narrows to a
// subclass: the filter's arguments are inherited positionally from
// the subtype's when the arities match, which keeps simple generic
// narrowing (`Sequence[int]` -> `list[int]`) working without the full
// cross-hierarchy projection that solver.PopulateContextFromExpectedType
// performs. Wiring that through here would mean threading a
// tvarctx.Context and an AssignFunc capability into every narrowing
// call site for a case that is, in practice, almost always this
// simple positional one.
func specialize(filter, subtype types.ClassType) types.ClassType {
	if len(filter.TypeParameters) > 0 && len(filter.TypeParameters) == len(subtype.TypeArguments) {
		filter.TypeArguments = subtype.TypeArguments
	}
	return filter
}

// isinstanceNarrowing narrows an isinstance/issubclass test for a
// resolved list of filters against reference's incoming type. The
// filters arrive in the form the check narrows to (instance for
// isinstance, instantiable for issubclass), so the callback never
// converts between the two itself.
func (e *Engine) isinstanceNarrowing(filters []types.Type, positive bool, allowIntersection bool, isInstanceCheck bool, module string, location int) Callback {
	classFilters := make([]types.ClassType, 0, len(filters))
	for _, f := range filters {
		if c, ok := f.(types.ClassType); ok {
			classFilters = append(classFilters, c)
		}
	}

	return func(t types.Type) types.Type {
		return types.MapSubtypes(t, func(sub types.Type) types.Type {
			if types.IsAnyOrUnknown(sub) {
				return anyUnknownSubstitution(classFilters, positive, sub)
			}
			// A callable-protocol filter (a class filter declaring
			// `__call__`) in an isinstance check accepts
			// function/overloaded subtypes directly, since those have
			// no ClassType form to classify against.
			switch sub.(type) {
			case types.FunctionType, types.OverloadedFunctionType:
				if isInstanceCheck && hasCallableFilter(classFilters) {
					if positive {
						return sub
					}
					return types.NeverType{}
				}
				if positive {
					return types.NeverType{}
				}
				return sub
			}

			c, ok := sub.(types.ClassType)
			if !ok {
				if positive {
					return types.NeverType{}
				}
				return sub
			}

			// In an isinstance check a bare `type` filter matches only
			// instantiable (class-qua-class) subtypes, never a plain
			// instance, regardless of MRO.
			if isInstanceCheck && isBareTypeFilter(classFilters) {
				if positive == c.Instantiable() {
					return c
				}
				return types.NeverType{}
			}

			bestSuper := false
			var bestSub *types.ClassType
			for i := range classFilters {
				switch classify(c, classFilters[i]) {
				case relationSuperclass:
					bestSuper = true
				case relationSubclass:
					f := classFilters[i]
					bestSub = &f
				}
			}

			if positive {
				if bestSuper {
					return c.WithConditionsList(c.Conditions())
				}
				if bestSub != nil {
					spec := specialize(*bestSub, c)
					// The runtime check only proves membership in the
					// filter class or some subclass of it.
					spec.IncludeSubclasses = true
					return spec
				}
				if allowIntersection && len(classFilters) > 0 {
					inter := types.SynthesizeIntersection(module, types.Location{File: module, Offset: location}, c, classFilters[0])
					return inter.WithConditionsList(c.Conditions())
				}
				return types.NeverType{}
			}

			if bestSuper {
				return types.NeverType{}
			}
			return sub
		})
	}
}

// isBareTypeFilter reports whether the filter list is exactly the
// single unparameterized `type` class, the shape that triggers the
// type-vs-instance special case instead of ordinary MRO classification.
func isBareTypeFilter(filters []types.ClassType) bool {
	return len(filters) == 1 && filters[0].GenericClassKey == "type" && len(filters[0].TypeArguments) == 0
}

// hasCallableFilter reports whether any filter class declares
// `__call__`, making it a callable-protocol filter for `isinstance`.
func hasCallableFilter(filters []types.ClassType) bool {
	for _, f := range filters {
		if _, ok := f.Fields["__call__"]; ok {
			return true
		}
	}
	return false
}

func anyUnknownSubstitution(filters []types.ClassType, positive bool, original types.Type) types.Type {
	if !positive || len(filters) == 0 {
		return original
	}
	members := make([]types.Type, len(filters))
	for i, f := range filters {
		members[i] = f
	}
	return types.NormalizeUnion(members)
}
