package solver

import (
	"github.com/funvibe/typeeval/internal/config"
	"github.com/funvibe/typeeval/internal/diagnostics"
	"github.com/funvibe/typeeval/internal/tvarctx"
	"github.com/funvibe/typeeval/internal/types"
)

// AssignTypeVar records that src must be assignable to dest. dest is
// the destination TypeVar; src is the concrete (or TypeVar) source;
// ctx accumulates the bound updates; assign is the external
// assignability judgment the solver calls back into for every "is
// this assignable" sub-question.
func AssignTypeVar(dest types.TypeVarType, src types.Type, sink diagnostics.Sink, ctx *tvarctx.Context, flags Flags, assign AssignFunc, offset, recursion int) bool {
	if !withinRecursionLimit(recursion) {
		return true
	}

	// Scope check.
	if !ctx.HasSolveForScope(dest.ScopeID) {
		if types.IsAnyOrUnknown(src) {
			return true
		}
		if flags.has(ReverseTypeVarMatching) || flags.has(IgnoreTypeVarScope) {
			return assign(types.Concretise(dest, ctx), types.Concretise(src, ctx), sink, ctx, ctx, flags, recursion+1)
		}
		if !dest.IsSynthesized {
			diagnostics.Report(sink, diagnostics.NewSolverError(diagnostics.ErrW001, offset, dest.Name+"@"+dest.ScopeID))
		}
		return false
	}

	// Unpacking.
	src = unpackIfNeeded(dest, src)
	if dest.Instantiable() {
		if c, ok := src.(types.ClassType); ok && c.GenericClassKey == "type" && len(c.TypeArguments) == 0 {
			src = types.AnyType{}
		}
	}

	if dest.IsConstrained() {
		return assignConstrained(dest, src, sink, ctx, flags, assign, offset, recursion)
	}
	return assignUnconstrained(dest, src, sink, ctx, flags, assign, offset, recursion)
}

func unpackIfNeeded(dest types.TypeVarType, src types.Type) types.Type {
	if !dest.IsVariadic {
		return src
	}
	if c, ok := src.(types.ClassType); ok && c.IsTupleClass {
		return src
	}
	tuple := types.NewClassInstance("tuple")
	tuple.IsTupleClass = true
	tuple.IsBuiltin = true
	tuple.TupleArguments = []types.TupleArg{{Type: src, IsUnbounded: true}}
	return tuple
}

func assignConstrained(dest types.TypeVarType, src types.Type, sink diagnostics.Sink, ctx *tvarctx.Context, flags Flags, assign AssignFunc, offset, recursion int) bool {
	// A source that is itself a TypeVar assignable to dest (checked
	// under a fresh scoped context) is accepted as the binding.
	if srcTV, ok := src.(types.TypeVarType); ok {
		fresh := tvarctx.New(srcTV.ScopeID)
		if assign(dest, srcTV, nil, fresh, fresh, flags, recursion+1) {
			return commitConstrained(dest, srcTV, sink, ctx, flags, assign, offset, recursion)
		}
	}

	var chosen types.Type
	conditionedOK := true
	unconditionedChosen := make(map[string]bool)

	types.ForEachSubtype(src, func(sub types.Type) {
		narrowest, ok := narrowestConstraint(dest.Constraints, sub, assign, flags, recursion)
		if !ok {
			conditionedOK = false
			return
		}
		if len(types.ConditionsOf(sub)) == 0 {
			unconditionedChosen[narrowest.String()] = true
			chosen = narrowest
		} else if chosen == nil {
			chosen = narrowest
		}
	})

	if len(unconditionedChosen) > 1 {
		diagnostics.Report(sink, diagnostics.NewSolverError(diagnostics.ErrW003, offset, src.String(), dest.Name))
		return false
	}

	if chosen == nil || !conditionedOK {
		// No per-subtype match; the union as a whole may still fit a
		// single constraint.
		for _, c := range dest.Constraints {
			if assign(c, src, nil, ctx, ctx, flags, recursion+1) {
				chosen = c
				break
			}
		}
	}

	if chosen == nil {
		diagnostics.Report(sink, diagnostics.NewSolverError(diagnostics.ErrW002, offset, dest.Name, src.String()))
		return false
	}

	return commitConstrained(dest, chosen, sink, ctx, flags, assign, offset, recursion)
}

func narrowestConstraint(constraints []types.Type, sub types.Type, assign AssignFunc, flags Flags, recursion int) (types.Type, bool) {
	var candidates []types.Type
	for _, c := range constraints {
		if assign(c, sub, nil, nil, nil, flags, recursion+1) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return nil, false
	}
	// Narrowest: not a supertype of another accepting candidate.
	for _, cand := range candidates {
		isSuperOfAnother := false
		for _, other := range candidates {
			if other.String() == cand.String() {
				continue
			}
			if assign(cand, other, nil, nil, nil, flags, recursion+1) {
				isSuperOfAnother = true
				break
			}
		}
		if !isSuperOfAnother {
			return cand, true
		}
	}
	return candidates[0], true
}

// commitConstrained records the chosen constraint, checking it
// against any earlier binding first: a new binding assignable to the
// current one keeps the current one; a current binding assignable to
// the new one widens to the new one; anything else fails.
func commitConstrained(dest types.TypeVarType, binding types.Type, sink diagnostics.Sink, ctx *tvarctx.Context, flags Flags, assign AssignFunc, offset, recursion int) bool {
	existing, ok := ctx.Get(dest)
	if !ok || existing.Narrow == nil {
		ctx.Set(dest, tvarctx.Entry{Narrow: binding})
		return true
	}
	if assign(existing.Narrow, binding, nil, ctx, ctx, flags, recursion+1) {
		return true
	}
	if assign(binding, existing.Narrow, nil, ctx, ctx, flags, recursion+1) {
		existing.Narrow = binding
		ctx.Set(dest, existing)
		return true
	}
	diagnostics.Report(sink, diagnostics.NewSolverError(diagnostics.ErrW006, offset, binding.String(), dest.Name))
	return false
}

func assignUnconstrained(dest types.TypeVarType, src types.Type, sink diagnostics.Sink, ctx *tvarctx.Context, flags Flags, assign AssignFunc, offset, recursion int) bool {
	entry, hasEntry := ctx.Get(dest)

	// Retention requested by the flag, by the context (persisted from
	// an earlier bind), or by the declared bound.
	retain := flags.has(RetainLiteralsForTypeVar) || dest.Bound != nil || (hasEntry && entry.RetainLiterals)
	adjSrc := src
	if !retain {
		adjSrc = types.StripLiterals(src)
	}

	if dest.Instantiable() {
		converted, ok := types.ConvertToInstantiable(adjSrc)
		if !ok {
			diagnostics.Report(sink, diagnostics.NewSolverError(diagnostics.ErrW009, offset, adjSrc.String(), dest.Name))
			return false
		}
		adjSrc = converted
	}

	if flags.has(ReverseTypeVarMatching) || flags.has(AllowTypeVarNarrowing) {
		if !hasEntry || entry.Wide == nil {
			entry.Wide = adjSrc
		} else if entry.Wide.String() != adjSrc.String() {
			if assign(entry.Wide, types.Concretise(adjSrc, ctx), nil, ctx, ctx, flags, recursion+1) {
				entry.Wide = adjSrc
			} else if assign(adjSrc, types.Concretise(entry.Wide, ctx), nil, ctx, ctx, flags, recursion+1) {
				// already tighter, retain
			} else {
				diagnostics.Report(sink, diagnostics.NewSolverError(diagnostics.ErrW007, offset, adjSrc.String(), dest.Name))
				return false
			}
		}
		if entry.Narrow != nil && !assign(entry.Wide, types.Concretise(entry.Narrow, ctx), nil, ctx, ctx, flags, recursion+1) {
			diagnostics.Report(sink, diagnostics.NewSolverError(diagnostics.ErrW007, offset, adjSrc.String(), dest.Name))
			return false
		}
	} else {
		if !hasEntry || entry.Narrow == nil {
			entry.Narrow = adjSrc
		} else if assign(entry.Narrow, types.Concretise(adjSrc, ctx), nil, ctx, ctx, flags, recursion+1) {
			if _, unk := entry.Narrow.(types.UnknownType); unk {
				if _, stillUnk := adjSrc.(types.UnknownType); !stillUnk {
					entry.Narrow = adjSrc
				}
			}
			// else: prefer existing bound, no-op.
		} else {
			if ctx.Locked() {
				diagnostics.Report(sink, diagnostics.NewSolverError(diagnostics.ErrW004, offset, dest.Name))
				return false
			}
			if dest.IsVariadic {
				diagnostics.Report(sink, diagnostics.NewSolverError(diagnostics.ErrW005, offset, dest.Name))
				return false
			}
			combined := types.NormalizeUnion([]types.Type{entry.Narrow, adjSrc})
			if u, isUnion := combined.(types.UnionType); isUnion && len(u.Subtypes) > config.MaxSubtypesForInferredType && dest.Bound != nil {
				combined = newObjectInstance()
			}
			entry.Narrow = combined
		}
		if entry.Wide != nil && !assignableWithinWide(entry.Narrow, entry.Wide, ctx, assign, flags, recursion) {
			diagnostics.Report(sink, diagnostics.NewSolverError(diagnostics.ErrW006, offset, adjSrc.String(), dest.Name))
			return false
		}
	}

	if dest.Bound != nil {
		surviving := entry.Narrow
		if surviving == nil {
			surviving = entry.Wide
		}
		if surviving != nil && !assign(dest.Bound, types.Concretise(surviving, ctx), sink, ctx, ctx, flags, recursion+1) {
			diagnostics.Report(sink, diagnostics.NewSolverError(diagnostics.ErrW008, offset, surviving.String(), dest.Name))
			return false
		}
	}

	entry.RetainLiterals = retain
	ctx.Set(dest, entry)
	return true
}

func assignableWithinWide(narrow, wide types.Type, ctx *tvarctx.Context, assign AssignFunc, flags Flags, recursion int) bool {
	// A TypeVar wide bound matched exactly or unioned is acceptable
	// without concretisation.
	if _, ok := wide.(types.TypeVarType); ok {
		return true
	}
	return assign(wide, types.Concretise(narrow, ctx), nil, ctx, ctx, flags, recursion+1)
}
