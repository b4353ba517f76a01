package solver

import (
	"github.com/funvibe/typeeval/internal/tvarctx"
	"github.com/funvibe/typeeval/internal/types"
)

// TransformExpectedFunc rewrites one inferred type argument before it
// is written into the destination context. The checker owns the
// transform (it rewrites live outer TypeVars during constructor
// inference); the solver only applies it. liveScopes lists the scope
// ids whose TypeVars are still live in the caller and may appear in
// the argument. A nil func is the identity; a transform returning nil
// marks the argument absent and fails the population.
type TransformExpectedFunc func(arg types.Type, liveScopes []string) types.Type

// PopulateContextFromExpectedType infers, for a target class T[...]
// and an expected specialised supertype E[...], the type arguments
// for T that make it assignable to E, writing them into ctx keyed by
// TypeVarType{Name, ScopeID: target.GenericClassKey}.
//
// When E is the same generic class as T its specialisation is copied
// straight across respecting declared variance. Otherwise T's view of
// E is read off T's linearised MRO, target's declared parameters are
// replaced by fresh synthetic TypeVars inside that view, and an
// assignability check against E's arguments binds the synthetic
// TypeVars; each binding is then projected back to the matching
// target TypeVar, through transformExpected when the caller supplied
// one. Returns false when any projected argument is absent.
func PopulateContextFromExpectedType(target, expected types.ClassType, ctx *tvarctx.Context, assign AssignFunc, transformExpected TransformExpectedFunc, liveScopes []string, recursion int) bool {
	if !withinRecursionLimit(recursion) {
		return true
	}
	if target.SameGenericClass(expected) {
		return projectArguments(target, expected.TypeArguments, transformExpected, liveScopes, ctx)
	}

	var view types.ClassType
	found := false
	for _, ancestor := range target.MRO {
		if ancestor.SameGenericClass(expected) {
			view = ancestor
			found = true
			break
		}
	}
	if !found {
		return false
	}
	if len(view.TypeArguments) != len(expected.TypeArguments) {
		return false
	}

	synthScope := "synth:" + target.GenericClassKey
	synths := make([]types.TypeVarType, len(target.TypeParameters))
	subst := make(map[string]types.TypeVarType, len(target.TypeParameters))
	for i, decl := range target.TypeParameters {
		synths[i] = types.TypeVarType{
			Name:             decl.Name,
			ScopeID:          synthScope,
			DeclaredVariance: decl.Variance,
			IsSynthesized:    true,
			SynthesizedIndex: i,
		}
		subst[decl.Name] = synths[i]
	}
	synthCtx := tvarctx.New(synthScope)

	for j := range view.TypeArguments {
		viewArg := replaceTargetParams(view.TypeArguments[j], target.GenericClassKey, subst)
		if synTV, ok := viewArg.(types.TypeVarType); ok && synTV.ScopeID == synthScope {
			// The view exposes the parameter directly; bind it here
			// rather than detouring through the external judgment.
			if !AssignTypeVar(synTV, expected.TypeArguments[j], nil, synthCtx, PopulatingExpectedType, assign, 0, recursion+1) {
				return false
			}
			continue
		}
		if !assign(expected.TypeArguments[j], viewArg, nil, synthCtx, synthCtx, ReverseTypeVarMatching|PopulatingExpectedType, recursion+1) {
			return false
		}
	}

	args := make([]types.Type, len(synths))
	for i := range synths {
		entry, ok := synthCtx.Get(synths[i])
		if !ok {
			return false
		}
		arg := entry.Narrow
		if arg == nil {
			arg = entry.Wide
		}
		if arg == nil {
			return false
		}
		args[i] = arg
	}
	return projectArguments(target, args, transformExpected, liveScopes, ctx)
}

// replaceTargetParams swaps references to target's declared
// parameters (TypeVars scoped to scopeID, matched by name) for their
// synthetic stand-ins, recursively through class and union shapes.
func replaceTargetParams(t types.Type, scopeID string, subst map[string]types.TypeVarType) types.Type {
	switch v := t.(type) {
	case types.TypeVarType:
		if v.ScopeID == scopeID {
			if syn, ok := subst[v.Name]; ok {
				return syn
			}
		}
		return v
	case types.ClassType:
		if len(v.TypeArguments) > 0 {
			newArgs := make([]types.Type, len(v.TypeArguments))
			for i, a := range v.TypeArguments {
				newArgs[i] = replaceTargetParams(a, scopeID, subst)
			}
			v.TypeArguments = newArgs
		}
		if v.TupleArguments != nil {
			newTuple := make([]types.TupleArg, len(v.TupleArguments))
			for i, a := range v.TupleArguments {
				newTuple[i] = types.TupleArg{Type: replaceTargetParams(a.Type, scopeID, subst), IsUnbounded: a.IsUnbounded}
			}
			v.TupleArguments = newTuple
		}
		return v
	case types.UnionType:
		newSubs := make([]types.Type, len(v.Subtypes))
		for i, s := range v.Subtypes {
			newSubs[i] = replaceTargetParams(s, scopeID, subst)
		}
		return types.NormalizeUnion(newSubs)
	default:
		return t
	}
}

func projectArguments(target types.ClassType, args []types.Type, transformExpected TransformExpectedFunc, liveScopes []string, ctx *tvarctx.Context) bool {
	if len(args) < len(target.TypeParameters) {
		return false
	}
	for i, decl := range target.TypeParameters {
		tv := types.TypeVarType{Name: decl.Name, ScopeID: target.GenericClassKey, DeclaredVariance: decl.Variance}
		arg := args[i]
		if arg == nil {
			return false
		}
		if transformExpected != nil {
			arg = transformExpected(arg, liveScopes)
			if arg == nil {
				return false
			}
		}
		entry := tvarctx.Entry{}
		switch decl.Variance {
		case types.Covariant:
			entry.Narrow = arg
		case types.Contravariant:
			entry.Wide = arg
		default:
			entry.Narrow = arg
			entry.Wide = arg
		}
		ctx.Set(tv, entry)
	}
	return true
}
