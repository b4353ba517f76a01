package solver

import (
	"github.com/funvibe/typeeval/internal/diagnostics"
	"github.com/funvibe/typeeval/internal/tvarctx"
	"github.com/funvibe/typeeval/internal/types"
)

// AssignParamSpec binds a parameter-spec destination. dest is a
// ParamSpec TypeVar; src is either another ParamSpec of matching
// identity, a function type (its parameter list is extracted,
// synthesized flags preserved), or Any/Unknown.
func AssignParamSpec(dest types.TypeVarType, src types.Type, sink diagnostics.Sink, ctx *tvarctx.Context, flags Flags, offset int) bool {
	var params []types.Parameter
	var isSynthesized bool

	switch v := src.(type) {
	case types.TypeVarType:
		if !v.IsParamSpec {
			return false
		}
		if existing, ok := ctx.GetParamSpec(v); ok {
			params = existing.Parameters
			isSynthesized = existing.IsSynthesized
		} else {
			return commitParamSpec(dest, v.Name, nil, v.IsSynthesized, ctx)
		}
	case types.FunctionType:
		params = v.Parameters
		isSynthesized = v.IsSynthesized
	case types.AnyType, types.UnknownType:
		return commitParamSpec(dest, "", nil, true, ctx)
	default:
		return false
	}

	if existing, ok := ctx.GetParamSpec(dest); ok {
		if !paramListsEquivalent(existing.Parameters, params) {
			diagnostics.Report(sink, diagnostics.NewSolverError(diagnostics.ErrW010, offset, dest.Name))
			return false
		}
		return true
	}

	return commitParamSpec(dest, "", params, isSynthesized, ctx)
}

func commitParamSpec(dest types.TypeVarType, refName string, params []types.Parameter, isSynthesized bool, ctx *tvarctx.Context) bool {
	binding := tvarctx.ParamSpecBinding{Parameters: params, IsSynthesized: isSynthesized, TypeVarScopeID: dest.ScopeID}
	if refName != "" {
		binding.ParamSpecRef = &types.ParamSpecRef{Name: refName, ScopeID: dest.ScopeID}
	}
	ctx.SetParamSpec(dest, binding)
	return true
}

// paramListsEquivalent is the function-equivalence check re-binding
// uses, return type ignored: category, name, and has-default must
// line up positionally.
func paramListsEquivalent(a, b []types.Parameter) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Category != b[i].Category || a[i].Name != b[i].Name || a[i].HasDefault != b[i].HasDefault {
			return false
		}
	}
	return true
}
