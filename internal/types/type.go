// Package types models the types the evaluator reasons about as a
// tagged sum of categories, plus the flags and invariants every other
// package in this module consumes.
package types

// Category discriminates the closed set of Type variants. Every Type
// implementation returns its own constant from Kind(); callers that
// need exhaustive handling switch on this instead of a type-switch
// when they only care about the tag, not the payload.
type Category int

const (
	CategoryClass Category = iota
	CategoryFunction
	CategoryOverloaded
	CategoryTypeVar
	CategoryUnion
	CategoryModule
	CategoryNone
	CategoryAny
	CategoryUnknown
	CategoryNever
)

func (c Category) String() string {
	switch c {
	case CategoryClass:
		return "Class"
	case CategoryFunction:
		return "Function"
	case CategoryOverloaded:
		return "Overloaded"
	case CategoryTypeVar:
		return "TypeVar"
	case CategoryUnion:
		return "Union"
	case CategoryModule:
		return "Module"
	case CategoryNone:
		return "None"
	case CategoryAny:
		return "Any"
	case CategoryUnknown:
		return "Unknown"
	case CategoryNever:
		return "Never"
	default:
		return "?"
	}
}

// Type is the interface every type-category struct implements. It is
// deliberately small: everything else (fields, flags) lives on the
// concrete struct and is reached through a type switch.
type Type interface {
	String() string
	Kind() Category
	// Instantiable reports whether this value denotes the class
	// itself (true) or an instance of it (false). A literal class
	// instance always reports false.
	Instantiable() bool
}

// Condition is a provenance annotation carried by a type that was
// produced as the binding for a constrained TypeVar. Conditions flow
// through narrowing so a post-branch type remembers which constraint
// produced it.
type Condition struct {
	TypeVarName string
	TypeVarScope string
	ConstraintIndex int
}

// WithConditions is implemented by variants that carry a conditions
// list.
type WithConditions interface {
	Type
	Conditions() []Condition
}

// ConditionsOf returns t's conditions list, or nil for variants that
// carry none.
func ConditionsOf(t Type) []Condition {
	if wc, ok := t.(WithConditions); ok {
		return wc.Conditions()
	}
	return nil
}

// Resolver turns a TypeVar into its bound concrete type. Declared
// here so this package never depends on the context that owns the
// bindings; tvarctx.Context implements it.
type Resolver interface {
	Concrete(tv TypeVarType) (Type, bool)
}

// Concretise replaces every TypeVar reachable from t by its bound
// type in r. The walk carries a visited set because a binding can,
// transiently mid-solve, reference another TypeVar or itself.
func Concretise(t Type, r Resolver) Type {
	return concretiseVisited(t, r, map[string]bool{})
}

func concretiseVisited(t Type, r Resolver, visited map[string]bool) Type {
	if t == nil {
		return nil
	}
	switch v := t.(type) {
	case TypeVarType:
		if visited[v.scopedKey()] {
			return v
		}
		bound, ok := r.Concrete(v)
		if !ok {
			return v
		}
		newVisited := make(map[string]bool, len(visited)+1)
		for k := range visited {
			newVisited[k] = true
		}
		newVisited[v.scopedKey()] = true
		return concretiseVisited(bound, r, newVisited)
	case ClassType:
		if len(v.TypeArguments) == 0 && len(v.TupleArguments) == 0 {
			return v
		}
		newArgs := make([]Type, len(v.TypeArguments))
		for i, a := range v.TypeArguments {
			newArgs[i] = concretiseVisited(a, r, visited)
		}
		v.TypeArguments = newArgs
		if v.TupleArguments != nil {
			newTuple := make([]TupleArg, len(v.TupleArguments))
			for i, a := range v.TupleArguments {
				newTuple[i] = TupleArg{Type: concretiseVisited(a.Type, r, visited), IsUnbounded: a.IsUnbounded}
			}
			v.TupleArguments = newTuple
		}
		return v
	case FunctionType:
		newParams := make([]Parameter, len(v.Parameters))
		for i, p := range v.Parameters {
			p.DeclaredType = concretiseVisited(p.DeclaredType, r, visited)
			newParams[i] = p
		}
		v.Parameters = newParams
		v.ReturnType = concretiseVisited(v.ReturnType, r, visited)
		return v
	case OverloadedFunctionType:
		newOverloads := make([]FunctionType, len(v.Overloads))
		for i, o := range v.Overloads {
			newOverloads[i] = concretiseVisited(o, r, visited).(FunctionType)
		}
		v.Overloads = newOverloads
		return v
	case UnionType:
		newSubtypes := make([]Type, len(v.Subtypes))
		for i, s := range v.Subtypes {
			newSubtypes[i] = concretiseVisited(s, r, visited)
		}
		return NormalizeUnion(newSubtypes)
	default:
		return t
	}
}
