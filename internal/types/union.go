package types

// UnionType is the Union variant. Subtypes never contains another
// UnionType; always build through NormalizeUnion.
type UnionType struct {
	Subtypes   []Type
	conditions []Condition
}

func (u UnionType) Kind() Category        { return CategoryUnion }
func (u UnionType) Instantiable() bool    { return false }
func (u UnionType) Conditions() []Condition { return u.conditions }

func (u UnionType) String() string {
	s := ""
	for i, t := range u.Subtypes {
		if i > 0 {
			s += " | "
		}
		s += t.String()
	}
	return s
}

// structuralKey is a cheap, order-sensitive-within-a-type structural
// identity used only for deduplication — not for equality testing of
// arbitrary unrelated types.
func structuralKey(t Type) string {
	switch v := t.(type) {
	case ClassType:
		key := v.GenericClassKey
		if v.Literal != nil {
			key += "#" + v.Literal.String()
		}
		for _, a := range v.TypeArguments {
			key += "<" + structuralKey(a) + ">"
		}
		if v.instantiableFlag {
			key = "type:" + key
		}
		return key
	default:
		return t.String()
	}
}

// NormalizeUnion builds a normalized union: nested unions flattened,
// structural duplicates removed, insertion order preserved. Members
// are deliberately not sorted: narrowing callers rely on a union's
// member order staying stable across a sequence of narrowing steps.
func NormalizeUnion(subtypes []Type) Type {
	flat := make([]Type, 0, len(subtypes))
	for _, t := range subtypes {
		if u, ok := t.(UnionType); ok {
			flat = append(flat, u.Subtypes...)
		} else if t != nil {
			flat = append(flat, t)
		}
	}

	seen := make(map[string]bool, len(flat))
	unique := make([]Type, 0, len(flat))
	for _, t := range flat {
		// Never is the additive identity for union: X | Never == X.
		// Dropping it here, rather than leaving it as a visible member,
		// is what lets narrowing's drop-this-subtype callbacks (which
		// map an eliminated subtype to NeverType) actually shrink the
		// union instead of just tagging one arm dead.
		if _, isNever := t.(NeverType); isNever {
			continue
		}
		key := structuralKey(t)
		if !seen[key] {
			seen[key] = true
			unique = append(unique, t)
		}
	}

	if len(unique) == 0 {
		return NeverType{}
	}
	if len(unique) == 1 {
		return unique[0]
	}
	return UnionType{Subtypes: unique}
}

// ForEachSubtype calls f once per subtype of t, or once with t itself
// when t is not a Union.
func ForEachSubtype(t Type, f func(Type)) {
	if u, ok := t.(UnionType); ok {
		for _, s := range u.Subtypes {
			f(s)
		}
		return
	}
	f(t)
}

// MapSubtypes rebuilds t by mapping f over every subtype and
// renormalizing the result.
func MapSubtypes(t Type, f func(Type) Type) Type {
	if u, ok := t.(UnionType); ok {
		mapped := make([]Type, len(u.Subtypes))
		for i, s := range u.Subtypes {
			mapped[i] = f(s)
		}
		return NormalizeUnion(mapped)
	}
	return f(t)
}

// MapSubtypesExpandTypeVars maps f over every subtype like
// MapSubtypes, except that a subtype which is itself a constrained
// TypeVar is expanded into each of its constraints before f runs, so
// narrowing and solver logic can treat "T: str | bytes" like a small
// union without the caller special-casing TypeVar.
func MapSubtypesExpandTypeVars(t Type, conditionFilter func(TypeVarType) bool, f func(expanded Type, unexpanded Type) Type) Type {
	return MapSubtypes(t, func(sub Type) Type {
		tv, ok := sub.(TypeVarType)
		if !ok || !tv.IsConstrained() || (conditionFilter != nil && !conditionFilter(tv)) {
			return f(sub, sub)
		}
		expanded := make([]Type, len(tv.Constraints))
		for i, c := range tv.Constraints {
			expanded[i] = f(c, sub)
		}
		return NormalizeUnion(expanded)
	})
}
