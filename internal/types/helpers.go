package types

// StripLiterals removes a literal value from every Class subtype,
// widening it to the plain class instance — the default behavior the
// solver applies to a covariant TypeVar's source unless retention is
// requested by flag, context, bound, or constraint.
func StripLiterals(t Type) Type {
	return MapSubtypes(t, func(sub Type) Type {
		if c, ok := sub.(ClassType); ok && c.Literal != nil {
			c.Literal = nil
			return c
		}
		return sub
	})
}

// HasLiteral reports whether any subtype of t carries a literal value.
func HasLiteral(t Type) bool {
	found := false
	ForEachSubtype(t, func(sub Type) {
		if c, ok := sub.(ClassType); ok && c.Literal != nil {
			found = true
		}
	})
	return found
}

// EnumerateLiterals lists the finite literal space of a class when it
// has one: bool has exactly two, and an enum class yields one literal
// per non-method member of its Fields table. Everything else reports
// not enumerable.
func EnumerateLiterals(c ClassType) ([]LiteralValue, bool) {
	if c.GenericClassKey == "bool" {
		return []LiteralValue{{Kind: LiteralBool, Bool: true}, {Kind: LiteralBool, Bool: false}}, true
	}
	if len(c.Fields) == 0 {
		return nil, false
	}
	// An enum class is recognized by its non-method fields being the
	// members; this package has no notion of protocol-ignored
	// members, so callers filter those out first.
	var out []LiteralValue
	for name, f := range c.Fields {
		if f.IsMethod {
			continue
		}
		out = append(out, LiteralValue{Kind: LiteralEnumMember, EnumMember: c.Name + "." + name})
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// IsFalsy/IsTruthy classify a type's compile-time truthiness for
// truthiness narrowing. Only None and literal-valued instances have a
// definite answer; everything else is indeterminate (definite is
// false).
func IsFalsy(t Type) (falsy bool, definite bool) {
	switch v := t.(type) {
	case NoneType:
		return true, true
	case ClassType:
		if v.Literal == nil {
			return false, false
		}
		switch v.Literal.Kind {
		case LiteralBool:
			return !v.Literal.Bool, true
		case LiteralInt:
			return v.Literal.Int == 0, true
		case LiteralStr:
			return v.Literal.Str == "", true
		case LiteralBytes:
			return v.Literal.Bytes == "", true
		default:
			return false, false
		}
	default:
		return false, false
	}
}

func IsTruthy(t Type) (truthy bool, definite bool) {
	falsy, definite := IsFalsy(t)
	return !falsy, definite
}

// ConvertToInstantiable converts an instance-form Class/TypeVar type
// to its instantiable (class-qua-class) form, used by the solver for
// destinations declared as `type[T]`.
func ConvertToInstantiable(t Type) (Type, bool) {
	switch v := t.(type) {
	case ClassType:
		if v.Literal != nil {
			return nil, false
		}
		return v.AsInstantiable(), true
	case TypeVarType:
		return v.AsInstantiable(), true
	case AnyType, UnknownType:
		return t, true
	case UnionType:
		converted := make([]Type, 0, len(v.Subtypes))
		for _, s := range v.Subtypes {
			c, ok := ConvertToInstantiable(s)
			if !ok {
				return nil, false
			}
			converted = append(converted, c)
		}
		return NormalizeUnion(converted), true
	default:
		return nil, false
	}
}
