package narrow

import (
	"github.com/funvibe/typeeval/internal/tree"
	"github.com/funvibe/typeeval/internal/types"
)

var containerGenericKeys = map[string]bool{
	"list": true, "set": true, "frozenset": true, "deque": true,
	"tuple": true, "dict": true, "defaultdict": true, "OrderedDict": true,
}

// dispatchMembership covers `x in C` / `x not in C` and the
// TypedDict key test `k in td` / `k not in td`, both syntactically an
// `in`/`not in` BinaryOp but discriminated by which side is the
// literal.
func (e *Engine) dispatchMembership(reference, left, right tree.Index, positive bool, recursion int) (Callback, bool) {
	if e.matches(reference, left) {
		if cb, ok := e.containerMembershipCallback(right, positive); ok {
			return cb, true
		}
	}
	if lit, ok := e.literalValueOf(left); ok && lit.Kind == types.LiteralStr && e.matches(reference, right) {
		return e.typedDictKeyCallback(lit.Str, positive), true
	}
	return nil, false
}

// containerMembershipCallback narrows `x in C`. Positive narrowing
// keeps a reference subtype when it is a supertype or subtype of the
// container's element type (literal-stripped when treated as a
// supertype test, since `x in [1, 2]` narrowing `int` shouldn't
// require the literal to match); negative never narrows.
func (e *Engine) containerMembershipCallback(containerExpr tree.Index, positive bool) (Callback, bool) {
	if !positive {
		return func(t types.Type) types.Type { return t }, true
	}
	if e.ResolveExprType == nil {
		return nil, false
	}
	containerType, ok := e.ResolveExprType(containerExpr)
	if !ok {
		return nil, false
	}
	elem, ok := containerElementType(containerType)
	if !ok {
		return nil, false
	}

	return func(t types.Type) types.Type {
		return types.MapSubtypes(t, func(sub types.Type) types.Type {
			if types.IsAnyOrUnknown(sub) {
				return sub
			}
			subC, subOK := sub.(types.ClassType)
			elemC, elemOK := elem.(types.ClassType)
			if subOK && elemOK {
				strippedSub := types.StripLiterals(subC).(types.ClassType)
				if strippedSub.SameGenericClass(elemC) || strippedSub.IsAncestorOf(elemC) || strippedSub.IsDescendantOf(elemC) {
					return sub
				}
				return types.NeverType{}
			}
			return sub
		})
	}, true
}

// containerElementType reads the single element type out of a
// container class's TypeArguments (dict's key type, for `k in d`).
func containerElementType(t types.Type) (types.Type, bool) {
	c, ok := t.(types.ClassType)
	if !ok || !containerGenericKeys[c.GenericClassKey] || len(c.TypeArguments) == 0 {
		return nil, false
	}
	return c.TypeArguments[0], true
}

// typedDictKeyCallback narrows `k in td`. Positive keeps TypedDicts that
// declare key k, marking an optional key "provided" in the narrowed
// map and dropping final TypedDicts that lack it entirely. Negative
// drops subtypes where the key is already required or has been
// marked provided.
func (e *Engine) typedDictKeyCallback(key string, positive bool) Callback {
	return func(t types.Type) types.Type {
		return types.MapSubtypes(t, func(sub types.Type) types.Type {
			c, ok := sub.(types.ClassType)
			if !ok || !c.IsTypedDict {
				return sub
			}
			entry, declared := c.NarrowedEntry(key)
			if positive {
				if !declared {
					if c.IsFinal {
						return types.NeverType{}
					}
					return sub
				}
				if !entry.IsRequired && !entry.IsProvided {
					entry.IsProvided = true
					return c.WithNarrowedEntry(key, entry)
				}
				return sub
			}
			if declared && (entry.IsRequired || entry.IsProvided) {
				return types.NeverType{}
			}
			return sub
		})
	}
}
