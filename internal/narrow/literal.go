package narrow

import (
	"strings"

	"github.com/funvibe/typeeval/internal/tree"
	"github.com/funvibe/typeeval/internal/types"
)

// literalValueOf extracts a types.LiteralValue directly from the
// syntax of a constant expression node, the bool/int/str literals the
// comparison shapes test against. Enum-member
// literals (`Color.RED`) are recognized as a MemberAccess whose
// receiver is a bare Name, read as "<ClassName>.<Member>" without
// consulting any symbol table — good enough to key a comparison
// without needing the checker's own binder.
func (e *Engine) literalValueOf(idx tree.Index) (types.LiteralValue, bool) {
	n := e.Tree.Get(idx)
	switch n.Kind {
	case tree.KindConstant:
		switch n.ConstKind {
		case tree.ConstTrue:
			return types.LiteralValue{Kind: types.LiteralBool, Bool: true}, true
		case tree.ConstFalse:
			return types.LiteralValue{Kind: types.LiteralBool, Bool: false}, true
		}
	case tree.KindNumber:
		if n.IsInt {
			return types.LiteralValue{Kind: types.LiteralInt, Int: n.IntValue}, true
		}
	case tree.KindString:
		return types.LiteralValue{Kind: types.LiteralStr, Str: n.StringValue}, true
	case tree.KindMemberAccess:
		if recv := e.Tree.Get(n.Receiver); recv.Kind == tree.KindName {
			return types.LiteralValue{Kind: types.LiteralEnumMember, EnumMember: recv.Name + "." + n.Member}, true
		}
	}
	return types.LiteralValue{}, false
}

func classKeyForLiteral(lit types.LiteralValue) string {
	switch lit.Kind {
	case types.LiteralBool:
		return "bool"
	case types.LiteralInt:
		return "int"
	case types.LiteralStr:
		return "str"
	case types.LiteralBytes:
		return "bytes"
	case types.LiteralEnumMember:
		if i := strings.IndexByte(lit.EnumMember, '.'); i >= 0 {
			return lit.EnumMember[:i]
		}
	}
	return ""
}

// literalComparisonCallback narrows a direct literal comparison
// against the reference, subtype by subtype: a literal-bearing
// subtype of the same class survives by value match, a bare subtype
// of the same class takes the literal on the positive branch (or the
// complement of an enumerable literal space on the negative one), and
// everything else drops on `is` or stays put.
func literalComparisonCallback(lit types.LiteralValue, positive bool) Callback {
	targetKey := classKeyForLiteral(lit)
	return func(t types.Type) types.Type {
		return types.MapSubtypes(t, func(sub types.Type) types.Type {
			c, ok := sub.(types.ClassType)
			if !ok || c.GenericClassKey != targetKey {
				if positive {
					return types.NeverType{}
				}
				return sub
			}
			if c.Literal != nil {
				matches := c.Literal.Equal(lit)
				if positive == matches {
					return sub
				}
				return types.NeverType{}
			}
			if positive {
				litCopy := lit
				narrowed := c
				narrowed.Literal = &litCopy
				return narrowed
			}
			literals, enumerable := types.EnumerateLiterals(c)
			if !enumerable {
				return sub
			}
			var remaining []types.Type
			for _, l := range literals {
				if l.Equal(lit) {
					continue
				}
				lv := l
				rc := c
				rc.Literal = &lv
				remaining = append(remaining, rc)
			}
			return types.NormalizeUnion(remaining)
		})
	}
}

// literalTypeMatch reports whether declared, a literal type or a
// union made up entirely of literal types, can equal lit.
// discriminable is false when declared has no such shape to compare
// at all, in which case the caller leaves the subtype alone.
func literalTypeMatch(declared types.Type, lit types.LiteralValue) (accepts, discriminable bool) {
	switch v := declared.(type) {
	case types.ClassType:
		if v.Literal == nil {
			return false, false
		}
		return v.Literal.Equal(lit), true
	case types.UnionType:
		for _, m := range v.Subtypes {
			c, ok := m.(types.ClassType)
			if !ok || c.Literal == nil {
				return false, false
			}
		}
		for _, m := range v.Subtypes {
			if m.(types.ClassType).Literal.Equal(lit) {
				return true, true
			}
		}
		return false, true
	default:
		return false, false
	}
}

// memberLiteralCallback narrows `x.m == L` / `x.m is L`,
// discriminating on a literal-typed field.
func (e *Engine) memberLiteralCallback(reference, side tree.Index, lit types.LiteralValue, positive bool) (Callback, bool) {
	m := e.Tree.Get(side)
	if m.Kind != tree.KindMemberAccess || !e.matches(reference, m.Receiver) {
		return nil, false
	}
	member := m.Member
	return func(t types.Type) types.Type {
		return types.MapSubtypes(t, func(sub types.Type) types.Type {
			c, ok := sub.(types.ClassType)
			if !ok {
				return sub
			}
			f, ok := c.Fields[member]
			if !ok {
				return sub
			}
			accepts, discriminable := literalTypeMatch(f.Type, lit)
			if !discriminable {
				return sub
			}
			if accepts == positive {
				return sub
			}
			return types.NeverType{}
		})
	}, true
}

// indexLiteralCallback narrows `x[k] == L` for a string-literal key
// (TypedDict discriminator) or an integer-literal index (tuple
// discriminator).
func (e *Engine) indexLiteralCallback(reference, side tree.Index, lit types.LiteralValue, positive bool) (Callback, bool) {
	idx := e.Tree.Get(side)
	if idx.Kind != tree.KindIndex || !e.matches(reference, idx.Base) {
		return nil, false
	}
	key := e.Tree.Get(idx.IndexExpr)

	if key.Kind == tree.KindString {
		k := key.StringValue
		return func(t types.Type) types.Type {
			return types.MapSubtypes(t, func(sub types.Type) types.Type {
				c, ok := sub.(types.ClassType)
				if !ok || !c.IsTypedDict {
					return sub
				}
				entry, ok := c.NarrowedEntry(k)
				if !ok {
					return sub
				}
				accepts, discriminable := literalTypeMatch(entry.ValueType, lit)
				if !discriminable {
					return sub
				}
				if accepts == positive {
					return sub
				}
				return types.NeverType{}
			})
		}, true
	}

	if key.Kind == tree.KindNumber && key.IsInt {
		i := int(key.IntValue)
		return func(t types.Type) types.Type {
			return types.MapSubtypes(t, func(sub types.Type) types.Type {
				c, ok := sub.(types.ClassType)
				if !ok || !c.IsTupleClass || c.TupleArguments == nil || i >= len(c.TupleArguments) {
					return sub
				}
				accepts, discriminable := literalTypeMatch(c.TupleArguments[i].Type, lit)
				if !discriminable {
					return sub
				}
				if accepts == positive {
					return sub
				}
				return types.NeverType{}
			})
		}, true
	}
	return nil, false
}
