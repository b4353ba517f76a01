package treeutil

import "github.com/funvibe/typeeval/internal/tree"

// IsMatchingExpression reports whether reference and candidate are
// structurally equal under Name / MemberAccess(receiver, member) /
// Index(base, scalar), where scalar is restricted to an integer
// literal, a negated integer literal, or a string literal — any other
// index shape (a variable, a slice, a computed expression) returns
// false, since only those three shapes have a stable runtime identity
// that narrowing can safely key on.
func IsMatchingExpression(t *tree.Tree, reference, candidate tree.Index) bool {
	if reference == tree.NoIndex || candidate == tree.NoIndex {
		return false
	}
	rk, ck := t.KindOf(reference), t.KindOf(candidate)
	if rk != ck {
		return false
	}
	r, c := t.Get(reference), t.Get(candidate)
	switch rk {
	case tree.KindName:
		return r.Name == c.Name
	case tree.KindMemberAccess:
		return r.Member == c.Member && IsMatchingExpression(t, r.Receiver, c.Receiver)
	case tree.KindIndex:
		if !isMatchableScalar(t, r.IndexExpr) || !isMatchableScalar(t, c.IndexExpr) {
			return false
		}
		return scalarsEqual(t, r.IndexExpr, c.IndexExpr) && IsMatchingExpression(t, r.Base, c.Base)
	default:
		return false
	}
}

// isMatchableScalar restricts Index's subscript to the three shapes
// is_matching_expression recognizes.
func isMatchableScalar(t *tree.Tree, idx tree.Index) bool {
	if idx == tree.NoIndex {
		return false
	}
	n := t.Get(idx)
	switch n.Kind {
	case tree.KindNumber:
		return n.IsInt
	case tree.KindString:
		return true
	case tree.KindUnaryOp:
		if n.Op != "-" {
			return false
		}
		operand := t.Get(n.Operand)
		return operand.Kind == tree.KindNumber && operand.IsInt
	default:
		return false
	}
}

func scalarsEqual(t *tree.Tree, a, b tree.Index) bool {
	na, nb := t.Get(a), t.Get(b)
	if na.Kind != nb.Kind {
		return false
	}
	switch na.Kind {
	case tree.KindNumber:
		return na.IntValue == nb.IntValue
	case tree.KindString:
		return na.StringValue == nb.StringValue
	case tree.KindUnaryOp:
		return scalarsEqual(t, na.Operand, nb.Operand)
	default:
		return false
	}
}

// IsPartialMatchingExpression reports whether candidate is a strict
// prefix of reference under the same member-access / index chain
// IsMatchingExpression walks — e.g. `a.b` is a partial match of
// `a.b.c`, used to decide whether narrowing a.b.c must also invalidate
// a previously narrowed a.b.
func IsPartialMatchingExpression(t *tree.Tree, reference, candidate tree.Index) bool {
	cur := reference
	for cur != tree.NoIndex {
		parent := parentChainStep(t, cur)
		if parent == tree.NoIndex {
			break
		}
		if IsMatchingExpression(t, parent, candidate) {
			return true
		}
		cur = parent
	}
	return false
}

// parentChainStep returns the "one level shorter" expression in the
// member-access/index chain that cur sits at the tip of (its Receiver
// or Base), not cur's tree-parent node.
func parentChainStep(t *tree.Tree, cur tree.Index) tree.Index {
	n := t.Get(cur)
	switch n.Kind {
	case tree.KindMemberAccess:
		return n.Receiver
	case tree.KindIndex:
		return n.Base
	default:
		return tree.NoIndex
	}
}
