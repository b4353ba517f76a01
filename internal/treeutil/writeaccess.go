package treeutil

import "github.com/funvibe/typeeval/internal/tree"

// IsWriteAccess reports whether name sits in a binding position: the
// left of assignment or augmented assignment, a walrus target, a for
// or comprehension-for target, an except-as or with-as target, a del
// target, or an import-as alias.
func IsWriteAccess(t *tree.Tree, name tree.Index) bool {
	parent := t.ParentOf(name)
	if parent == tree.NoIndex {
		return false
	}
	p := t.Get(parent)
	switch p.Kind {
	case tree.KindAssignmentExpression, tree.KindFor, tree.KindCompClause,
		tree.KindExceptHandler, tree.KindWithItem, tree.KindImportAlias, tree.KindAugAssignment:
		return p.Target == name
	case tree.KindAssignment, tree.KindDel:
		return containsIndex(p.Targets, name)
	default:
		return false
	}
}

func containsIndex(xs []tree.Index, want tree.Index) bool {
	for _, x := range xs {
		if x == want {
			return true
		}
	}
	return false
}
