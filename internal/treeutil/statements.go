package treeutil

import "github.com/funvibe/typeeval/internal/tree"

// IsDocstring reports whether idx is a bare string expression sitting
// first in the Body of a Module, Class, or Function.
func IsDocstring(t *tree.Tree, idx tree.Index) bool {
	if t.KindOf(idx) != tree.KindString {
		return false
	}
	parent := t.ParentOf(idx)
	if parent == tree.NoIndex {
		return false
	}
	switch t.KindOf(parent) {
	case tree.KindModule, tree.KindClass, tree.KindFunction:
	default:
		return false
	}
	body := t.Get(parent).Body
	return len(body) > 0 && body[0] == idx
}

// StatementRange returns the [start, end) byte offsets of the
// smallest statement-like node (Assignment, AugAssignment, walrus,
// For, Try, With, Del, or a bare top-level expression) enclosing
// leaf, walking up from leaf until one is found.
func StatementRange(t *tree.Tree, leaf tree.Index) (start, end int, ok bool) {
	for cur := leaf; cur != tree.NoIndex; cur = t.ParentOf(cur) {
		switch t.KindOf(cur) {
		case tree.KindAssignment, tree.KindAugAssignment, tree.KindAssignmentExpression,
			tree.KindFor, tree.KindTry, tree.KindWith, tree.KindDel:
			n := t.Get(cur)
			return n.Start, n.End, true
		case tree.KindModule, tree.KindFunction, tree.KindClass:
			// Reached an enclosing scope without finding a statement
			// node above leaf: leaf itself is the statement.
			n := t.Get(leaf)
			return n.Start, n.End, true
		}
	}
	n := t.Get(leaf)
	return n.Start, n.End, true
}

// ActiveArgument maps a byte offset within a Call's argument list to
// its zero-based argument index. fake reports whether offset falls
// past the last written argument (cursor positioned for a not-yet-
// typed next argument, e.g. right after a trailing comma) — callers
// use that to offer completions for the next parameter rather than
// the last one. An offset before or between written arguments maps to
// the argument that follows it.
func ActiveArgument(t *tree.Tree, call tree.Index, offset int) (index int, fake bool, ok bool) {
	if t.KindOf(call) != tree.KindCall {
		return 0, false, false
	}
	args := t.Get(call).Args
	if len(args) == 0 {
		return 0, true, true
	}
	for i, a := range args {
		n := t.Get(a)
		if offset <= n.End {
			return i, false, true
		}
	}
	return len(args), true, true
}
