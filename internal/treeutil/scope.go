// Package treeutil implements the parse-tree predicates the solver
// and narrowing engine query against: scope lookup, structural
// matching-expression equality, write-access detection, docstring
// recognition, statement ranges, and call-argument mapping. Every
// function here is a bounded parent-chain or child walk over a
// tree.Tree; none of them mutate the tree.
package treeutil

import "github.com/funvibe/typeeval/internal/tree"

// ScopeKind is the enclosing_scope kind filter.
type ScopeKind int

const (
	ScopeFunction ScopeKind = iota
	ScopeLambda
	ScopeClass
	ScopeModule
	ScopeListComprehension
)

func matchesScopeKind(k tree.Kind, want ScopeKind) bool {
	switch want {
	case ScopeFunction:
		return k == tree.KindFunction
	case ScopeLambda:
		return k == tree.KindLambda
	case ScopeClass:
		return k == tree.KindClass
	case ScopeModule:
		return k == tree.KindModule
	case ScopeListComprehension:
		return k == tree.KindListComprehension
	default:
		return false
	}
}

// EnclosingScope returns the nearest strict ancestor of node whose
// kind is want. A decorator expression is not considered "inside" the
// function/class it decorates, but decorator nodes live outside the
// decorated node's Body in this tree shape (they hang off Decorators,
// never as an ancestor of Body), so no extra exclusion is needed here
// beyond the plain parent walk.
func EnclosingScope(t *tree.Tree, node tree.Index, want ScopeKind) tree.Index {
	for cur := t.ParentOf(node); cur != tree.NoIndex; cur = t.ParentOf(cur) {
		if matchesScopeKind(t.KindOf(cur), want) {
			return cur
		}
	}
	return tree.NoIndex
}

// EvaluationScope returns the lexical scope whose symbol table
// resolves free references at node. Two rules apply beyond "nearest
// enclosing scope":
//
//   - comprehension-leakage: the iterable of a list comprehension's
//     outermost clause is evaluated in the scope enclosing the
//     comprehension, not inside it (Python leaks that one iterable to
//     the surrounding scope even though the loop variable is private
//     to the comprehension);
//   - class bodies are skipped: a reference inside a function nested
//     in a class body does not resolve against the class's own
//     namespace, only module/function scopes do.
func EvaluationScope(t *tree.Tree, node tree.Index) tree.Index {
	if p := t.ParentOf(node); p != tree.NoIndex && t.KindOf(p) == tree.KindCompClause {
		clause := t.Get(p)
		if clause.IsFirstClause && node == clause.Iter {
			comp := t.ParentOf(p)
			return evaluationScopeFrom(t, t.ParentOf(comp))
		}
	}
	return evaluationScopeFrom(t, node)
}

func evaluationScopeFrom(t *tree.Tree, node tree.Index) tree.Index {
	for cur := node; cur != tree.NoIndex; cur = t.ParentOf(cur) {
		switch t.KindOf(cur) {
		case tree.KindFunction, tree.KindLambda, tree.KindModule, tree.KindListComprehension:
			return cur
		case tree.KindClass:
			continue
		}
	}
	return tree.NoIndex
}
