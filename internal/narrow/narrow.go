// Package narrow is the narrowing engine: given a reference
// expression, a test expression known to have evaluated truthy or
// falsy on a control-flow edge, and that edge's polarity, it builds a
// pure Type-to-Type callback that refines any incoming type along
// that edge. The engine is a dispatch over the syntactic shape of the
// test expression; each recognized shape gets its own callback
// constructor.
package narrow

import (
	"github.com/funvibe/typeeval/internal/config"
	"github.com/funvibe/typeeval/internal/tree"
	"github.com/funvibe/typeeval/internal/treeutil"
	"github.com/funvibe/typeeval/internal/types"
)

// Callback is the narrowing closure produced once per predicate.
type Callback func(types.Type) types.Type

// identity is the conservative answer returned once recursion exceeds
// config.MaxTypeRecursionCount.
func identity(t types.Type) types.Type { return t }

// Builtins is the external built-in-lookup capability: the engine
// needs `object` and `type` identities to special-case a handful of
// test shapes.
type Builtins interface {
	Object() types.ClassType
	TypeClass() types.ClassType
}

// Engine bundles the parse tree and the external capabilities the
// dispatcher needs. Module feeds synthesized intersection classes a
// deterministic identity.
type Engine struct {
	Tree     *tree.Tree
	Builtins Builtins
	Module   string

	// Aliases maps a local variable name to the expression node it
	// was last assigned from in the same scope, so a test against a
	// plain name can narrow through the condition it aliases. Callers
	// populate this from their own binder; this package does not
	// itself track assignment history.
	Aliases map[string]tree.Index

	// ResolveExprType evaluates the type of an arbitrary expression
	// node that is not `reference` itself. Membership tests need it to
	// learn a container's or TypedDict's type, since the input to a
	// Callback only ever carries reference's own type.
	ResolveExprType func(tree.Index) (types.Type, bool)
}

// GetNarrowingCallback is the single entry point. ok is false when
// testExpr matches none of the recognized shapes.
func (e *Engine) GetNarrowingCallback(reference, testExpr tree.Index, isPositive bool, recursion int) (Callback, bool) {
	if recursion > config.MaxTypeRecursionCount {
		return identity, true
	}
	if testExpr == tree.NoIndex {
		return nil, false
	}

	n := e.Tree.Get(testExpr)

	switch n.Kind {
	case tree.KindAssignmentExpression: // walrus on the test
		// The walrus binds its Target to Value's result. The callback
		// is built against Value first; when Value yields none, it is
		// built against the bound Target name, so a reference to that
		// name narrows by truthiness.
		if cb, ok := e.GetNarrowingCallback(reference, n.Value, isPositive, recursion+1); ok {
			return cb, true
		}
		return e.GetNarrowingCallback(reference, n.Target, isPositive, recursion+1)

	case tree.KindUnaryOp: // `not x`: flip polarity and recurse
		if n.Op == "not" {
			if inner := e.Tree.Get(n.Operand); inner.Kind == tree.KindName {
				return e.GetNarrowingCallback(reference, n.Operand, !isPositive, recursion+1)
			}
		}

	case tree.KindBinaryOp:
		if cb, ok := e.dispatchBinary(reference, testExpr, n, isPositive, recursion); ok {
			return cb, true
		}

	case tree.KindCall:
		if cb, ok := e.dispatchCall(reference, testExpr, n, isPositive, recursion); ok {
			return cb, true
		}

	case tree.KindName:
		// Aliased condition first, then truthiness on the reference itself.
		if alias, ok := e.Aliases[n.Name]; ok && !e.matches(reference, testExpr) {
			if cb, ok := e.GetNarrowingCallback(reference, alias, isPositive, recursion+1); ok {
				return cb, true
			}
		}
		if e.matches(reference, testExpr) {
			return truthinessCallback(isPositive), true
		}
	}

	// Truthiness on the reference itself, for any shape not already
	// recognized above whose evaluated expression *is* the reference.
	if e.matches(reference, testExpr) {
		return truthinessCallback(isPositive), true
	}

	return nil, false
}

func (e *Engine) matches(reference, candidate tree.Index) bool {
	return treeutil.IsMatchingExpression(e.Tree, reference, candidate)
}

func truthinessCallback(isPositive bool) Callback {
	return func(t types.Type) types.Type {
		return types.MapSubtypes(t, func(sub types.Type) types.Type {
			falsy, definite := types.IsFalsy(sub)
			if !definite {
				return sub
			}
			if isPositive && falsy {
				return types.NeverType{}
			}
			if !isPositive && !falsy {
				return types.NeverType{}
			}
			return sub
		})
	}
}
