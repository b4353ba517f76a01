// Package solver is the constraint solver: given a destination
// TypeVar (or ParamSpec) and a concrete source type, it computes or
// updates the bindings in a tvarctx.Context so that the source is
// assignable to the destination, respecting variance, bounds,
// constraints, and literal-retention rules. It consumes the caller's
// assignability judgment as a capability and is itself called back by
// that judgment.
package solver

import (
	"github.com/funvibe/typeeval/internal/config"
	"github.com/funvibe/typeeval/internal/diagnostics"
	"github.com/funvibe/typeeval/internal/tvarctx"
	"github.com/funvibe/typeeval/internal/types"
)

// Flags adjusts how a single assignment is solved.
type Flags uint16

const (
	Default Flags = 0

	ReverseTypeVarMatching Flags = 1 << iota // contravariant
	SkipSolveTypeVars
	IgnoreTypeVarScope
	AllowTypeVarNarrowing
	RetainLiteralsForTypeVar
	PopulatingExpectedType
)

func (f Flags) has(bit Flags) bool { return f&bit != 0 }

// AssignFunc is the external assignability judgment: the solver
// calls it recursively and is itself called back by it. Recursion is
// the caller-threaded counter both sides poll.
type AssignFunc func(dest, src types.Type, sink diagnostics.Sink, destCtx, srcCtx *tvarctx.Context, flags Flags, recursion int) bool

func newObjectInstance() types.ClassType {
	c := types.NewClassInstance("object")
	c.IsBuiltin = true
	return c
}

// withinRecursionLimit reports whether recursion hasn't yet exceeded
// config.MaxTypeRecursionCount. The solver's contract on overflow is
// a conservative success, to guarantee termination on cyclic aliases.
func withinRecursionLimit(recursion int) bool {
	return recursion <= config.MaxTypeRecursionCount
}
