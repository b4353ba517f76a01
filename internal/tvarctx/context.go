// Package tvarctx holds the per-solve type-variable context: the
// mapping from type-variable identity to its narrow/wide bounds and
// retain-literals flag, the parallel ParamSpec bindings table, the
// solve-for scope set, and a one-way lock. A Context lives for one
// assignability or call-argument matching task and is discarded when
// the task ends.
package tvarctx

import "github.com/funvibe/typeeval/internal/types"

// Entry is a single TypeVar's solver state.
type Entry struct {
	Narrow         types.Type
	Wide           types.Type
	RetainLiterals bool
}

// ParamSpecBinding is a bound parameter-spec destination.
type ParamSpecBinding struct {
	Parameters    []types.Parameter
	IsSynthesized bool
	TypeVarScopeID string
	ParamSpecRef  *types.ParamSpecRef
}

// Context is the solver's scratch state for one solve. Build one with
// New: a zero Context answers lookups (its solve-for scope set is
// empty, so it accepts no TypeVar), but its maps are nil, so adding a
// scope or a binding to it panics.
type Context struct {
	solveForScopes map[string]bool
	entries        map[string]Entry
	paramSpecs     map[string]ParamSpecBinding
	locked         bool
}

// New returns a Context whose solve-for set is exactly solveForScopes.
func New(solveForScopes ...string) *Context {
	c := &Context{
		solveForScopes: make(map[string]bool, len(solveForScopes)),
		entries:        make(map[string]Entry),
		paramSpecs:     make(map[string]ParamSpecBinding),
	}
	for _, s := range solveForScopes {
		c.solveForScopes[s] = true
	}
	return c
}

// AddSolveForScope extends the solve-for set. A no-op once locked.
func (c *Context) AddSolveForScope(scopeID string) {
	if c.locked {
		return
	}
	c.solveForScopes[scopeID] = true
}

// HasSolveForScope reports whether TypeVars defined at scopeID may be
// bound by this solve.
func (c *Context) HasSolveForScope(scopeID string) bool {
	return c.solveForScopes[scopeID]
}

func key(tv types.TypeVarType) string {
	return tv.ScopeID + "::" + tv.Name
}

// Get looks up a TypeVar's current bounds. ok is false on a miss.
func (c *Context) Get(tv types.TypeVarType) (Entry, bool) {
	e, ok := c.entries[key(tv)]
	return e, ok
}

// Concrete implements types.Resolver so a Context can be handed
// straight to types.Concretise: a TypeVar concretises to its narrow
// bound if present, else its wide bound, else it is left unresolved.
func (c *Context) Concrete(tv types.TypeVarType) (types.Type, bool) {
	e, ok := c.Get(tv)
	if !ok {
		return nil, false
	}
	if e.Narrow != nil {
		return e.Narrow, true
	}
	if e.Wide != nil {
		return e.Wide, true
	}
	return nil, false
}

// Set replaces a TypeVar's entry wholesale. Once locked this is a
// no-op: the solver treats a locked context as validate-only and a
// late write must not slip through.
func (c *Context) Set(tv types.TypeVarType, e Entry) {
	if c.locked {
		return
	}
	c.entries[key(tv)] = e
}

// GetParamSpec looks up a bound parameter-spec TypeVar.
func (c *Context) GetParamSpec(tv types.TypeVarType) (ParamSpecBinding, bool) {
	b, ok := c.paramSpecs[key(tv)]
	return b, ok
}

// SetParamSpec records a parameter-spec binding. No-op once locked.
func (c *Context) SetParamSpec(tv types.TypeVarType, b ParamSpecBinding) {
	if c.locked {
		return
	}
	c.paramSpecs[key(tv)] = b
}

// Lock seals the context: Set/SetParamSpec/AddSolveForScope become
// no-ops from this point on. There is deliberately no Unlock.
func (c *Context) Lock() {
	c.locked = true
}

// Locked reports whether the context has been sealed.
func (c *Context) Locked() bool {
	return c.locked
}
