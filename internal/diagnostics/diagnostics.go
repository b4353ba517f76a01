// Package diagnostics is the sink the solver and narrowing engine
// report irreducible failures and internal inconsistencies to.
// Positions are byte offsets; tree.Node carries Start/End for them.
package diagnostics

import "fmt"

// Phase names which engine raised the diagnostic.
type Phase string

const (
	PhaseSolver   Phase = "solver"
	PhaseNarrowing Phase = "narrowing"
)

type ErrorCode string

const (
	// Solver (W = widening/bounds) codes.
	ErrW001 ErrorCode = "W001" // TypeVar scope mismatch
	ErrW002 ErrorCode = "W002" // constrained TypeVar: no constraint accepts the source
	ErrW003 ErrorCode = "W003" // constrained TypeVar: subtypes map to different constraints
	ErrW004 ErrorCode = "W004" // locked context: cannot widen narrow bound
	ErrW005 ErrorCode = "W005" // variadic destination: cannot widen
	ErrW006 ErrorCode = "W006" // new binding incompatible with current narrow bound
	ErrW007 ErrorCode = "W007" // contravariant wide-bound tightening incompatible with narrow
	ErrW008 ErrorCode = "W008" // bound check: surviving bound not assignable to declared bound
	ErrW009 ErrorCode = "W009" // destination not effectively instantiable
	ErrW010 ErrorCode = "W010" // param spec re-binding does not match existing parameter list

	// Narrowing-engine internal-inconsistency (N) codes.
	ErrN001 ErrorCode = "N001" // recursion depth exceeded
	ErrN002 ErrorCode = "N002" // filter type with no recognizable shape
)

var errorTemplates = map[ErrorCode]string{
	ErrW001: "type variable %s is out of scope for this solve",
	ErrW002: "no constraint of %s accepts %s",
	ErrW003: "%s cannot be resolved: source subtypes map to different constraints of %s",
	ErrW004: "cannot widen %s: destination context is locked",
	ErrW005: "cannot widen %s: destination is variadic",
	ErrW006: "%s is not assignable to the current binding of %s",
	ErrW007: "%s cannot tighten the wide bound of %s: incompatible with its narrow bound",
	ErrW008: "%s is not assignable to the declared bound of %s",
	ErrW009: "%s is not effectively instantiable for destination %s",
	ErrW010: "parameter list for %s does not match its existing binding",
	ErrN001: "recursion depth exceeded while narrowing %s",
	ErrN002: "could not extract a filter type from %s",
}

// Addendum is a nested detail attached to a DiagnosticError. The
// solver and the narrowing engine in this module report plain
// DiagnosticErrors and attach no addenda of their own.
type Addendum struct {
	Text  string
	Nested []Addendum
}

type DiagnosticError struct {
	Code      ErrorCode
	Phase     Phase
	Args      []interface{}
	Offset    int
	Addenda   []Addendum
}

func (e *DiagnosticError) Error() string {
	template, ok := errorTemplates[e.Code]
	if !ok {
		return fmt.Sprintf("unknown error code: %s", e.Code)
	}
	message := fmt.Sprintf(template, e.Args...)

	phaseStr := ""
	if e.Phase != "" {
		phaseStr = fmt.Sprintf("[%s] ", e.Phase)
	}

	var result string
	if e.Offset > 0 {
		result = fmt.Sprintf("%sat %d [%s]: %s", phaseStr, e.Offset, e.Code, message)
	} else {
		result = fmt.Sprintf("%s[%s]: %s", phaseStr, e.Code, message)
	}
	return result
}

func NewSolverError(code ErrorCode, offset int, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{Code: code, Phase: PhaseSolver, Offset: offset, Args: args}
}

func NewNarrowingError(code ErrorCode, offset int, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{Code: code, Phase: PhaseNarrowing, Offset: offset, Args: args}
}

// Sink receives diagnostics as they are produced. Callers may pass
// nil to suppress diagnostics entirely (the solver treats a nil Sink
// the same as a no-op sink).
type Sink interface {
	AddMessage(err *DiagnosticError)
	AddAddendum(a Addendum)
}

// CollectingSink is the Sink implementation the scenario runner and
// tests use: it just appends everything reported to it.
type CollectingSink struct {
	Messages []*DiagnosticError
	Addenda  []Addendum
}

func (c *CollectingSink) AddMessage(err *DiagnosticError) {
	c.Messages = append(c.Messages, err)
}

func (c *CollectingSink) AddAddendum(a Addendum) {
	c.Addenda = append(c.Addenda, a)
}

// Report is a nil-safe helper so call sites don't have to check their
// Sink for nil before every call.
func Report(sink Sink, err *DiagnosticError) {
	if sink == nil {
		return
	}
	sink.AddMessage(err)
}
