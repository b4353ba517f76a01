package config

// IsTestMode indicates the evaluator is running under the test suite.
// No code in this module reads it; String() output is the same with
// or without it.
var IsTestMode = false

// IsLSPMode indicates the evaluator is running behind a language
// server front end. Like IsTestMode, nothing in this module reads it.
var IsLSPMode = false

// MaxTypeRecursionCount bounds every recursive entry point in the
// solver and narrowing engine. Exceeding it returns a conservative
// answer instead of looping forever on a cyclic recursive type alias.
const MaxTypeRecursionCount = 32

// MaxSubtypesForInferredType is the pathological-union guard
// threshold: once a TypeVar's narrow bound accumulates more
// than this many union subtypes and the destination declares a bound,
// the solver widens straight to object instead of growing the union
// further.
const MaxSubtypesForInferredType = 64
