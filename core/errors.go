package core

import (
	"errors"
	"fmt"
)

// Planning-invariant violation categories. These always surface as hard
// errors: a violation indicates a bug in a rule or in upstream state
// construction, and auto-correcting would hide it.
var (
	// ErrUnknownPattern reports a pattern outside the canonical set.
	ErrUnknownPattern = errors.New("unknown graph pattern")
	// ErrCompiledPattern reports the build-time compilation-variant name
	// leaking into a runtime plan.
	ErrCompiledPattern = errors.New("compilation-variant pattern is not a runtime pattern")
	// ErrNoAgents reports an agent list that is empty after normalization.
	ErrNoAgents = errors.New("plan has no agents")
	// ErrEntryPoint reports an entry point that is not a member of the
	// normalized agent list.
	ErrEntryPoint = errors.New("entry point not in agent list")
	// ErrLockMismatch reports a plan inconsistent with the effective route
	// lock.
	ErrLockMismatch = errors.New("plan inconsistent with route lock")
)

// PlanError wraps a planning-invariant violation with the offending plan
// details. It aborts only the current turn; the caller fixes the input
// before the next one.
type PlanError struct {
	Err     error
	Pattern string
	Detail  string
}

// Error implements the error interface.
func (e *PlanError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("invalid execution plan (pattern %q): %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("invalid execution plan (pattern %q): %v: %s", e.Pattern, e.Err, e.Detail)
}

// Unwrap exposes the violation category for errors.Is checks.
func (e *PlanError) Unwrap() error { return e.Err }

// NewPlanError builds a PlanError for the given category and plan pattern.
func NewPlanError(category error, pattern, detail string) *PlanError {
	return &PlanError{Err: category, Pattern: pattern, Detail: detail}
}
