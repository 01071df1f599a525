package syntax

import (
	"errors"
	"fmt"
)

// Sentinel errors. The typed errors below wrap them, so callers may test
// with errors.Is as well as errors.As.
var (
	ErrDuplicateName     = errors.New("duplicate rule name")
	ErrDanglingReference = errors.New("dangling rule reference")
	ErrInvalidRule       = errors.New("invalid rule")
	ErrFinalized         = errors.New("catalog already finalized")
)

// DuplicateNameError is returned by Register for a name already in the catalog.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("rule %q: %v", e.Name, ErrDuplicateName)
}

func (e *DuplicateNameError) Unwrap() error { return ErrDuplicateName }

// DanglingReferenceError is returned by Finalize when a rule contains a rule
// that was never registered.
type DanglingReferenceError struct {
	Rule    string
	Missing string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("rule %q contains %q: %v", e.Rule, e.Missing, ErrDanglingReference)
}

func (e *DanglingReferenceError) Unwrap() error { return ErrDanglingReference }

// OrphanRuleWarning reports a contained-only rule that no other rule
// contains. Such a rule can never match. It is not fatal.
type OrphanRuleWarning struct {
	Rule string
}

func (w *OrphanRuleWarning) Error() string {
	return fmt.Sprintf("rule %q is contained-only but no rule contains it", w.Rule)
}

// PatternError wraps a regular expression that failed to compile.
type PatternError struct {
	Rule  string
	Field string // "pattern", "start" or "end"
	Err   error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("rule %q: bad %s: %v", e.Rule, e.Field, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// InvalidRuleError is returned for a rule missing what its kind needs.
type InvalidRuleError struct {
	Rule   string
	Reason string
}

func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("rule %q: %v: %s", e.Rule, ErrInvalidRule, e.Reason)
}

func (e *InvalidRuleError) Unwrap() error { return ErrInvalidRule }
