package form

import (
	"errors"
	"fmt"
)

var (
	ErrNoInputKeys       = errors.New("form: rule has no input keys")
	ErrEmptyKey          = errors.New("form: rule references an empty field key")
	ErrEmptyMessage      = errors.New("form: rule has no error message")
	ErrMissingPredicate  = errors.New("form: rule has no predicate")
	ErrPredicateMismatch = errors.New("form: predicate does not match rule mode")
	ErrUnknownMode       = errors.New("form: unknown rule mode")
)

// DefinitionError reports an invalid rule definition by registration index.
type DefinitionError struct {
	Index int
	Err   error
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("form: invalid rule definition[%d]: %v", e.Index, e.Err)
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// PredicateFault is the panic value raised when a predicate panics.
// A faulting predicate is a programming error, never a validation outcome.
type PredicateFault struct {
	RuleID int
	Key    string
	Value  any
}

func (f *PredicateFault) Error() string {
	if f.Key == "" {
		return fmt.Sprintf("form: predicate of rule %d panicked: %v", f.RuleID, f.Value)
	}
	return fmt.Sprintf("form: predicate of rule %d panicked for key %q: %v", f.RuleID, f.Key, f.Value)
}

// Unwrap returns the original panic value when it was an error.
func (f *PredicateFault) Unwrap() error {
	err, _ := f.Value.(error)
	return err
}

// IsDefinitionError reports whether err was caused by an invalid definition.
func IsDefinitionError(err error) bool {
	var e *DefinitionError
	return errors.As(err, &e)
}
