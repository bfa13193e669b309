package rulefile

import (
	"errors"
	"fmt"
)

var (
	ErrFailedToReadFile  = errors.New("failed to read rule file")
	ErrFailedToParseYAML = errors.New("failed to parse rule document")
	ErrNoRules           = errors.New("rule document has no rules")

	ErrUnknownMode  = errors.New("unknown rule mode")
	ErrUnknownCheck = errors.New("unknown check")
	ErrMissingParam = errors.New("missing check parameter")
	ErrInvalidParam = errors.New("invalid check parameter")
)

// RuleError reports which document entry could not be compiled.
type RuleError struct {
	Index int
	Check string
	Err   error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rulefile: rule %d (%s): %v", e.Index, e.Check, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}
