package validator

import (
	"slices"

	"golang.org/x/text/cases"
)

// OneOf accepts only the listed options, compared exactly.
func OneOf(options ...string) Check {
	allowed := slices.Clone(options)
	return func(value string) bool {
		return slices.Contains(allowed, value)
	}
}

// OneOfFold accepts the listed options using Unicode case folding.
func OneOfFold(options ...string) Check {
	folder := cases.Fold()
	allowed := make([]string, len(options))
	for i, o := range options {
		allowed[i] = folder.String(o)
	}
	return func(value string) bool {
		return slices.Contains(allowed, cases.Fold().String(value))
	}
}

// NoneOf rejects the listed options, compared exactly.
func NoneOf(options ...string) Check {
	return Not(OneOf(options...))
}
