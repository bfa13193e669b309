package validator

import "unicode/utf8"

// MinLen requires at least min characters.
func MinLen(min int) Check {
	return func(value string) bool {
		return utf8.RuneCountInString(value) >= min
	}
}

// MaxLen allows at most max characters.
func MaxLen(max int) Check {
	return func(value string) bool {
		return utf8.RuneCountInString(value) <= max
	}
}

// Len requires exactly n characters.
func Len(n int) Check {
	return func(value string) bool {
		return utf8.RuneCountInString(value) == n
	}
}

// LenBetween requires between min and max characters inclusive.
func LenBetween(min, max int) Check {
	return And(MinLen(min), MaxLen(max))
}
