package validator

import (
	"regexp"
	"strings"
	"unicode"
)

// Matches requires value to match re.
func Matches(re *regexp.Regexp) Check {
	return re.MatchString
}

// MatchesPattern compiles pattern and requires value to match it.
// Panics on an invalid pattern, like regexp.MustCompile.
func MatchesPattern(pattern string) Check {
	return Matches(regexp.MustCompile(pattern))
}

// NoWhitespace rejects values containing any whitespace.
func NoWhitespace() Check {
	return func(value string) bool {
		return !strings.ContainsFunc(value, unicode.IsSpace)
	}
}

// NoControlChars rejects values containing control characters.
func NoControlChars() Check {
	return func(value string) bool {
		return !strings.ContainsFunc(value, unicode.IsControl)
	}
}
