package validator

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// leakedPasswords holds lowercased passwords that show up at the top of public
// breach dumps.
var leakedPasswords = func() map[string]struct{} {
	list := strings.Fields(`
		123456 1234567 12345678 123456789 1234567890 111111 000000 123123 654321
		password password1 password12 password123 passw0rd p@ssw0rd
		qwerty qwerty1 qwerty12 qwerty123 qwertyuiop asdfghjkl zxcvbnm 1q2w3e4r
		abc123 aa123456 iloveyou letmein welcome welcome1 monkey dragon sunshine
		princess football baseball master secret trustno1 shadow superman
		admin admin123 administrator root toor guest changeme default
	`)
	set := make(map[string]struct{}, len(list))
	for _, p := range list {
		set[p] = struct{}{}
	}
	return set
}()

// PasswordPolicy describes the character requirements for StrongPassword.
type PasswordPolicy struct {
	MinLength        int
	MaxLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireDigits    bool
	RequireSpecial   bool
	MinCharClasses   int
}

// DefaultPasswordPolicy requires 8-128 characters and 3 character classes.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:      8,
		MaxLength:      128,
		MinCharClasses: 3,
	}
}

type charClasses struct {
	upper, lower, digit, special bool
}

func (c charClasses) count() int {
	n := 0
	for _, has := range [...]bool{c.upper, c.lower, c.digit, c.special} {
		if has {
			n++
		}
	}
	return n
}

func classify(s string) charClasses {
	var c charClasses
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			c.upper = true
		case unicode.IsLower(r):
			c.lower = true
		case unicode.IsDigit(r):
			c.digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			c.special = true
		}
	}
	return c
}

// StrongPassword checks value against policy.
func StrongPassword(policy PasswordPolicy) Check {
	return func(value string) bool {
		n := utf8.RuneCountInString(value)
		if n < policy.MinLength || (policy.MaxLength > 0 && n > policy.MaxLength) {
			return false
		}

		c := classify(value)
		if policy.RequireUppercase && !c.upper ||
			policy.RequireLowercase && !c.lower ||
			policy.RequireDigits && !c.digit ||
			policy.RequireSpecial && !c.special {
			return false
		}
		return c.count() >= policy.MinCharClasses
	}
}

// Uppercase requires at least one uppercase letter.
func Uppercase() Check { return func(v string) bool { return classify(v).upper } }

// Lowercase requires at least one lowercase letter.
func Lowercase() Check { return func(v string) bool { return classify(v).lower } }

func Digit() Check { return func(v string) bool { return classify(v).digit } }

// SpecialChar requires at least one punctuation or symbol character.
func SpecialChar() Check { return func(v string) bool { return classify(v).special } }

// NotCommonPassword rejects well-known leaked passwords, ignoring case.
func NotCommonPassword() Check {
	return func(value string) bool {
		_, leaked := leakedPasswords[strings.ToLower(value)]
		return !leaked
	}
}
