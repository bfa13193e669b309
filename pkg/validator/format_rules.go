package validator

import (
	"net/mail"
	"net/url"
	"regexp"
	"slices"
	"strings"
)

var (
	// E.164 with optional leading plus.
	phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

	alphanumericRegex  = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	alphaRegex         = regexp.MustCompile(`^[a-zA-Z]+$`)
	numericStringRegex = regexp.MustCompile(`^[0-9]+$`)
)

// Email accepts a bare RFC 5322 address whose domain has at least one dot.
func Email() Check {
	return func(value string) bool {
		addr, err := mail.ParseAddress(value)
		if err != nil || addr.Address != strings.TrimSpace(value) {
			return false
		}

		local, domain, ok := strings.Cut(addr.Address, "@")
		if !ok || local == "" {
			return false
		}
		if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
			return false
		}
		for part := range strings.SplitSeq(domain, ".") {
			if part == "" {
				return false
			}
		}
		return true
	}
}

// URL accepts absolute URLs with a host. When schemes are given the URL's
// scheme must be one of them.
func URL(schemes ...string) Check {
	return func(value string) bool {
		u, err := url.ParseRequestURI(value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return false
		}
		return len(schemes) == 0 || slices.Contains(schemes, u.Scheme)
	}
}

// Phone accepts international numbers; spaces and dashes are ignored.
func Phone() Check {
	return func(value string) bool {
		cleaned := strings.NewReplacer(" ", "", "-", "").Replace(value)
		if len(cleaned) < 7 {
			return false
		}
		return phoneRegex.MatchString(cleaned)
	}
}

// Alpha accepts ASCII letters only.
func Alpha() Check {
	return alphaRegex.MatchString
}

// Alphanumeric accepts ASCII letters and digits only.
func Alphanumeric() Check {
	return alphanumericRegex.MatchString
}

// Numeric accepts ASCII digits only. The value stays text.
func Numeric() Check {
	return numericStringRegex.MatchString
}
