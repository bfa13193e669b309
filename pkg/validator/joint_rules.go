package validator

import (
	"golang.org/x/text/cases"

	"github.com/dmitrymomot/formkit/pkg/form"
)

// Equal passes when every key holds the same value. Absence counts as a
// value, so all keys absent pass and one absent key fails.
func Equal(keys ...string) form.JointPredicate {
	return func(values form.Values) form.Outcome {
		if len(keys) < 2 {
			return form.Pass
		}
		first, firstOK := values.Get(keys[0])
		for _, k := range keys[1:] {
			v, ok := values.Get(k)
			if ok != firstOK || v != first {
				return form.Fail
			}
		}
		return form.Pass
	}
}

// EqualFold works like Equal but compares values under Unicode case folding.
func EqualFold(keys ...string) form.JointPredicate {
	return func(values form.Values) form.Outcome {
		if len(keys) < 2 {
			return form.Pass
		}
		fold := cases.Fold()
		first, firstOK := values.Get(keys[0])
		first = fold.String(first)
		for _, k := range keys[1:] {
			v, ok := values.Get(k)
			if ok != firstOK || fold.String(v) != first {
				return form.Fail
			}
		}
		return form.Pass
	}
}

// RequiredWith fails when trigger holds a value but key does not.
func RequiredWith(key, trigger string) form.JointPredicate {
	return func(values form.Values) form.Outcome {
		if values.Has(trigger) && !values.Has(key) {
			return form.Fail
		}
		return form.Pass
	}
}

// AnyPresent passes when at least one of keys holds a value.
func AnyPresent(keys ...string) form.JointPredicate {
	return func(values form.Values) form.Outcome {
		for _, k := range keys {
			if values.Has(k) {
				return form.Pass
			}
		}
		return form.Fail
	}
}
