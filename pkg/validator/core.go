package validator

import "github.com/dmitrymomot/formkit/pkg/form"

// Check reports whether a present, non-blank value satisfies a constraint.
type Check func(value string) bool

// Field lifts check into an isolated predicate. Absent fields are Indeterminate.
func Field(check Check) form.IsolatedPredicate {
	return func(values form.Values, key string) form.Outcome {
		v, ok := values.Get(key)
		if !ok {
			return form.Indeterminate
		}
		return form.Check(check(v))
	}
}

// Optional lifts check into an isolated predicate that passes for absent fields.
func Optional(check Check) form.IsolatedPredicate {
	return func(values form.Values, key string) form.Outcome {
		v, ok := values.Get(key)
		if !ok {
			return form.Pass
		}
		return form.Check(check(v))
	}
}

// Required fails when the field holds no value.
func Required() form.IsolatedPredicate {
	return func(values form.Values, key string) form.Outcome {
		return form.Check(values.Has(key))
	}
}

// Value lifts check into a joint predicate over key. Absent key is Indeterminate.
func Value(key string, check Check) form.JointPredicate {
	return func(values form.Values) form.Outcome {
		v, ok := values.Get(key)
		if !ok {
			return form.Indeterminate
		}
		return form.Check(check(v))
	}
}

// OptionalValue lifts check into a joint predicate over key that passes when
// key is absent.
func OptionalValue(key string, check Check) form.JointPredicate {
	return func(values form.Values) form.Outcome {
		v, ok := values.Get(key)
		if !ok {
			return form.Pass
		}
		return form.Check(check(v))
	}
}

// All combines isolated predicates. The first non-passing outcome wins.
func All(preds ...form.IsolatedPredicate) form.IsolatedPredicate {
	return func(values form.Values, key string) form.Outcome {
		for _, p := range preds {
			if out := p(values, key); out != form.Pass {
				return out
			}
		}
		return form.Pass
	}
}

// And combines checks; every check must hold.
func And(checks ...Check) Check {
	return func(value string) bool {
		for _, c := range checks {
			if !c(value) {
				return false
			}
		}
		return true
	}
}

// Not negates check.
func Not(check Check) Check {
	return func(value string) bool {
		return !check(value)
	}
}
