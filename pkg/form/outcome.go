package form

// Outcome is the three-valued result of a rule predicate.
type Outcome uint8

const (
	// Pass means the rule is satisfied.
	Pass Outcome = iota + 1
	// Fail means the rule is definitely violated.
	Fail
	// Indeterminate means the rule cannot be judged yet, e.g. a field it
	// depends on is absent.
	Indeterminate
)

// Check converts a boolean result into Pass or Fail.
func Check(ok bool) Outcome {
	if ok {
		return Pass
	}
	return Fail
}

// Failing reports whether the outcome attaches an error.
// Anything other than Pass fails, including the zero value.
func (o Outcome) Failing() bool {
	return o != Pass
}

func (o Outcome) String() string {
	switch o {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	case Indeterminate:
		return "indeterminate"
	default:
		return "invalid"
	}
}
