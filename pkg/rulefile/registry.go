package rulefile

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

// CheckFactory builds a per-field check from rule parameters.
type CheckFactory func(p Params) (validator.Check, error)

// JointFactory builds a joint predicate over the rule's input keys.
type JointFactory func(inputs []string, p Params) (form.JointPredicate, error)

// Registry maps check names used in rule documents to validators.
// A Registry is not safe for concurrent registration.
type Registry struct {
	checks map[string]CheckFactory
	joints map[string]JointFactory
}

// requiredCheck is resolved by the compiler: it is the only isolated check
// that fails, rather than being indeterminate, for absent values.
const requiredCheck = "required"

// NewRegistry returns a registry holding the built-in checks.
func NewRegistry() *Registry {
	r := &Registry{
		checks: make(map[string]CheckFactory),
		joints: make(map[string]JointFactory),
	}

	r.RegisterCheck("min_len", func(p Params) (validator.Check, error) {
		n, err := p.Int("min")
		if err != nil {
			return nil, err
		}
		return validator.MinLen(n), nil
	})
	r.RegisterCheck("max_len", func(p Params) (validator.Check, error) {
		n, err := p.Int("max")
		if err != nil {
			return nil, err
		}
		return validator.MaxLen(n), nil
	})
	r.RegisterCheck("len", func(p Params) (validator.Check, error) {
		n, err := p.Int("len")
		if err != nil {
			return nil, err
		}
		return validator.Len(n), nil
	})
	r.RegisterCheck("len_between", func(p Params) (validator.Check, error) {
		lo, err := p.Int("min")
		if err != nil {
			return nil, err
		}
		hi, err := p.Int("max")
		if err != nil {
			return nil, err
		}
		if lo > hi {
			return nil, fmt.Errorf("%w: min %d exceeds max %d", ErrInvalidParam, lo, hi)
		}
		return validator.LenBetween(lo, hi), nil
	})
	r.RegisterCheck("email", static(validator.Email()))
	r.RegisterCheck("phone", static(validator.Phone()))
	r.RegisterCheck("alpha", static(validator.Alpha()))
	r.RegisterCheck("alphanumeric", static(validator.Alphanumeric()))
	r.RegisterCheck("numeric", static(validator.Numeric()))
	r.RegisterCheck("no_whitespace", static(validator.NoWhitespace()))
	r.RegisterCheck("not_common_password", static(validator.NotCommonPassword()))
	r.RegisterCheck("url", func(p Params) (validator.Check, error) {
		if _, ok := p["schemes"]; !ok {
			return validator.URL(), nil
		}
		schemes, err := p.Strings("schemes")
		if err != nil {
			return nil, err
		}
		return validator.URL(schemes...), nil
	})
	r.RegisterCheck("uuid", func(p Params) (validator.Check, error) {
		v, err := p.IntOr("version", 0)
		if err != nil {
			return nil, err
		}
		if v == 0 {
			return validator.UUID(), nil
		}
		return validator.UUID(v), nil
	})
	r.RegisterCheck("matches", func(p Params) (validator.Check, error) {
		pattern, err := p.Text("pattern")
		if err != nil {
			return nil, err
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: pattern: %v", ErrInvalidParam, err)
		}
		return validator.Matches(re), nil
	})
	r.RegisterCheck("one_of", func(p Params) (validator.Check, error) {
		opts, err := p.Strings("values")
		if err != nil {
			return nil, err
		}
		fold, err := p.Bool("ignore_case", false)
		if err != nil {
			return nil, err
		}
		if fold {
			return validator.OneOfFold(opts...), nil
		}
		return validator.OneOf(opts...), nil
	})
	r.RegisterCheck("none_of", func(p Params) (validator.Check, error) {
		opts, err := p.Strings("values")
		if err != nil {
			return nil, err
		}
		return validator.NoneOf(opts...), nil
	})
	r.RegisterCheck("strong_password", func(p Params) (validator.Check, error) {
		policy := validator.DefaultPasswordPolicy()
		var err error
		if policy.MinLength, err = p.IntOr("min", policy.MinLength); err != nil {
			return nil, err
		}
		if policy.MaxLength, err = p.IntOr("max", policy.MaxLength); err != nil {
			return nil, err
		}
		if policy.MinCharClasses, err = p.IntOr("classes", policy.MinCharClasses); err != nil {
			return nil, err
		}
		return validator.StrongPassword(policy), nil
	})

	r.RegisterJoint("equal", func(inputs []string, _ Params) (form.JointPredicate, error) {
		return validator.Equal(inputs...), nil
	})
	r.RegisterJoint("equal_fold", func(inputs []string, _ Params) (form.JointPredicate, error) {
		return validator.EqualFold(inputs...), nil
	})
	r.RegisterJoint("any_present", func(inputs []string, _ Params) (form.JointPredicate, error) {
		return validator.AnyPresent(inputs...), nil
	})
	r.RegisterJoint("required_with", func(inputs []string, p Params) (form.JointPredicate, error) {
		key, err := p.Text("key")
		if err != nil {
			return nil, err
		}
		trigger, err := p.Text("trigger")
		if err != nil {
			return nil, err
		}
		if !slices.Contains(inputs, key) || !slices.Contains(inputs, trigger) {
			return nil, fmt.Errorf("%w: key and trigger must be listed in inputs", ErrInvalidParam)
		}
		return validator.RequiredWith(key, trigger), nil
	})

	return r
}

// RegisterCheck adds or replaces a per-field check.
func (r *Registry) RegisterCheck(name string, f CheckFactory) {
	r.checks[name] = f
}

// RegisterJoint adds or replaces a joint check.
func (r *Registry) RegisterJoint(name string, f JointFactory) {
	r.joints[name] = f
}

// Checks returns the sorted names of the registered per-field checks,
// including the built-in "required".
func (r *Registry) Checks() []string {
	names := []string{requiredCheck}
	for name := range r.checks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (r *Registry) isolated(name string, p Params, optional bool) (form.IsolatedPredicate, error) {
	if name == requiredCheck {
		return validator.Required(), nil
	}
	f, ok := r.checks[name]
	if !ok {
		return nil, ErrUnknownCheck
	}
	check, err := f(p)
	if err != nil {
		return nil, err
	}
	if optional {
		return validator.Optional(check), nil
	}
	return validator.Field(check), nil
}

func (r *Registry) joint(name string, inputs []string, p Params) (form.JointPredicate, error) {
	f, ok := r.joints[name]
	if !ok {
		return nil, ErrUnknownCheck
	}
	return f(inputs, p)
}

func static(c validator.Check) CheckFactory {
	return func(Params) (validator.Check, error) { return c, nil }
}
