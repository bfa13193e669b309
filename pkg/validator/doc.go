// Package validator provides ready-made predicates for form rules.
//
// Field values are plain text, so every constraint is expressed as a Check,
// a function from a present value to a boolean. Checks are lifted into the
// two predicate shapes understood by package form:
//
//   - Field and Optional produce isolated predicates judging one field.
//   - Value and OptionalValue produce joint predicates bound to a named key.
//
// An absent field yields form.Indeterminate from Field and Value because the
// constraint cannot be judged without a value; the Optional variants pass
// instead. Required fails outright for an absent field.
//
// Joint predicates that relate several fields (Equal, EqualFold, RequiredWith,
// AnyPresent) live in joint_rules.go.
//
// # Usage
//
//	rules := form.NewBuilder().
//	    Isolated([]string{"name"}, "Required", validator.Required()).
//	    Isolated([]string{"password"}, "Must be at least 8 characters",
//	        validator.Field(validator.MinLen(8))).
//	    Joint([]string{"email"}, "Must be a valid email address",
//	        validator.OptionalValue("email", validator.Email())).
//	    Build()
//
// The package keeps no state; every constructor returns a new closure.
package validator
