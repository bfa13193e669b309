package main

import (
	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/formhttp"
	"github.com/dmitrymomot/formkit/pkg/rulefile"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

const (
	keyFirstName = "firstName"
	keyLastName  = "lastName"
	keyPassword1 = "password1"
	keyPassword2 = "password2"
	keyEmail     = "email"
)

// signupRules is the built-in sign up form.
func signupRules() []form.Definition {
	return form.NewBuilder().
		Isolated([]string{keyPassword1, keyPassword2, keyFirstName, keyLastName},
			"Required", validator.Required()).
		Isolated([]string{keyPassword1, keyPassword2},
			"Must be at least 8 characters", validator.Field(validator.MinLen(8))).
		Joint([]string{keyPassword1, keyPassword2},
			"Passwords must match", validator.Equal(keyPassword1, keyPassword2),
			form.WithErrorKeys(keyPassword2)).
		Joint([]string{keyEmail},
			"Must be a valid email address", validator.OptionalValue(keyEmail, validator.MatchesPattern(`^.+@.+\..+$`))).
		Build()
}

var signupFields = []formhttp.Field{
	{Key: keyFirstName, Label: "First Name*", Type: "text"},
	{Key: keyLastName, Label: "Last Name*", Type: "text"},
	{Key: keyPassword1, Label: "Password*", Type: "password"},
	{Key: keyPassword2, Label: "Confirm Password*", Type: "password"},
	{Key: keyEmail, Label: "Email Address", Type: "email"},
}

// loadRules returns the rules in path, or the built-in sign up rules and
// their page layout when path is empty.
func loadRules(path string) ([]form.Definition, []formhttp.Field, error) {
	if path == "" {
		return signupRules(), signupFields, nil
	}
	defs, err := rulefile.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return defs, nil, nil
}
