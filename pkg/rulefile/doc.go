// Package rulefile loads form rules from YAML documents.
//
// A document lists rules in registration order:
//
//	rules:
//	  - check: required
//	    inputs: [firstName, lastName]
//	    message: Field is required
//	  - check: min_len
//	    inputs: [password1, password2]
//	    params: {min: 8}
//	    message: Password is too short
//	  - mode: joint
//	    check: equal
//	    inputs: [password1, password2]
//	    errors: [password2]
//	    message: Passwords must match
//	  - check: email
//	    inputs: [email]
//	    optional: true
//	    message: Invalid email address
//
// Isolated checks other than "required" are indeterminate for absent values
// unless the entry sets optional. Additional checks can be registered on a
// Registry and passed to NewParser.
//
//	defs, err := rulefile.Load("signup.yaml")
//	if err != nil {
//	    return err
//	}
//	ctl, err := form.New(defs)
package rulefile
