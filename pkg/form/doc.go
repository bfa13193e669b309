// Package form implements a reactive, rule-based validation engine for
// key-value form state.
//
// A form session owns three pieces of mutable data: the current text value of
// every field (State), the errors currently attached to every field (Bundle)
// and a single change callback. Rules are registered once when the session is
// created and receive a stable numeric id equal to their registration index.
// That id is the only identity used to attach and retract a rule's errors, so
// re-evaluating one rule never disturbs entries owned by another.
//
// # Rules
//
// Two evaluation modes exist:
//
//   - Isolated rules are evaluated per field. A field's validity under the rule
//     depends on that field's value only, and errors are attached to the field
//     being evaluated.
//   - Joint rules are evaluated once over the whole form and attach their error
//     to the rule's error keys (the input keys by default). Editing one input of a
//     joint rule can retract its error from a different field.
//
// Predicates return an Outcome: Pass, Fail or Indeterminate. Indeterminate means
// the rule cannot judge yet (for example a dependent field is absent) and is
// treated as Fail for error attachment.
//
// # Usage
//
//	rules := form.NewBuilder().
//	    Isolated([]string{"password1", "password2"}, "Required", validator.Required()).
//	    Joint([]string{"password1", "password2"}, "Passwords must match",
//	        validator.Equal("password1", "password2"),
//	        form.WithErrorKeys("password2")).
//	    Build()
//
//	ctl := form.MustNew(rules, form.WithOnChange(func(c form.Change) {
//	    redraw(c)
//	}))
//
//	ctl.OnDataChange("password1", "s3cret-pass")
//	msgs := ctl.Errors().Messages("password2")
//
// # Concurrency
//
// The engine is synchronous and single-threaded. Every call runs to completion
// on the calling goroutine and no locking is performed. Callers sharing a
// Controller between goroutines must serialize access themselves.
package form
