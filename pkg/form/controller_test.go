package form_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/logger"
)

const (
	pw1 = "password1"
	pw2 = "password2"
)

const (
	ruleRequired = iota
	ruleMinLen
	ruleMatch
)

func required(v form.Values, key string) form.Outcome {
	return form.Check(v.Has(key))
}

func minLen3(v form.Values, key string) form.Outcome {
	s, ok := v.Get(key)
	if !ok {
		return form.Indeterminate
	}
	return form.Check(len(s) >= 3)
}

func passwordsMatch(v form.Values) form.Outcome {
	return form.Check(v.Text(pw1) == v.Text(pw2))
}

func passwordRules() []form.Definition {
	return form.NewBuilder().
		Isolated([]string{pw1, pw2}, "Required", required).
		Isolated([]string{pw1, pw2}, "Too short", minLen3).
		Joint([]string{pw1, pw2}, "Passwords must match", passwordsMatch, form.WithErrorKeys(pw2)).
		Build()
}

func ruleIDs(errs []form.FormError) []int {
	out := make([]int, 0, len(errs))
	for _, fe := range errs {
		out = append(out, fe.RuleID)
	}
	return out
}

func TestController_OnDataChange(t *testing.T) {
	t.Run("signup scenario", func(t *testing.T) {
		ctl := form.MustNew(form.NewBuilder().
			Isolated([]string{pw1, pw2}, "Required", required).
			Joint([]string{pw1, pw2}, "Passwords must match", passwordsMatch, form.WithErrorKeys(pw2)).
			Build())

		ctl.OnDataChange(pw1, "abcdefgh")
		assert.Empty(t, ctl.Errors().Errors(pw1))
		// The failing match rule targets password2 only, which is not the
		// field being validated.
		assert.Empty(t, ctl.Errors().Errors(pw2))

		ctl.OnDataChange(pw2, "abcdefgh")
		assert.Empty(t, ctl.Errors().Errors(pw2))
		assert.True(t, ctl.Submittable())
	})

	t.Run("errors listed in registration order", func(t *testing.T) {
		ctl := form.MustNew(passwordRules())
		ctl.OnDataChange(pw1, "abc")
		ctl.ValidateField(pw2)

		assert.Equal(t, []int{ruleRequired, ruleMinLen, ruleMatch}, ruleIDs(ctl.Errors().Errors(pw2)))
		assert.Equal(t, []string{"Required", "Too short", "Passwords must match"}, ctl.Errors().Messages(pw2))

		first, ok := ctl.Errors().First(pw2)
		require.True(t, ok)
		assert.Equal(t, form.FormError{RuleID: ruleRequired, Message: "Required"}, first)
	})

	t.Run("blank value clears the field", func(t *testing.T) {
		ctl := form.MustNew(passwordRules())
		ctl.OnDataChange(pw1, "secret")
		ctl.OnDataChange(pw1, "   ")

		_, ok := ctl.Value(pw1)
		assert.False(t, ok)
		assert.Equal(t, []int{ruleRequired, ruleMinLen}, ruleIDs(ctl.Errors().Errors(pw1)))
	})

	t.Run("keys without rules are stored", func(t *testing.T) {
		ctl := form.MustNew(passwordRules())
		ctl.OnDataChange("nickname", "ada")

		v, ok := ctl.Value("nickname")
		assert.True(t, ok)
		assert.Equal(t, "ada", v)
		assert.False(t, ctl.Errors().Has("nickname"))
	})
}

func TestController_JointPropagation(t *testing.T) {
	ctl := form.MustNew(passwordRules())

	ctl.OnDataChange(pw1, "first")
	ctl.OnDataChange(pw2, "second")
	assert.Equal(t, []int{ruleMatch}, ruleIDs(ctl.Errors().Errors(pw2)))
	assert.False(t, ctl.Errors().Has(pw1))

	// Editing password1 so that the passwords agree retracts the error shown
	// on password2.
	ctl.OnDataChange(pw1, "second")
	assert.False(t, ctl.Errors().Has(pw2))
	assert.False(t, ctl.Errors().Has(pw1))

	// Breaking the match from password1 does not attach to password2 until
	// password2 itself is validated.
	ctl.OnDataChange(pw1, "third")
	assert.False(t, ctl.Errors().Has(pw2))

	ctl.ValidateField(pw2)
	assert.True(t, ctl.Errors().HasRule(pw2, ruleMatch))
}

func TestController_IsolatedRulesStayOnTheirField(t *testing.T) {
	ctl := form.MustNew(form.NewBuilder().
		Isolated([]string{"a", "b"}, "Required", required).
		Build())

	ctl.Validate()
	require.Equal(t, []int{0}, ruleIDs(ctl.Errors().Errors("a")))
	require.Equal(t, []int{0}, ruleIDs(ctl.Errors().Errors("b")))

	ctl.OnDataChange("a", "x")
	assert.False(t, ctl.Errors().Has("a"))
	assert.Equal(t, []int{0}, ruleIDs(ctl.Errors().Errors("b")))

	ctl.OnDataChange("a", "")
	assert.True(t, ctl.Errors().Has("a"))
	assert.Equal(t, []int{0}, ruleIDs(ctl.Errors().Errors("b")))
}

func TestController_IndeterminateAttachesError(t *testing.T) {
	ctl := form.MustNew([]form.Definition{
		form.Isolated([]string{"a"}, "cannot judge", func(form.Values, string) form.Outcome {
			return form.Indeterminate
		}),
		form.Joint([]string{"a"}, "cannot judge either", func(form.Values) form.Outcome {
			return form.Indeterminate
		}),
	})

	ctl.OnDataChange("a", "x")
	assert.Equal(t, []int{0, 1}, ruleIDs(ctl.Errors().Errors("a")))
}

func TestController_Validate(t *testing.T) {
	t.Run("reveals untouched fields", func(t *testing.T) {
		ctl := form.MustNew(passwordRules())
		ctl.Validate()

		assert.Equal(t, []int{ruleRequired, ruleMinLen}, ruleIDs(ctl.Errors().Errors(pw1)))
		// Both passwords absent compare equal.
		assert.Equal(t, []int{ruleRequired, ruleMinLen}, ruleIDs(ctl.Errors().Errors(pw2)))
		assert.False(t, ctl.Submittable())
		assert.Equal(t, []string{pw1, pw2}, ctl.Errors().Keys())
	})

	t.Run("failing joint rule attaches to every error key", func(t *testing.T) {
		ctl := form.MustNew([]form.Definition{
			form.Joint([]string{"a", "b"}, "a and b together", func(v form.Values) form.Outcome {
				return form.Check(v.Has("a") && v.Has("b"))
			}),
		})
		ctl.OnDataChange("a", "x")
		assert.Equal(t, []int{0}, ruleIDs(ctl.Errors().Errors("a")))
		assert.False(t, ctl.Errors().Has("b"))

		ctl.Validate()
		assert.Equal(t, []int{0}, ruleIDs(ctl.Errors().Errors("a")))
		assert.Equal(t, []int{0}, ruleIDs(ctl.Errors().Errors("b")))
	})

	t.Run("idempotent", func(t *testing.T) {
		ctl := form.MustNew(passwordRules())
		ctl.OnDataChange(pw1, "ab")
		ctl.OnDataChange(pw2, "abcdef")

		ctl.Validate()
		first := ctl.Errors().Snapshot()
		ctl.Validate()
		assert.Equal(t, first, ctl.Errors().Snapshot())
	})

	t.Run("field validation never duplicates errors", func(t *testing.T) {
		ctl := form.MustNew(passwordRules())
		ctl.OnDataChange(pw1, "abc")
		ctl.ValidateField(pw2)
		before := ctl.Errors().Snapshot()

		ctl.ValidateField(pw2)
		ctl.ValidateField(pw2)
		assert.Equal(t, before, ctl.Errors().Snapshot())
		assert.Len(t, ctl.Errors().Errors(pw2), 3)
	})

	t.Run("incremental and full passes converge", func(t *testing.T) {
		ctl := form.MustNew(passwordRules())
		ctl.OnDataChange(pw1, "abc")
		ctl.OnDataChange(pw2, "ab")
		ctl.OnDataChange(pw2, "abcd")
		incremental := ctl.Errors().Snapshot()

		ctl.Validate()
		assert.Equal(t, incremental, ctl.Errors().Snapshot())
		assert.Equal(t, map[string][]form.FormError{
			pw2: {{RuleID: ruleMatch, Message: "Passwords must match"}},
		}, incremental)
	})
}

func TestController_Reset(t *testing.T) {
	t.Run("full reset", func(t *testing.T) {
		ctl := form.MustNew(passwordRules())
		ctl.OnDataChange(pw1, "ab")
		ctl.Validate()
		require.False(t, ctl.Submittable())

		ctl.Reset()
		assert.Empty(t, ctl.Values())
		assert.True(t, ctl.Submittable())
		assert.Equal(t, 0, ctl.Errors().Len())
	})

	t.Run("field reset leaves other fields alone", func(t *testing.T) {
		ctl := form.MustNew(passwordRules())
		ctl.OnDataChange(pw1, "first")
		ctl.OnDataChange(pw2, "second")
		ctl.OnDataChange("other", "x")
		ctl.ValidateField(pw1)
		ctl.Validate()
		require.True(t, ctl.Errors().HasRule(pw2, ruleMatch))

		ctl.ResetField(pw1)

		_, ok := ctl.Value(pw1)
		assert.False(t, ok)
		assert.False(t, ctl.Errors().Has(pw1))
		// No rule is re-run, so the match error on password2 survives.
		assert.True(t, ctl.Errors().HasRule(pw2, ruleMatch))
		v, _ := ctl.Value("other")
		assert.Equal(t, "x", v)
	})
}

func TestController_Notifications(t *testing.T) {
	var got []form.Change
	ctl := form.MustNew(passwordRules(), form.WithOnChange(func(c form.Change) {
		got = append(got, c)
	}))

	ctl.OnDataChange(pw1, "abc")
	ctl.ValidateField(pw2)
	ctl.Validate()
	ctl.ResetField(pw1)
	ctl.Reset()

	assert.Equal(t, []form.Change{
		{Kind: form.ChangeField, Key: pw1},
		{Kind: form.ChangeField, Key: pw2},
		{Kind: form.ChangeAll},
		{Kind: form.ChangeResetField, Key: pw1},
		{Kind: form.ChangeReset},
	}, got)

	t.Run("callback observes updated errors", func(t *testing.T) {
		var seen []string
		ctl.OnChange(func(form.Change) {
			seen = ctl.Errors().Messages(pw1)
		})
		ctl.OnDataChange(pw1, "ab")
		assert.Equal(t, []string{"Too short"}, seen)
	})

	t.Run("slot is replaced and can be cleared", func(t *testing.T) {
		first, second := 0, 0
		ctl.OnChange(func(form.Change) { first++ })
		ctl.OnChange(func(form.Change) { second++ })
		ctl.Validate()
		assert.Equal(t, 0, first)
		assert.Equal(t, 1, second)

		ctl.OnChange(nil)
		ctl.Validate()
		assert.Equal(t, 1, second)
	})
}

func TestController_PredicateFault(t *testing.T) {
	boom := errors.New("boom")
	ctl := form.MustNew([]form.Definition{
		form.Isolated([]string{"a"}, "never", func(form.Values, string) form.Outcome {
			panic(boom)
		}),
	})

	var recovered any
	func() {
		defer func() { recovered = recover() }()
		ctl.OnDataChange("a", "x")
	}()

	fault, ok := recovered.(*form.PredicateFault)
	require.True(t, ok, "expected *form.PredicateFault, got %T", recovered)
	assert.Equal(t, 0, fault.RuleID)
	assert.Equal(t, "a", fault.Key)
	assert.ErrorIs(t, fault, boom)
	assert.Contains(t, fault.Error(), `rule 0 panicked for key "a"`)
}

func TestController_Construction(t *testing.T) {
	t.Run("invalid definitions", func(t *testing.T) {
		_, err := form.New([]form.Definition{form.Joint(nil, "m", passwordsMatch)})
		require.Error(t, err)
		assert.ErrorIs(t, err, form.ErrNoInputKeys)

		assert.Panics(t, func() {
			form.MustNew([]form.Definition{form.Isolated([]string{"a"}, "", required)})
		})
	})

	t.Run("fresh session starts empty", func(t *testing.T) {
		ctl, err := form.New(passwordRules())
		require.NoError(t, err)
		assert.Empty(t, ctl.Values())
		assert.True(t, ctl.Submittable())
		assert.Equal(t, 3, ctl.Rules().Len())
	})

	t.Run("logs validation passes", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelDebug))

		ctl := form.MustNew(passwordRules(), form.WithLogger(log))
		ctl.OnDataChange(pw1, "abc")

		out := buf.String()
		assert.Contains(t, out, `"msg":"field validated"`)
		assert.Contains(t, out, `"component":"form"`)
		assert.Contains(t, out, `"field":"password1"`)
	})
}
