package form_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/formkit/pkg/form"
)

func TestState(t *testing.T) {
	t.Run("set and get", func(t *testing.T) {
		s := form.NewState()
		s.SetValue("name", "Ada")

		v, ok := s.Value("name")
		assert.True(t, ok)
		assert.Equal(t, "Ada", v)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("values stored verbatim", func(t *testing.T) {
		s := form.NewState()
		s.SetValue("name", "  Ada ")
		v, _ := s.Value("name")
		assert.Equal(t, "  Ada ", v)
	})

	t.Run("blank value deletes key", func(t *testing.T) {
		for _, blank := range []string{"", " ", "\t\n", " "} {
			s := form.NewState()
			s.SetValue("name", "Ada")
			s.SetValue("name", blank)

			_, ok := s.Value("name")
			assert.False(t, ok, "%q should clear the field", blank)
			assert.Equal(t, 0, s.Len())
		}
	})

	t.Run("all returns a copy", func(t *testing.T) {
		s := form.NewState()
		s.SetValue("a", "1")

		all := s.All()
		all["a"] = "changed"
		all["b"] = "new"

		v, _ := s.Value("a")
		assert.Equal(t, "1", v)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("delete and clear", func(t *testing.T) {
		s := form.NewState()
		s.SetValue("a", "1")
		s.SetValue("b", "2")

		s.Delete("a")
		assert.False(t, s.All().Has("a"))

		s.Clear()
		assert.Equal(t, 0, s.Len())
	})
}

func TestValues(t *testing.T) {
	v := form.Values{"a": "1"}

	got, ok := v.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1", got)
	assert.True(t, v.Has("a"))
	assert.False(t, v.Has("b"))
	assert.Equal(t, "", v.Text("b"))
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, form.Pass, form.Check(true))
	assert.Equal(t, form.Fail, form.Check(false))

	assert.False(t, form.Pass.Failing())
	assert.True(t, form.Fail.Failing())
	assert.True(t, form.Indeterminate.Failing())
	assert.True(t, form.Outcome(0).Failing())

	assert.Equal(t, "pass", form.Pass.String())
	assert.Equal(t, "fail", form.Fail.String())
	assert.Equal(t, "indeterminate", form.Indeterminate.String())
	assert.Equal(t, "invalid", form.Outcome(0).String())
}
