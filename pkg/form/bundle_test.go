package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBundle(t *testing.T) {
	t.Run("one entry per rule and key", func(t *testing.T) {
		b := newBundle()
		b.add("a", FormError{RuleID: 1, Message: "one"})
		b.add("a", FormError{RuleID: 1, Message: "one"})
		b.add("a", FormError{RuleID: 0, Message: "zero"})

		assert.Equal(t, []string{"one", "zero"}, b.Messages("a"))
	})

	t.Run("removing the last rule drops the key", func(t *testing.T) {
		b := newBundle()
		b.add("a", FormError{RuleID: 1, Message: "one"})
		b.add("a", FormError{RuleID: 2, Message: "two"})

		b.removeRule("a", 1)
		assert.Equal(t, []FormError{{RuleID: 2, Message: "two"}}, b.Errors("a"))

		b.removeRule("a", 2)
		assert.False(t, b.Has("a"))
		assert.Empty(t, b.Keys())
		assert.True(t, b.Valid())

		b.removeRule("missing", 1)
		assert.Equal(t, 0, b.Len())
	})

	t.Run("readers return copies", func(t *testing.T) {
		b := newBundle()
		b.add("a", FormError{RuleID: 1, Message: "one"})

		errs := b.Errors("a")
		errs[0].Message = "changed"
		snap := b.Snapshot()
		snap["a"][0].Message = "changed"

		first, ok := b.First("a")
		assert.True(t, ok)
		assert.Equal(t, "one", first.Message)
	})

	t.Run("empty reads", func(t *testing.T) {
		b := newBundle()
		_, ok := b.First("a")
		assert.False(t, ok)
		assert.Nil(t, b.Messages("a"))
		assert.Nil(t, b.Errors("a"))
	})

	t.Run("clear", func(t *testing.T) {
		b := newBundle()
		b.add("a", FormError{RuleID: 1, Message: "one"})
		b.add("b", FormError{RuleID: 1, Message: "one"})

		b.clearKey("a")
		assert.Equal(t, []string{"b"}, b.Keys())

		b.clear()
		assert.True(t, b.Valid())
	})
}
