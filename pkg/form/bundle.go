package form

import (
	"maps"
	"slices"
)

// FormError identifies one active violation: a failing rule and its message.
type FormError struct {
	RuleID  int    `json:"rule_id"`
	Message string `json:"message"`
}

// Bundle is the cached mapping from field key to the errors currently active
// for that field. It reflects the last validation pass touching each key and
// is never recomputed on read.
//
// The exported methods are read-only; the engine owns every mutation.
type Bundle struct {
	errs map[string][]FormError
}

func newBundle() *Bundle {
	return &Bundle{errs: make(map[string][]FormError)}
}

// Errors returns a copy of the errors attached to key, in rule registration order.
func (b *Bundle) Errors(key string) []FormError {
	return slices.Clone(b.errs[key])
}

// First returns the first error attached to key.
func (b *Bundle) First(key string) (FormError, bool) {
	list := b.errs[key]
	if len(list) == 0 {
		return FormError{}, false
	}
	return list[0], true
}

// Messages returns the messages attached to key.
func (b *Bundle) Messages(key string) []string {
	list := b.errs[key]
	if len(list) == 0 {
		return nil
	}
	out := make([]string, len(list))
	for i, fe := range list {
		out[i] = fe.Message
	}
	return out
}

// Has reports whether key has at least one error.
func (b *Bundle) Has(key string) bool {
	return len(b.errs[key]) > 0
}

// HasRule reports whether the rule's error is attached to key.
func (b *Bundle) HasRule(key string, ruleID int) bool {
	return slices.ContainsFunc(b.errs[key], func(fe FormError) bool {
		return fe.RuleID == ruleID
	})
}

// Keys returns every key with at least one error, sorted.
func (b *Bundle) Keys() []string {
	return slices.Sorted(maps.Keys(b.errs))
}

// Valid reports whether every field's error list is empty.
func (b *Bundle) Valid() bool {
	return len(b.errs) == 0
}

// Len returns the number of keys carrying errors.
func (b *Bundle) Len() int {
	return len(b.errs)
}

// Snapshot returns a deep copy of the bundle.
func (b *Bundle) Snapshot() map[string][]FormError {
	out := make(map[string][]FormError, len(b.errs))
	for k, list := range b.errs {
		out[k] = slices.Clone(list)
	}
	return out
}

// add appends fe under key unless the rule already has an entry there.
func (b *Bundle) add(key string, fe FormError) {
	if b.HasRule(key, fe.RuleID) {
		return
	}
	b.errs[key] = append(b.errs[key], fe)
}

// removeRule retracts the rule's entry from key.
func (b *Bundle) removeRule(key string, ruleID int) {
	list, ok := b.errs[key]
	if !ok {
		return
	}
	list = slices.DeleteFunc(list, func(fe FormError) bool {
		return fe.RuleID == ruleID
	})
	if len(list) == 0 {
		delete(b.errs, key)
		return
	}
	b.errs[key] = list
}

func (b *Bundle) clearKey(key string) {
	delete(b.errs, key)
}

func (b *Bundle) clear() {
	clear(b.errs)
}
