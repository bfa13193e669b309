package form

import (
	"maps"
	"strings"
)

// Values is a read model of form state handed to predicates.
// Keys with blank values are never present.
type Values map[string]string

// Get returns the value of key and whether it is present.
func (v Values) Get(key string) (string, bool) {
	val, ok := v[key]
	return val, ok
}

// Has reports whether key holds a value.
func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

// Text returns the value of key, or an empty string when absent.
func (v Values) Text(key string) string {
	return v[key]
}

// State stores the current text value of every field.
// It has no validation side effects.
type State struct {
	values Values
}

// NewState returns an empty State.
func NewState() *State {
	return &State{values: make(Values)}
}

// SetValue stores value under key. A blank value deletes the key, so an
// absent field and a field holding only whitespace are indistinguishable.
func (s *State) SetValue(key, value string) {
	if isBlank(value) {
		delete(s.values, key)
		return
	}
	s.values[key] = value
}

// Value returns the value of key and whether it is present.
func (s *State) Value(key string) (string, bool) {
	return s.values.Get(key)
}

// All returns a copy of the current values.
func (s *State) All() Values {
	return maps.Clone(s.values)
}

// Delete removes key.
func (s *State) Delete(key string) {
	delete(s.values, key)
}

// Clear removes every value.
func (s *State) Clear() {
	clear(s.values)
}

// Len returns the number of fields holding a value.
func (s *State) Len() int {
	return len(s.values)
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}
