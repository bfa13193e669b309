package form

import (
	"fmt"
	"slices"
)

// RuleSet is the ordered, immutable collection of registered rules.
type RuleSet struct {
	rules    []Rule
	touching map[string][]int
	keys     []string
}

// Register validates defs and assigns every definition its index as id.
// Duplicate keys inside a definition are collapsed, keeping the first occurrence.
func Register(defs ...Definition) (*RuleSet, error) {
	rs := &RuleSet{
		rules:    make([]Rule, 0, len(defs)),
		touching: make(map[string][]int),
	}
	seen := make(map[string]struct{})
	track := func(keys []string) {
		for _, k := range keys {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				rs.keys = append(rs.keys, k)
			}
		}
	}

	for i, d := range defs {
		r, err := compile(i, d)
		if err != nil {
			return nil, &DefinitionError{Index: i, Err: err}
		}
		rs.rules = append(rs.rules, r)
		for _, k := range r.InputKeys {
			rs.touching[k] = append(rs.touching[k], r.ID)
		}
		track(r.InputKeys)
		track(r.ErrorKeys)
	}

	return rs, nil
}

// MustRegister works like Register but panics on an invalid definition.
func MustRegister(defs ...Definition) *RuleSet {
	rs, err := Register(defs...)
	if err != nil {
		panic(fmt.Sprintf("failed to register rules: %v", err))
	}
	return rs
}

func compile(id int, d Definition) (Rule, error) {
	inputs := uniqueKeys(d.InputKeys)
	if len(inputs) == 0 {
		return Rule{}, ErrNoInputKeys
	}
	if d.Message == "" {
		return Rule{}, ErrEmptyMessage
	}

	r := Rule{
		ID:        id,
		Mode:      d.Mode,
		InputKeys: inputs,
		Message:   d.Message,
	}

	switch d.Mode {
	case ModeJoint:
		if d.Joint == nil {
			return Rule{}, ErrMissingPredicate
		}
		if d.Isolated != nil {
			return Rule{}, ErrPredicateMismatch
		}
		r.joint = d.Joint
		r.ErrorKeys = uniqueKeys(d.ErrorKeys)
		if len(r.ErrorKeys) == 0 {
			r.ErrorKeys = slices.Clone(inputs)
		}
	case ModeIsolated:
		if d.Isolated == nil {
			return Rule{}, ErrMissingPredicate
		}
		if d.Joint != nil {
			return Rule{}, ErrPredicateMismatch
		}
		r.isolated = d.Isolated
		// Isolated rules only ever report on the field being evaluated.
		r.ErrorKeys = slices.Clone(inputs)
	default:
		return Rule{}, fmt.Errorf("%w: %d", ErrUnknownMode, d.Mode)
	}

	if slices.Contains(r.InputKeys, "") || slices.Contains(r.ErrorKeys, "") {
		return Rule{}, ErrEmptyKey
	}
	return r, nil
}

func uniqueKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	return out
}

// RulesTouching returns every rule listing key as an input, in registration order.
func (rs *RuleSet) RulesTouching(key string) []Rule {
	ids := rs.touching[key]
	out := make([]Rule, 0, len(ids))
	for _, id := range ids {
		out = append(out, rs.rules[id])
	}
	return out
}

// All returns every rule in registration order.
func (rs *RuleSet) All() []Rule {
	return slices.Clone(rs.rules)
}

// Rule returns the rule registered under id.
func (rs *RuleSet) Rule(id int) (Rule, bool) {
	if id < 0 || id >= len(rs.rules) {
		return Rule{}, false
	}
	return rs.rules[id], true
}

// Len returns the number of registered rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Keys returns every input or error key referenced by a rule, first-seen order.
func (rs *RuleSet) Keys() []string {
	return slices.Clone(rs.keys)
}
