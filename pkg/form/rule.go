package form

import "slices"

// Mode selects how a rule is evaluated.
type Mode uint8

const (
	// ModeJoint evaluates the predicate once over the whole form.
	ModeJoint Mode = iota + 1
	// ModeIsolated evaluates the predicate once per input field.
	ModeIsolated
)

func (m Mode) String() string {
	switch m {
	case ModeJoint:
		return "joint"
	case ModeIsolated:
		return "isolated"
	default:
		return "unknown"
	}
}

// JointPredicate judges the form as a whole.
type JointPredicate func(values Values) Outcome

// IsolatedPredicate judges a single field. It must only depend on the value
// stored under key.
type IsolatedPredicate func(values Values, key string) Outcome

// Definition describes a rule before registration.
// Use Joint, Isolated or a Builder to construct one.
type Definition struct {
	Mode      Mode
	InputKeys []string
	// ErrorKeys defaults to InputKeys when empty. Ignored for isolated rules.
	ErrorKeys []string
	Message   string
	Joint     JointPredicate
	Isolated  IsolatedPredicate
}

// DefinitionOption customizes a joint rule definition.
type DefinitionOption func(*Definition)

// WithErrorKeys attaches the rule's error to keys instead of its input keys.
func WithErrorKeys(keys ...string) DefinitionOption {
	return func(d *Definition) {
		d.ErrorKeys = append(d.ErrorKeys, keys...)
	}
}

// Joint defines a rule whose outcome depends on all of its inputs together.
func Joint(inputKeys []string, message string, predicate JointPredicate, opts ...DefinitionOption) Definition {
	d := Definition{
		Mode:      ModeJoint,
		InputKeys: slices.Clone(inputKeys),
		Message:   message,
		Joint:     predicate,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// Isolated defines a rule evaluated independently for every input key.
func Isolated(inputKeys []string, message string, predicate IsolatedPredicate) Definition {
	return Definition{
		Mode:      ModeIsolated,
		InputKeys: slices.Clone(inputKeys),
		Message:   message,
		Isolated:  predicate,
	}
}

// Builder accumulates rule definitions in registration order.
type Builder struct {
	defs []Definition
}

// NewBuilder creates an empty rule builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Joint appends a joint rule.
func (b *Builder) Joint(inputKeys []string, message string, predicate JointPredicate, opts ...DefinitionOption) *Builder {
	b.defs = append(b.defs, Joint(inputKeys, message, predicate, opts...))
	return b
}

// Isolated appends an isolated rule.
func (b *Builder) Isolated(inputKeys []string, message string, predicate IsolatedPredicate) *Builder {
	b.defs = append(b.defs, Isolated(inputKeys, message, predicate))
	return b
}

// Add appends prebuilt definitions, e.g. ones loaded from a rule file.
func (b *Builder) Add(defs ...Definition) *Builder {
	b.defs = append(b.defs, defs...)
	return b
}

// Build returns the definitions in the order they were added.
func (b *Builder) Build() []Definition {
	return slices.Clone(b.defs)
}

// Rule is a registered definition. Its ID is its registration index.
type Rule struct {
	ID        int
	Mode      Mode
	InputKeys []string
	ErrorKeys []string
	Message   string

	joint    JointPredicate
	isolated IsolatedPredicate
}

// Touches reports whether a change to key triggers this rule.
func (r Rule) Touches(key string) bool {
	return slices.Contains(r.InputKeys, key)
}

// AttachesTo reports whether a failing joint evaluation attaches to key.
func (r Rule) AttachesTo(key string) bool {
	return slices.Contains(r.ErrorKeys, key)
}

func (r Rule) formError() FormError {
	return FormError{RuleID: r.ID, Message: r.Message}
}
