package form

import (
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/formkit/pkg/logger"
)

// Option configures a Controller during construction.
type Option func(*options)

type options struct {
	log      *slog.Logger
	onChange ChangeFunc
}

// WithLogger sets the logger used for validation traces. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithOnChange installs the change callback.
func WithOnChange(fn ChangeFunc) Option {
	return func(o *options) { o.onChange = fn }
}

// Controller is the single interaction surface handed to a presentation layer.
// One Controller represents one form session.
type Controller struct {
	rules    *RuleSet
	state    *State
	bundle   *Bundle
	notifier *notifier
	engine   *Engine
	log      *slog.Logger
}

// New registers defs and wires a fresh form session around them.
// State and errors start empty.
func New(defs []Definition, opts ...Option) (*Controller, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.Discard()
	}

	rules, err := Register(defs...)
	if err != nil {
		return nil, err
	}

	log := o.log.With(logger.Component("form"))
	c := &Controller{
		rules:    rules,
		state:    NewState(),
		bundle:   newBundle(),
		notifier: &notifier{fn: o.onChange},
		log:      log,
	}
	c.engine = newEngine(c.rules, c.state, c.bundle, c.notifier, log)
	return c, nil
}

// MustNew works like New but panics on an invalid rule definition.
func MustNew(defs []Definition, opts ...Option) *Controller {
	c, err := New(defs, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create form: %v", err))
	}
	return c
}

// Errors returns a read-only view of the current errors.
func (c *Controller) Errors() *Bundle {
	return c.bundle
}

// Rules returns the registered rule set.
func (c *Controller) Rules() *RuleSet {
	return c.rules
}

// Value returns the current value of key.
func (c *Controller) Value(key string) (string, bool) {
	return c.state.Value(key)
}

// Values returns a snapshot of the form state.
func (c *Controller) Values() Values {
	return c.state.All()
}

// OnChange replaces the change callback. Nil disables notifications.
func (c *Controller) OnChange(fn ChangeFunc) {
	c.notifier.set(fn)
}

// OnDataChange records a user edit and re-validates the edited field.
func (c *Controller) OnDataChange(key, value string) {
	c.state.SetValue(key, value)
	c.engine.ValidateField(key)
}

// Validate runs a whole-form pass. Fields the user never touched can be
// reported, which makes it suitable for submit-time checks.
func (c *Controller) Validate() {
	c.engine.ValidateAll()
}

// ValidateField re-validates a single field without changing its value.
func (c *Controller) ValidateField(key string) {
	c.engine.ValidateField(key)
}

// Reset discards every value and every error.
func (c *Controller) Reset() {
	c.state.Clear()
	c.bundle.clear()
	c.log.Debug("form reset")
	c.notifier.notify(Change{Kind: ChangeReset})
}

// ResetField discards the value and errors of key without re-running any rule.
func (c *Controller) ResetField(key string) {
	c.state.Delete(key)
	c.bundle.clearKey(key)
	c.log.Debug("field reset", logger.FieldKey(key))
	c.notifier.notify(Change{Kind: ChangeResetField, Key: key})
}

// Submittable reports whether no field currently carries an error.
// The engine never enforces this; it is a convenience for submit gating.
func (c *Controller) Submittable() bool {
	return c.bundle.Valid()
}
