package form

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/formkit/pkg/logger"
)

// Engine evaluates a RuleSet against a State and maintains the error Bundle.
type Engine struct {
	rules    *RuleSet
	state    *State
	bundle   *Bundle
	notifier *notifier
	log      *slog.Logger
}

func newEngine(rules *RuleSet, state *State, bundle *Bundle, n *notifier, log *slog.Logger) *Engine {
	return &Engine{
		rules:    rules,
		state:    state,
		bundle:   bundle,
		notifier: n,
		log:      log,
	}
}

// ValidateField re-evaluates every rule touching key.
//
// The key's error list is discarded first. Isolated rules attach only to key.
// A failing joint rule attaches only if key is one of its error keys, while a
// passing joint rule retracts its error from all of its error keys, which may
// clear a sibling field.
func (e *Engine) ValidateField(key string) {
	start := time.Now()
	values := e.state.All()

	e.bundle.clearKey(key)

	rules := e.rules.RulesTouching(key)
	for _, r := range rules {
		switch r.Mode {
		case ModeIsolated:
			if e.evalIsolated(r, values, key).Failing() {
				e.bundle.add(key, r.formError())
			}
		case ModeJoint:
			if e.evalJoint(r, values).Failing() {
				if r.AttachesTo(key) {
					e.bundle.add(key, r.formError())
				}
				continue
			}
			for _, ek := range r.ErrorKeys {
				e.bundle.removeRule(ek, r.ID)
			}
		}
	}

	e.log.Debug("field validated",
		logger.FieldKey(key),
		slog.Int("rules", len(rules)),
		slog.Int("errors", len(e.bundle.errs[key])),
		logger.Duration(time.Since(start)),
	)

	e.notifier.notify(Change{Kind: ChangeField, Key: key})
}

// ValidateAll discards every error and evaluates every rule from scratch.
func (e *Engine) ValidateAll() {
	start := time.Now()
	values := e.state.All()

	e.bundle.clear()

	for _, r := range e.rules.rules {
		switch r.Mode {
		case ModeIsolated:
			for _, k := range r.InputKeys {
				if e.evalIsolated(r, values, k).Failing() {
					e.bundle.add(k, r.formError())
				}
			}
		case ModeJoint:
			if e.evalJoint(r, values).Failing() {
				for _, ek := range r.ErrorKeys {
					e.bundle.add(ek, r.formError())
				}
			}
		}
	}

	e.log.Debug("form validated",
		slog.Int("rules", e.rules.Len()),
		slog.Int("invalid_fields", e.bundle.Len()),
		logger.Duration(time.Since(start)),
	)

	e.notifier.notify(Change{Kind: ChangeAll})
}

func (e *Engine) evalIsolated(r Rule, values Values, key string) Outcome {
	defer e.guard(r, key)
	out := r.isolated(values, key)
	e.trace(r, key, out)
	return out
}

func (e *Engine) evalJoint(r Rule, values Values) Outcome {
	defer e.guard(r, "")
	out := r.joint(values)
	e.trace(r, "", out)
	return out
}

func (e *Engine) trace(r Rule, key string, out Outcome) {
	e.log.Debug("rule evaluated",
		logger.RuleID(r.ID),
		logger.Mode(r.Mode.String()),
		logger.FieldKey(key),
		logger.Outcome(out.String()),
	)
}

// guard turns a predicate panic into a PredicateFault and re-raises it.
func (e *Engine) guard(r Rule, key string) {
	v := recover()
	if v == nil {
		return
	}
	if _, ok := v.(*PredicateFault); ok {
		panic(v)
	}
	fault := &PredicateFault{RuleID: r.ID, Key: key, Value: v}
	e.log.Error("predicate panicked",
		logger.RuleID(r.ID),
		logger.FieldKey(key),
		slog.String("panic", fmt.Sprint(v)),
	)
	panic(fault)
}
