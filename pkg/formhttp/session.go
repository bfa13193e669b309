package formhttp

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/formkit/pkg/broadcast"
	"github.com/dmitrymomot/formkit/pkg/form"
)

// Session is one live form instance. The controller is not safe for
// concurrent use, so every access goes through Do.
type Session struct {
	id        string
	createdAt time.Time
	lastSeen  atomic.Int64

	mu    sync.Mutex
	ctl   *form.Controller
	hub   broadcast.Broadcaster
	fault error
}

// State is a consistent read of a session.
type State struct {
	ID     string                      `json:"id"`
	Values form.Values                 `json:"values"`
	Errors map[string][]form.FormError `json:"errors"`
	Valid  bool                        `json:"valid"`
	// Faulted is set once a rule predicate panicked. Errors may then be
	// incomplete and the session accepts no further changes.
	Faulted bool `json:"faulted,omitempty"`
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// CreatedAt returns when the session was created.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// LastSeen returns the last time the session was looked up.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Do runs fn with exclusive access to the controller. A panicking rule
// predicate leaves the error bundle half-updated, so the session is marked
// faulted: Do returns the *form.PredicateFault, closes open subscriptions and
// from then on returns ErrSessionFaulted without running fn. Any other panic
// is propagated.
func (s *Session) Do(fn func(ctl *form.Controller)) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fault != nil {
		return s.fault
	}
	defer func() {
		if r := recover(); r != nil {
			fault, ok := r.(*form.PredicateFault)
			if !ok {
				panic(r)
			}
			s.fault = fmt.Errorf("%w: %w", ErrSessionFaulted, fault)
			_ = s.hub.Close()
			err = fault
		}
	}()
	fn(s.ctl)
	return nil
}

// Faulted reports whether a rule predicate panicked in this session.
func (s *Session) Faulted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fault != nil
}

// read runs fn under the session lock. fn must not run rules.
func (s *Session) read(fn func(ctl *form.Controller)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.ctl)
}

// State returns the current values and errors. A faulted session is never
// reported as valid.
func (s *Session) State() State {
	var st State
	s.read(func(ctl *form.Controller) { st = s.stateOf(ctl) })
	return st
}

// Apply runs fn like Do and returns the state fn left behind.
func (s *Session) Apply(fn func(ctl *form.Controller)) (State, error) {
	var st State
	err := s.Do(func(ctl *form.Controller) {
		fn(ctl)
		st = s.stateOf(ctl)
	})
	return st, err
}

// stateOf must be called with s.mu held.
func (s *Session) stateOf(ctl *form.Controller) State {
	faulted := s.fault != nil
	return State{
		ID:      s.id,
		Values:  ctl.Values(),
		Errors:  ctl.Errors().Snapshot(),
		Valid:   !faulted && ctl.Submittable(),
		Faulted: faulted,
	}
}

// Keys returns every field key named by the session's rules.
func (s *Session) Keys() []string {
	var keys []string
	s.read(func(ctl *form.Controller) { keys = ctl.Rules().Keys() })
	return keys
}

// Subscribe streams updates for every change made to the session until ctx
// is done or the session is closed.
func (s *Session) Subscribe(ctx context.Context) broadcast.Subscriber {
	return s.hub.Subscribe(ctx)
}

// Watchers returns the number of live subscriptions.
func (s *Session) Watchers() int {
	return s.hub.Subscribers()
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) close() error {
	if err := s.hub.Close(); err != nil {
		return fmt.Errorf("close session %s: %w", s.id, err)
	}
	return nil
}
