package formhttp

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/formkit/pkg/broadcast"
	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/logger"
)

const (
	defaultIdleTimeout     = 30 * time.Minute
	defaultCleanupInterval = time.Minute
	defaultBufferSize      = 16
)

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithIdleTimeout sets how long an unwatched session survives without
// being looked up. Zero or negative disables eviction.
func WithIdleTimeout(d time.Duration) StoreOption {
	return func(s *Store) {
		s.idleTimeout = d
	}
}

// WithCleanupInterval sets how often idle sessions are evicted.
// Zero or negative disables the background sweep; EvictIdle still works.
func WithCleanupInterval(d time.Duration) StoreOption {
	return func(s *Store) {
		s.cleanupInterval = d
	}
}

// WithStoreLogger sets the logger handed to every session controller.
func WithStoreLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithBufferSize sets the per-subscriber update buffer.
func WithBufferSize(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.bufferSize = n
		}
	}
}

// BroadcasterFactory creates the update fan-out for a new session.
type BroadcasterFactory func(sessionID string) broadcast.Broadcaster

// WithBroadcaster replaces the default in-memory fan-out, for example with a
// Redis broadcaster so other processes can follow session updates.
func WithBroadcaster(f BroadcasterFactory) StoreOption {
	return func(s *Store) {
		if f != nil {
			s.newHub = f
		}
	}
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store keeps form sessions in memory. Every session is built from the same
// rule definitions. All methods are safe for concurrent use.
type Store struct {
	defs            []form.Definition
	idleTimeout     time.Duration
	cleanupInterval time.Duration
	bufferSize      int
	newHub          BroadcasterFactory
	now             func() time.Time
	log             *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
	closed   bool

	stop chan struct{}
	done chan struct{}
}

// NewStore validates defs once and returns a store that creates sessions from
// them. It returns the registration error if any definition is invalid.
func NewStore(defs []form.Definition, opts ...StoreOption) (*Store, error) {
	if _, err := form.Register(defs...); err != nil {
		return nil, err
	}

	s := &Store{
		defs:            defs,
		idleTimeout:     defaultIdleTimeout,
		cleanupInterval: defaultCleanupInterval,
		bufferSize:      defaultBufferSize,
		now:             time.Now,
		log:             logger.Discard(),
		sessions:        make(map[string]*Session),
		stop:            make(chan struct{}),
		done:            make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.newHub == nil {
		s.newHub = func(string) broadcast.Broadcaster {
			return broadcast.NewMemoryBroadcaster(s.bufferSize)
		}
	}

	if s.cleanupInterval > 0 && s.idleTimeout > 0 {
		go s.cleanupLoop()
	} else {
		close(s.done)
	}
	return s, nil
}

// Create starts a new session with empty state and errors.
func (s *Store) Create(ctx context.Context) (*Session, error) {
	id := uuid.NewString()
	log := s.log.With(logger.SessionID(id))
	hub := s.newHub(id)

	ctl, err := form.New(s.defs, form.WithLogger(log))
	if err != nil {
		_ = hub.Close()
		return nil, err
	}
	ctl.OnChange(broadcast.Notifier(context.WithoutCancel(ctx), hub, ctl.Errors(), log))

	now := s.now()
	sess := &Session{id: id, createdAt: now, ctl: ctl, hub: hub}
	sess.touch(now)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		_ = hub.Close()
		return nil, ErrStoreClosed
	}
	s.sessions[id] = sess
	s.log.DebugContext(ctx, "form session created", logger.SessionID(id))
	return sess, nil
}

// Get returns the session id and marks it as recently used.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.touch(s.now())
	return sess, nil
}

// Delete closes and removes the session id.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	return sess.close()
}

// Ready reports ErrStoreClosed once Close has been called.
func (s *Store) Ready(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// EvictIdle removes faulted sessions and sessions that have not been used
// within the idle timeout and have no live subscribers. It returns the number
// of evicted sessions.
func (s *Store) EvictIdle() int {
	idle := func(*Session) bool { return false }
	if s.idleTimeout > 0 {
		cutoff := s.now().Add(-s.idleTimeout)
		idle = func(sess *Session) bool {
			return sess.Watchers() == 0 && sess.LastSeen().Before(cutoff)
		}
	}

	s.mu.Lock()
	var stale []*Session
	for id, sess := range s.sessions {
		if sess.Faulted() || idle(sess) {
			stale = append(stale, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range stale {
		_ = sess.close()
		s.log.Debug("form session evicted", logger.SessionID(sess.ID()))
	}
	return len(stale)
}

// Close stops the sweeper and closes every session. Safe to call repeatedly.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	sessions := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	close(s.stop)
	<-s.done

	var errs []error
	for _, sess := range sessions {
		if err := sess.close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Store) cleanupLoop() {
	defer close(s.done)
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if n := s.EvictIdle(); n > 0 {
				s.log.Info("idle form sessions evicted", slog.Int("count", n))
			}
		}
	}
}
