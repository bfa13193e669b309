package formhttp_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/broadcast"
	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/formhttp"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestStore(t *testing.T) {
	t.Parallel()

	t.Run("create get delete", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)

		sess, err := store.Create(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, store.Len())

		got, err := store.Get(sess.ID())
		require.NoError(t, err)
		assert.Same(t, sess, got)

		require.NoError(t, store.Delete(sess.ID()))
		_, err = store.Get(sess.ID())
		assert.ErrorIs(t, err, formhttp.ErrSessionNotFound)
		assert.ErrorIs(t, store.Delete(sess.ID()), formhttp.ErrSessionNotFound)
	})

	t.Run("sessions are independent", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)

		a, err := store.Create(context.Background())
		require.NoError(t, err)
		b, err := store.Create(context.Background())
		require.NoError(t, err)
		assert.NotEqual(t, a.ID(), b.ID())

		_, err = a.Apply(func(ctl *form.Controller) { ctl.OnDataChange(pw1, "short") })
		require.NoError(t, err)

		assert.False(t, a.State().Valid)
		assert.True(t, b.State().Valid)
		assert.Empty(t, b.State().Values)
	})

	t.Run("invalid definitions are rejected", func(t *testing.T) {
		t.Parallel()
		_, err := formhttp.NewStore([]form.Definition{form.Isolated(nil, "msg", nil)})
		assert.True(t, form.IsDefinitionError(err))
	})

	t.Run("idle sessions are evicted", func(t *testing.T) {
		t.Parallel()
		clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
		store := newStore(t, formhttp.WithIdleTimeout(time.Minute), formhttp.WithClock(clock.Now))

		idle, err := store.Create(context.Background())
		require.NoError(t, err)
		watched, err := store.Create(context.Background())
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		sub := watched.Subscribe(ctx)

		clock.Advance(30 * time.Second)
		assert.Equal(t, 0, store.EvictIdle())

		clock.Advance(time.Minute)
		assert.Equal(t, 1, store.EvictIdle())

		_, err = store.Get(idle.ID())
		assert.ErrorIs(t, err, formhttp.ErrSessionNotFound)
		_, err = store.Get(watched.ID())
		assert.NoError(t, err)
		assert.NoError(t, sub.Close())
	})

	t.Run("lookups keep sessions alive", func(t *testing.T) {
		t.Parallel()
		clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
		store := newStore(t, formhttp.WithIdleTimeout(time.Minute), formhttp.WithClock(clock.Now))

		sess, err := store.Create(context.Background())
		require.NoError(t, err)

		clock.Advance(50 * time.Second)
		_, err = store.Get(sess.ID())
		require.NoError(t, err)
		clock.Advance(50 * time.Second)

		assert.Equal(t, 0, store.EvictIdle())
		assert.True(t, clock.Now().Add(-50*time.Second).Equal(sess.LastSeen()))
	})

	t.Run("background sweep", func(t *testing.T) {
		t.Parallel()
		store, err := formhttp.NewStore(signupRules(),
			formhttp.WithIdleTimeout(time.Nanosecond),
			formhttp.WithCleanupInterval(5*time.Millisecond),
		)
		require.NoError(t, err)
		defer store.Close()

		_, err = store.Create(context.Background())
		require.NoError(t, err)
		assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)
	})

	t.Run("close", func(t *testing.T) {
		t.Parallel()
		store, err := formhttp.NewStore(signupRules())
		require.NoError(t, err)

		sess, err := store.Create(context.Background())
		require.NoError(t, err)
		sub := sess.Subscribe(context.Background())

		require.NoError(t, store.Ready(context.Background()))
		require.NoError(t, store.Close())
		require.NoError(t, store.Close())
		assert.ErrorIs(t, store.Ready(context.Background()), formhttp.ErrStoreClosed)

		_, ok := <-sub.Receive()
		assert.False(t, ok)
		_, err = store.Create(context.Background())
		assert.ErrorIs(t, err, formhttp.ErrStoreClosed)
		_, err = store.Get(sess.ID())
		assert.ErrorIs(t, err, formhttp.ErrStoreClosed)
	})
}

func TestSession(t *testing.T) {
	t.Parallel()

	t.Run("changes are published to subscribers", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)
		sess, err := store.Create(context.Background())
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		sub := sess.Subscribe(ctx)
		assert.Equal(t, 1, sess.Watchers())

		_, err = sess.Apply(func(ctl *form.Controller) { ctl.OnDataChange(pw2, "abc") })
		require.NoError(t, err)

		select {
		case u := <-sub.Receive():
			assert.Equal(t, form.ChangeField, u.Kind)
			assert.Equal(t, pw2, u.Key)
			assert.False(t, u.Valid)
			assert.Len(t, u.Errors[pw2], 2)
		case <-time.After(time.Second):
			t.Fatal("no update received")
		}
	})

	t.Run("predicate panic faults the session", func(t *testing.T) {
		t.Parallel()
		var armed atomic.Bool
		defs := []form.Definition{
			form.Isolated([]string{"x"}, "boom", func(form.Values, string) form.Outcome {
				if armed.Load() {
					panic("broken rule")
				}
				return form.Pass
			}),
			form.Isolated([]string{"x"}, msgRequired, validator.Required()),
		}
		store, err := formhttp.NewStore(defs, formhttp.WithCleanupInterval(0), formhttp.WithIdleTimeout(0))
		require.NoError(t, err)
		defer store.Close()

		sess, err := store.Create(context.Background())
		require.NoError(t, err)
		sub := sess.Subscribe(context.Background())

		st, err := sess.Apply(func(ctl *form.Controller) { ctl.Validate() })
		require.NoError(t, err)
		require.False(t, st.Valid)
		<-sub.Receive()

		armed.Store(true)
		_, err = sess.Apply(func(ctl *form.Controller) { ctl.OnDataChange("x", "   ") })
		var fault *form.PredicateFault
		require.ErrorAs(t, err, &fault)
		assert.Equal(t, "x", fault.Key)

		// The bundle was cleared before the panic; the session must not
		// look submittable.
		st = sess.State()
		assert.False(t, st.Valid)
		assert.True(t, st.Faulted)
		assert.True(t, sess.Faulted())

		ran := false
		err = sess.Do(func(*form.Controller) { ran = true })
		assert.ErrorIs(t, err, formhttp.ErrSessionFaulted)
		assert.ErrorAs(t, err, &fault)
		assert.False(t, ran)

		_, ok := <-sub.Receive()
		assert.False(t, ok, "subscriptions end when the session faults")

		assert.Equal(t, 1, store.EvictIdle())
		_, err = store.Get(sess.ID())
		assert.ErrorIs(t, err, formhttp.ErrSessionNotFound)
	})

	t.Run("other panics propagate", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)
		sess, err := store.Create(context.Background())
		require.NoError(t, err)

		assert.PanicsWithValue(t, "unrelated", func() {
			_ = sess.Do(func(*form.Controller) { panic("unrelated") })
		})
		assert.NotPanics(t, func() { _ = sess.State() })
	})

	t.Run("concurrent edits are serialized", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)
		sess, err := store.Create(context.Background())
		require.NoError(t, err)

		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = sess.Apply(func(ctl *form.Controller) {
					ctl.OnDataChange(pw1, "password-one")
					ctl.OnDataChange(pw2, "password-one")
				})
			}()
		}
		wg.Wait()

		st := sess.State()
		assert.True(t, st.Valid)
		assert.Equal(t, form.Values{pw1: "password-one", pw2: "password-one"}, st.Values)
	})
}

type countingHub struct {
	*broadcast.MemoryBroadcaster
	published *atomic.Int32
}

func (h countingHub) Broadcast(ctx context.Context, u broadcast.Update) error {
	h.published.Add(1)
	return h.MemoryBroadcaster.Broadcast(ctx, u)
}

func TestStoreBroadcaster(t *testing.T) {
	t.Parallel()

	var (
		published atomic.Int32
		ids       []string
		mu        sync.Mutex
	)
	store := newStore(t, formhttp.WithBroadcaster(func(id string) broadcast.Broadcaster {
		mu.Lock()
		ids = append(ids, id)
		mu.Unlock()
		return countingHub{MemoryBroadcaster: broadcast.NewMemoryBroadcaster(4), published: &published}
	}))

	sess, err := store.Create(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{sess.ID()}, ids)

	_, err = sess.Apply(func(ctl *form.Controller) {
		ctl.OnDataChange(pw1, "abc")
		ctl.Validate()
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), published.Load())
}
