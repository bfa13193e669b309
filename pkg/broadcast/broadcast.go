package broadcast

import (
	"context"
	"sync"

	"github.com/dmitrymomot/formkit/pkg/form"
)

// Update is published after every form mutation. Errors is a deep copy of
// the error bundle taken when the change happened.
type Update struct {
	Seq    uint64                      `json:"seq"`
	Kind   form.ChangeKind             `json:"kind"`
	Key    string                      `json:"key,omitempty"`
	Errors map[string][]form.FormError `json:"errors"`
	Valid  bool                        `json:"valid"`
}

// Subscriber receives updates from a Broadcaster.
type Subscriber interface {
	// Receive returns the channel updates are delivered on. It is closed when
	// the subscriber or the broadcaster is closed.
	Receive() <-chan Update

	// Close releases the subscription. It is idempotent.
	Close() error
}

// Broadcaster fans updates out to many subscribers.
// A subscriber whose buffer is full loses its oldest pending update, so it
// always ends up holding the most recent error snapshot.
type Broadcaster interface {
	// Subscribe registers a subscriber bound to ctx; cancelling ctx
	// unsubscribes it.
	Subscribe(ctx context.Context) Subscriber

	// Broadcast delivers u to every active subscriber.
	Broadcast(ctx context.Context, u Update) error

	// Subscribers returns the number of subscribers attached to this
	// broadcaster instance.
	Subscribers() int

	// Close shuts down the broadcaster and closes all subscribers.
	Close() error
}

type subscriber struct {
	ch     chan Update
	closed bool
	mu     sync.Mutex
}

func newSubscriber(bufferSize int) *subscriber {
	return &subscriber{ch: make(chan Update, bufferSize)}
}

func (s *subscriber) Receive() <-chan Update {
	return s.ch
}

func (s *subscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		close(s.ch)
		s.closed = true
	}
	return nil
}

// send never blocks. It reports false only when the subscriber is closed.
func (s *subscriber) send(u Update) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	for {
		select {
		case s.ch <- u:
			return true
		default:
		}
		// Full: discard the oldest update. The reader may win the race and
		// empty the slot first, in which case the next send succeeds.
		select {
		case <-s.ch:
		default:
		}
	}
}
