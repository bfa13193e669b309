package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/formkit/pkg/logger"
)

// ErrPublish wraps failures to publish an update to Redis.
var ErrPublish = errors.New("broadcast: failed to publish update")

// RedisBroadcaster fans updates out through a Redis pub/sub channel, so
// subscribers in other processes see them too. Each subscriber holds its own
// Redis subscription and buffers updates like MemoryBroadcaster does.
type RedisBroadcaster struct {
	client     redis.UniversalClient
	channel    string
	bufferSize int
	log        *slog.Logger

	mu     sync.Mutex
	subs   map[*redisSubscriber]struct{}
	closed bool
	wg     sync.WaitGroup
}

// NewRedisBroadcaster publishes to and subscribes on channel.
// The client is owned by the caller and is not closed by Close.
func NewRedisBroadcaster(client redis.UniversalClient, channel string, bufferSize int, log *slog.Logger) *RedisBroadcaster {
	if log == nil {
		log = logger.Discard()
	}
	return &RedisBroadcaster{
		client:     client,
		channel:    channel,
		bufferSize: max(bufferSize, 1),
		log:        log,
		subs:       make(map[*redisSubscriber]struct{}),
	}
}

type redisSubscriber struct {
	*subscriber
	pubsub *redis.PubSub
	cancel context.CancelFunc
}

func (s *redisSubscriber) Close() error {
	s.cancel()
	return s.subscriber.Close()
}

// Subscribe opens a Redis subscription bound to ctx. If the subscription
// cannot be confirmed the returned subscriber is already closed.
func (b *RedisBroadcaster) Subscribe(ctx context.Context) Subscriber {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()

	base := newSubscriber(b.bufferSize)
	if closed {
		_ = base.Close()
		return base
	}

	ctx, cancel := context.WithCancel(ctx)
	ps := b.client.Subscribe(ctx, b.channel)
	if _, err := ps.Receive(ctx); err != nil {
		b.log.WarnContext(ctx, "redis subscription failed", slog.String("channel", b.channel), logger.Error(err))
		cancel()
		_ = ps.Close()
		_ = base.Close()
		return base
	}

	sub := &redisSubscriber{subscriber: base, pubsub: ps, cancel: cancel}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		_ = sub.Close()
		_ = ps.Close()
		return sub
	}
	b.subs[sub] = struct{}{}
	b.wg.Add(1)
	b.mu.Unlock()

	go b.pump(ctx, sub)
	return sub
}

func (b *RedisBroadcaster) pump(ctx context.Context, sub *redisSubscriber) {
	defer b.wg.Done()
	defer b.remove(sub)

	ch := sub.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var u Update
			if err := json.Unmarshal([]byte(msg.Payload), &u); err != nil {
				b.log.WarnContext(ctx, "malformed form update", slog.String("channel", b.channel), logger.Error(err))
				continue
			}
			if !sub.send(u) {
				return
			}
		}
	}
}

func (b *RedisBroadcaster) remove(sub *redisSubscriber) {
	b.mu.Lock()
	delete(b.subs, sub)
	b.mu.Unlock()

	_ = sub.Close()
	_ = sub.pubsub.Close()
}

// Broadcast publishes u as JSON on the channel.
func (b *RedisBroadcaster) Broadcast(ctx context.Context, u Update) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrClosed
	}

	payload, err := json.Marshal(u)
	if err != nil {
		return errors.Join(ErrPublish, err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return errors.Join(ErrPublish, err)
	}
	return nil
}

// Subscribers returns the number of subscriptions opened by this instance.
func (b *RedisBroadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close ends every subscription opened by this instance.
func (b *RedisBroadcaster) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	subs := make([]*redisSubscriber, 0, len(b.subs))
	for sub := range b.subs {
		subs = append(subs, sub)
	}
	b.mu.Unlock()

	for _, sub := range subs {
		_ = sub.Close()
	}
	b.wg.Wait()
	return nil
}
