// Package broadcast fans form updates out to any number of subscribers.
//
// The form engine has a single change slot. Notifier adapts that slot into an
// event stream: every change publishes an Update carrying a snapshot of the
// error bundle, and each subscriber (for example one server-sent event
// connection per browser tab) reads updates from its own buffered channel.
//
//	b := broadcast.NewMemoryBroadcaster(16)
//	defer b.Close()
//
//	ctl.OnChange(broadcast.Notifier(ctx, b, ctl.Errors(), log))
//
//	sub := b.Subscribe(reqCtx)
//	for u := range sub.Receive() {
//	    render(u.Errors)
//	}
//
// Publishing never blocks the engine: a subscriber that falls behind loses
// its oldest buffered update. A subscription ends when its context is
// cancelled. NewRedisBroadcaster carries the same updates across processes.
package broadcast
