package broadcast

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/logger"
)

// Notifier returns a form change callback that publishes a snapshot of
// errors to b after every change. Install it with Controller.OnChange.
// Publishing failures are logged, never returned to the engine.
func Notifier(ctx context.Context, b Broadcaster, errors *form.Bundle, log *slog.Logger) form.ChangeFunc {
	if log == nil {
		log = logger.Discard()
	}
	var seq atomic.Uint64
	return func(c form.Change) {
		u := Update{
			Seq:    seq.Add(1),
			Kind:   c.Kind,
			Key:    c.Key,
			Errors: errors.Snapshot(),
			Valid:  errors.Valid(),
		}
		if err := b.Broadcast(ctx, u); err != nil {
			log.WarnContext(ctx, "form update not published",
				logger.FieldKey(c.Key),
				slog.String("change", c.Kind.String()),
				logger.Error(err),
			)
		}
	}
}
