package formhttp

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/formkit/pkg/logger"
)

type (
	sessionIDKey struct{}
	sessionKey   struct{}
)

// WithSessionID stores the form session id in ctx.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, id)
}

// SessionIDFromContext returns the form session id stored in ctx.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(sessionIDKey{}).(string)
	return id, ok && id != ""
}

// LogExtractor adds the session id of the request to every log record.
//
//	log := logger.New(logger.WithContextExtractors(formhttp.LogExtractor()))
func LogExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id, ok := SessionIDFromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return logger.SessionID(id), true
	}
}

func withSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(WithSessionID(ctx, s.ID()), sessionKey{}, s)
}

func sessionFromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
