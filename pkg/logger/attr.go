package logger

import (
	"log/slog"
	"time"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// FieldKey records a form field key under "field".
// An empty key yields an empty Attr, which slog drops.
func FieldKey(key string) slog.Attr {
	if key == "" {
		return slog.Attr{}
	}
	return slog.String("field", key)
}

// RuleID records a rule id under "rule_id".
func RuleID(id int) slog.Attr {
	return slog.Int("rule_id", id)
}

// Mode records a rule evaluation mode under "mode".
func Mode(mode string) slog.Attr {
	return slog.String("mode", mode)
}

// Outcome records a predicate outcome under "outcome".
func Outcome(outcome string) slog.Attr {
	return slog.String("outcome", outcome)
}

// SessionID records a form session identifier under "session_id".
// If id is nil, it returns an empty Attr.
func SessionID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("session_id", id)
}

// Component records the component name under "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Duration records an elapsed time under "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
