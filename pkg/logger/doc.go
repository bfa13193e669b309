// Package logger builds the log/slog loggers used across formkit.
//
// New creates a *slog.Logger configured by Option functions: output format
// (text or json), minimum level, static attributes and ContextExtractor
// callbacks that copy values such as a form session id from context.Context
// into every record. Discard returns a logger that drops everything and is the
// default for the validation engine.
//
// Attribute helpers in attr.go (FieldKey, RuleID, Outcome, SessionID, ...)
// keep attribute names consistent between packages.
//
//	log := logger.New(
//	    logger.WithEnvironment("development", "formdemo"),
//	    logger.WithContextExtractors(formhttp.LogExtractor()),
//	)
//	log.DebugContext(ctx, "field validated", logger.FieldKey("email"))
package logger
