package redis

import "errors"

var (
	ErrNoURL       = errors.New("redis: connection url is not set")
	ErrInvalidURL  = errors.New("redis: invalid connection url")
	ErrNotReady    = errors.New("redis: server did not answer ping")
	ErrUnreachable = errors.New("redis: readiness ping failed")
)
