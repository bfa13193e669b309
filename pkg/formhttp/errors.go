package formhttp

import "errors"

var (
	ErrSessionNotFound = errors.New("form session not found")
	ErrStoreClosed     = errors.New("form session store is closed")
	ErrMissingValue    = errors.New("request carries no field value")
	ErrInvalidBody     = errors.New("invalid request body")
	ErrMissingField    = errors.New("field key is required")
	ErrSessionFaulted  = errors.New("form session faulted and accepts no changes")
)
