package formhttp

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/logger"
)

// envelope is the JSON body of every non-stream response.
type envelope struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Data: data})
}

// writeError maps err to a status code and error code. Unknown errors are
// logged and reported as 500 without their message.
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status, code, msg := http.StatusInternalServerError, "internal_error", "internal server error"

	var (
		tooLarge *http.MaxBytesError
		fault    *form.PredicateFault
	)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		status, code, msg = http.StatusNotFound, "session_not_found", err.Error()
	case errors.Is(err, ErrStoreClosed):
		status, code, msg = http.StatusServiceUnavailable, "unavailable", err.Error()
	case errors.As(err, &tooLarge):
		status, code, msg = http.StatusRequestEntityTooLarge, "body_too_large", "request body too large"
	case errors.Is(err, ErrMissingValue), errors.Is(err, ErrInvalidBody), errors.Is(err, ErrMissingField):
		status, code, msg = http.StatusBadRequest, "bad_request", err.Error()
	case errors.Is(err, ErrSessionFaulted):
		status, code, msg = http.StatusConflict, "session_faulted", ErrSessionFaulted.Error()
	case errors.As(err, &fault):
		log.ErrorContext(r.Context(), "rule predicate failed",
			logger.RuleID(fault.RuleID), logger.FieldKey(fault.Key), logger.Error(err))
	default:
		log.ErrorContext(r.Context(), "form request failed", logger.Error(err))
	}

	writeJSON(w, status, envelope{Error: &ErrorDetail{Code: code, Message: msg}})
}

// messages flattens a bundle snapshot into display strings per key.
func messages(errs map[string][]form.FormError) map[string][]string {
	out := make(map[string][]string, len(errs))
	for k, list := range errs {
		msgs := make([]string, len(list))
		for i, e := range list {
			msgs[i] = e.Message
		}
		out[k] = msgs
	}
	return out
}
