package formhttp

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/logger"
)

// signalNamespace holds the validation signals on the client:
// $form.valid and $form.errors.<key>.
const signalNamespace = "form"

// isDataStar reports whether r was sent by the datastar client.
func isDataStar(r *http.Request) bool {
	if r.Header.Get("Datastar-Request") == "true" {
		return true
	}
	if strings.Contains(r.Header.Get("Accept"), "text/event-stream") {
		return true
	}
	return r.URL.Query().Has("datastar")
}

// formSignals lists every key so the client merge clears resolved errors.
func formSignals(errs map[string][]form.FormError, valid bool, keys []string) map[string]any {
	msgs := messages(errs)
	for _, k := range keys {
		if _, ok := msgs[k]; !ok {
			msgs[k] = []string{}
		}
	}
	return map[string]any{
		"valid":  valid,
		"errors": msgs,
	}
}

// pushErrors sends the validation signals and one error list fragment per key.
func pushErrors(sse *datastar.ServerSentEventGenerator, errs map[string][]form.FormError, valid bool, keys []string) error {
	raw, err := json.Marshal(map[string]any{signalNamespace: formSignals(errs, valid, keys)})
	if err != nil {
		return err
	}
	if err := sse.PatchSignals(raw); err != nil {
		return err
	}
	for _, k := range keys {
		if err := sse.PatchElementTempl(ErrorList(k, errs[k]), datastar.WithSelector("#"+ErrorsID(k))); err != nil {
			return err
		}
	}
	return nil
}

// stream keeps a datastar connection open and pushes the error state after
// every change to the session. It ends when the client goes away or the
// session is closed.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFromContext(ctx)
	sub := sess.Subscribe(ctx)
	defer sub.Close()

	keys := sess.Keys()
	sse := datastar.NewSSE(w, r)

	st := sess.State()
	if err := pushErrors(sse, st.Errors, st.Valid, keys); err != nil {
		h.log.DebugContext(ctx, "stream closed", logger.Error(err))
		return
	}
	h.log.DebugContext(ctx, "stream opened")

	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-sub.Receive():
			if !ok {
				h.log.DebugContext(ctx, "stream ended by session close")
				return
			}
			if err := pushErrors(sse, u.Errors, u.Valid, keys); err != nil {
				h.log.DebugContext(ctx, "stream closed", logger.Error(err))
				return
			}
		}
	}
}
