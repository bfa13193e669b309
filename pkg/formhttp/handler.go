package formhttp

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/logger"
)

const defaultMaxBodySize = 64 << 10

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the request logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(h *Handler) {
		h.title = title
	}
}

// WithBasePath sets the path the router is mounted at, used to build links
// on the rendered page.
func WithBasePath(path string) Option {
	return func(h *Handler) {
		h.basePath = path
	}
}

// WithFields overrides the inputs rendered on the page. By default every
// rule key gets a text input.
func WithFields(fields ...Field) Option {
	return func(h *Handler) {
		h.fields = fields
	}
}

// WithMaxBodySize limits request bodies. Non-positive values are ignored.
func WithMaxBodySize(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBody = n
		}
	}
}

// Handler exposes form sessions over HTTP. Mutations answer with JSON, or
// with a datastar event stream when the request comes from datastar.
type Handler struct {
	store    *Store
	log      *slog.Logger
	title    string
	basePath string
	fields   []Field
	maxBody  int64
}

// NewHandler returns a handler serving sessions from store.
func NewHandler(store *Store, opts ...Option) *Handler {
	h := &Handler{
		store:   store,
		log:     logger.Discard(),
		title:   "Form",
		maxBody: defaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.With(logger.Component("formhttp"))
	return h
}

// Routes returns the router:
//
//	GET    /                                 new session, rendered as a page
//	POST   /sessions                         new session
//	GET    /sessions/{id}                    values and errors
//	DELETE /sessions/{id}                    drop the session
//	GET    /sessions/{id}/page               render the page
//	GET    /sessions/{id}/errors             errors, optionally ?field=key
//	GET    /sessions/{id}/stream             datastar update stream
//	POST   /sessions/{id}/validate           whole-form validation
//	POST   /sessions/{id}/submit             validate and gate submission
//	POST   /sessions/{id}/reset              clear everything
//	PUT    /sessions/{id}/fields/{key}       set a value and validate it
//	DELETE /sessions/{id}/fields/{key}       clear one field
//	POST   /sessions/{id}/fields/{key}/validate
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.newPage)
	r.Post("/sessions", h.createSession)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Use(h.loadSession)
		r.Get("/", h.getState)
		r.Delete("/", h.deleteSession)
		r.Get("/page", h.page)
		r.Get("/errors", h.getErrors)
		r.Get("/stream", h.stream)
		r.Post("/validate", h.validate)
		r.Post("/submit", h.submit)
		r.Post("/reset", h.reset)
		r.Route("/fields/{key}", func(r chi.Router) {
			r.Put("/", h.changeField)
			r.Post("/", h.changeField)
			r.Delete("/", h.resetField)
			r.Post("/validate", h.validateField)
		})
	})
	return r
}

// RuleView describes a registered rule.
type RuleView struct {
	ID      int      `json:"id"`
	Mode    string   `json:"mode"`
	Inputs  []string `json:"inputs"`
	Errors  []string `json:"errors"`
	Message string   `json:"message"`
}

// SessionView is returned when a session is created.
type SessionView struct {
	ID     string     `json:"id"`
	Fields []string   `json:"fields"`
	Rules  []RuleView `json:"rules"`
}

func (h *Handler) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.store.Get(chi.URLParam(r, "sessionID"))
		if err != nil {
			writeError(w, r, h.log, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), sess)))
	})
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Create(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	view := SessionView{ID: sess.ID()}
	sess.read(func(ctl *form.Controller) {
		view.Fields = ctl.Rules().Keys()
		for _, rule := range ctl.Rules().All() {
			view.Rules = append(view.Rules, RuleView{
				ID:      rule.ID,
				Mode:    rule.Mode.String(),
				Inputs:  rule.InputKeys,
				Errors:  rule.ErrorKeys,
				Message: rule.Message,
			})
		}
	})

	w.Header().Set("Location", h.sessionPath(sess.ID()))
	writeData(w, http.StatusCreated, view)
}

func (h *Handler) newPage(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Create(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.renderPage(w, r, sess)
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, sessionFromContext(r.Context()))
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, sess *Session) {
	fields := h.fields
	if len(fields) == 0 {
		fields = FieldsFromKeys(sess.Keys())
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := Page(h.title, h.sessionPath(sess.ID()), sess.State(), fields).Render(r.Context(), w); err != nil {
		h.log.ErrorContext(r.Context(), "page render failed", logger.Error(err))
	}
}

func (h *Handler) getState(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, sessionFromContext(r.Context()).State())
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(sessionFromContext(r.Context()).ID()); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getErrors(w http.ResponseWriter, r *http.Request) {
	st := sessionFromContext(r.Context()).State()
	errs := st.Errors
	if key := r.URL.Query().Get("field"); key != "" {
		errs = map[string][]form.FormError{}
		if list, ok := st.Errors[key]; ok {
			errs[key] = list
		}
	}
	writeData(w, http.StatusOK, map[string]any{
		"errors": errs,
		"valid":  st.Valid,
	})
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctl *form.Controller) { ctl.Validate() })
}

func (h *Handler) reset(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctl *form.Controller) { ctl.Reset() })
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	st, err := sess.Apply(func(ctl *form.Controller) { ctl.Validate() })
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if isDataStar(r) {
		sse := datastar.NewSSE(w, r)
		if err := pushErrors(sse, st.Errors, st.Valid, sess.Keys()); err != nil {
			h.log.DebugContext(r.Context(), "datastar push failed", logger.Error(err))
			return
		}
		if err := sse.PatchElementTempl(Status(st.Valid, true), datastar.WithSelector("#"+StatusID)); err != nil {
			h.log.DebugContext(r.Context(), "datastar push failed", logger.Error(err))
		}
		return
	}

	if !st.Valid {
		writeJSON(w, http.StatusUnprocessableEntity, envelope{Error: &ErrorDetail{
			Code:    "validation_failed",
			Message: "form has errors",
			Details: messages(st.Errors),
		}})
		return
	}
	h.log.InfoContext(r.Context(), "form submitted")
	writeData(w, http.StatusOK, st)
}

func (h *Handler) changeField(w http.ResponseWriter, r *http.Request) {
	key, err := fieldKey(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	value, err := readValue(r, key)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.mutate(w, r, func(ctl *form.Controller) { ctl.OnDataChange(key, value) })
}

func (h *Handler) resetField(w http.ResponseWriter, r *http.Request) {
	key, err := fieldKey(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.mutate(w, r, func(ctl *form.Controller) { ctl.ResetField(key) })
}

func (h *Handler) validateField(w http.ResponseWriter, r *http.Request) {
	key, err := fieldKey(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.mutate(w, r, func(ctl *form.Controller) { ctl.ValidateField(key) })
}

// mutate applies fn to the request's session and answers with the new state.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, fn func(ctl *form.Controller)) {
	sess := sessionFromContext(r.Context())
	st, err := sess.Apply(fn)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if isDataStar(r) {
		sse := datastar.NewSSE(w, r)
		if err := pushErrors(sse, st.Errors, st.Valid, sess.Keys()); err != nil {
			h.log.DebugContext(r.Context(), "datastar push failed", logger.Error(err))
		}
		return
	}
	writeData(w, http.StatusOK, st)
}

func (h *Handler) sessionPath(id string) string {
	return h.basePath + "/sessions/" + id
}

func fieldKey(r *http.Request) (string, error) {
	key, err := url.PathUnescape(chi.URLParam(r, "key"))
	if err != nil {
		return "", errors.Join(ErrInvalidBody, err)
	}
	if key == "" {
		return "", ErrMissingField
	}
	return key, nil
}

// readValue extracts the new value of key from datastar signals, a JSON body
// {"value": "..."} or a form field named value.
func readValue(r *http.Request, key string) (string, error) {
	if isDataStar(r) {
		signals := map[string]any{}
		if err := datastar.ReadSignals(r, &signals); err != nil {
			return "", bodyError(err)
		}
		raw, ok := signals[key]
		if !ok {
			return "", ErrMissingValue
		}
		return signalText(raw), nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var body struct {
			Value *string `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return "", bodyError(err)
		}
		if body.Value == nil {
			return "", ErrMissingValue
		}
		return *body.Value, nil
	}

	if err := r.ParseForm(); err != nil {
		return "", bodyError(err)
	}
	if !r.Form.Has("value") {
		return "", ErrMissingValue
	}
	return r.Form.Get("value"), nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return errors.Join(ErrInvalidBody, err)
}

func signalText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}
