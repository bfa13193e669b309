package formhttp_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/formhttp"
	"github.com/dmitrymomot/formkit/pkg/validator"
)

const (
	pw1 = "password1"
	pw2 = "password2"

	msgRequired = "Field is required"
	msgShort    = "Password must be at least 8 characters"
	msgMismatch = "Passwords must match"
)

func signupRules() []form.Definition {
	return form.NewBuilder().
		Isolated([]string{pw1, pw2}, msgRequired, validator.Required()).
		Isolated([]string{pw1, pw2}, msgShort, validator.Field(validator.MinLen(8))).
		Joint([]string{pw1, pw2}, msgMismatch, validator.Equal(pw1, pw2), form.WithErrorKeys(pw2)).
		Build()
}

func newStore(t *testing.T, opts ...formhttp.StoreOption) *formhttp.Store {
	t.Helper()
	opts = append([]formhttp.StoreOption{formhttp.WithCleanupInterval(0)}, opts...)
	store, err := formhttp.NewStore(signupRules(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newRouter(t *testing.T, opts ...formhttp.Option) (*formhttp.Store, http.Handler) {
	t.Helper()
	store := newStore(t)
	return store, formhttp.NewHandler(store, opts...).Routes()
}

func serve(h http.Handler, method, target string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type envelope[T any] struct {
	Data  T                     `json:"data"`
	Error *formhttp.ErrorDetail `json:"error"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := serve(h, http.MethodPost, "/sessions", nil, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[formhttp.SessionView](t, rec).Data.ID
	require.NotEmpty(t, id)
	return id
}

var formBody = map[string]string{"Content-Type": "application/x-www-form-urlencoded"}
