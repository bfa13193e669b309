package httpserver_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/httpserver"
)

func TestServer(t *testing.T) {
	t.Run("serves until context is cancelled", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		hookRan := make(chan struct{})
		srv := httpserver.New(httpserver.Config{ShutdownTimeout: time.Second},
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("ok"))
			}),
			httpserver.WithShutdownHook(func(context.Context) error {
				close(hookRan)
				return nil
			}),
		)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- srv.Serve(ctx, ln) }()

		var resp *http.Response
		require.Eventually(t, func() bool {
			resp, err = http.Get("http://" + ln.Addr().String())
			return err == nil
		}, time.Second, 10*time.Millisecond)
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		assert.Equal(t, "ok", string(body))

		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("server did not stop")
		}
		<-hookRan
	})

	t.Run("second serve is rejected", func(t *testing.T) {
		ln1, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		ln2, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		srv := httpserver.New(httpserver.Config{}, nil)
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- srv.Serve(ctx, ln1) }()

		require.Eventually(t, func() bool {
			resp, err := http.Get("http://" + ln1.Addr().String())
			if err != nil {
				return false
			}
			_ = resp.Body.Close()
			return resp.StatusCode == http.StatusNotFound
		}, time.Second, 10*time.Millisecond)

		assert.ErrorIs(t, srv.Serve(ctx, ln2), httpserver.ErrAlreadyRunning)

		cancel()
		assert.NoError(t, <-done)
	})

	t.Run("failing hook is reported", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		srv := httpserver.New(httpserver.Config{}, nil,
			httpserver.WithShutdownHook(func(context.Context) error { return assert.AnError }))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err = srv.Serve(ctx, ln)
		assert.ErrorIs(t, err, httpserver.ErrShutdown)
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("bad address", func(t *testing.T) {
		srv := httpserver.New(httpserver.Config{Addr: "256.0.0.1:bad"}, nil)
		assert.ErrorIs(t, srv.Run(context.Background()), httpserver.ErrStart)
	})
}

func TestHealthHandler(t *testing.T) {
	t.Run("liveness", func(t *testing.T) {
		rec := httptest.NewRecorder()
		httpserver.HealthHandler(nil)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ALIVE", rec.Body.String())
	})

	t.Run("ready", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ok := func(context.Context) error { return nil }
		httpserver.HealthHandler(nil, ok)(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "READY", rec.Body.String())
	})

	t.Run("not ready", func(t *testing.T) {
		rec := httptest.NewRecorder()
		bad := func(context.Context) error { return assert.AnError }
		httpserver.HealthHandler(nil, bad)(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "NOT_READY", rec.Body.String())
	})
}
