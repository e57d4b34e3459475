package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietServer(origins ...string) *Server {
	return NewServer("127.0.0.1:0", slog.New(slog.DiscardHandler), origins...)
}

func serve(s *Server, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestNewServer_ConfiguredAddr(t *testing.T) {
	s := NewServer(":8080", nil)

	assert.Equal(t, ":8080", s.Addr())
	assert.NotNil(t, s.Router())
}

func TestServer_Middleware(t *testing.T) {
	s := quietServer()
	var requestID string
	s.Router().Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		requestID = middleware.GetReqID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	s.Router().Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	assert.Equal(t, http.StatusNotFound, serve(s, http.MethodGet, "/missing", nil).Code)

	assert.Equal(t, http.StatusNoContent, serve(s, http.MethodGet, "/ping", nil).Code)
	assert.NotEmpty(t, requestID, "request id should reach handlers")

	assert.Equal(t, http.StatusInternalServerError, serve(s, http.MethodGet, "/boom", nil).Code)
}

func TestServer_CORS(t *testing.T) {
	s := quietServer("https://map.example")
	s.Router().Get("/thing", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	preflight := func(origin string) string {
		w := serve(s, http.MethodOptions, "/thing", http.Header{
			"Origin":                        {origin},
			"Access-Control-Request-Method": {http.MethodGet},
		})
		return w.Header().Get("Access-Control-Allow-Origin")
	}

	assert.Equal(t, "https://map.example", preflight("https://map.example"))
	assert.Empty(t, preflight("https://elsewhere.example"))
}

func TestServer_CORSDisabledWithoutOrigins(t *testing.T) {
	s := quietServer()
	s.Router().Get("/thing", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	w := serve(s, http.MethodGet, "/thing", http.Header{"Origin": {"https://map.example"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_StartAndShutdown(t *testing.T) {
	s := quietServer()
	s.Router().Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "pong")
	})
	require.NoError(t, s.Listen())
	assert.NotEqual(t, "127.0.0.1:0", s.Addr())

	done := make(chan error, 1)
	go func() { done <- s.Start() }()

	resp, err := http.Get(fmt.Sprintf("http://%s/ping", s.Addr()))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
}

func TestServer_ShutdownBeforeStart(t *testing.T) {
	s := quietServer()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	assert.NoError(t, s.Shutdown(ctx))
	assert.NoError(t, s.Start(), "a server shut down first returns immediately")
}
