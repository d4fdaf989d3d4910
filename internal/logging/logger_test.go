package logging

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
)

func TestNew_ProdIsJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "prod", "")

	logger.Debug("hidden")
	logger.Info("shown", slog.String("key", "students"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"students"`)
}

func TestNew_LevelOverride(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "dev", "error")

	logger.Warn("dropped")
	logger.Error("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "msg=kept")
}

func TestFromContext_RequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(New(&buf, "dev", ""))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	FromContext(ctx).Info("hello")

	assert.Contains(t, buf.String(), "request_id=req-42")
}

func TestFromContext_PrefersInjectedLogger(t *testing.T) {
	var dflt, own bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(New(&dflt, "dev", ""))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := middleware.RequestID(Middleware(New(&own, "dev", ""))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			FromContext(r.Context()).Info("handled")
		})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Empty(t, dflt.String())
	assert.Contains(t, own.String(), "msg=handled")
	assert.Contains(t, own.String(), "request_id=")
}

func TestMiddleware_NilKeepsDefault(t *testing.T) {
	var dflt bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(New(&dflt, "dev", ""))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Info("fallback")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, dflt.String(), "msg=fallback")
}
