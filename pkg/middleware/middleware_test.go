package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/estoque/pkg/logger"
	"github.com/shashiranjanraj/estoque/pkg/reqid"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(r.Method))
})

func TestMethodOverride(t *testing.T) {
	h := MethodOverride(okHandler)

	cases := []struct {
		name   string
		method string
		header string
		value  string
		query  string
		want   string
	}{
		{"x-http-method", http.MethodPost, "X-HTTP-Method", "PUT", "", http.MethodPut},
		{"x-http-method-override", http.MethodPost, "X-HTTP-Method-Override", "delete", "", http.MethodDelete},
		{"x-method-override", http.MethodPost, "X-Method-Override", "PATCH", "", http.MethodPatch},
		{"query", http.MethodPost, "", "", "?_method=DELETE", http.MethodDelete},
		{"get is never rewritten", http.MethodGet, "X-HTTP-Method", "DELETE", "", http.MethodGet},
		{"unknown method ignored", http.MethodPost, "X-HTTP-Method", "TRACE", "", http.MethodPost},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/api/produtos/1"+tc.query, nil)
			if tc.header != "" {
				req.Header.Set(tc.header, tc.value)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Body.String())
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	h := CORS(DefaultCORSOptions())(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/produtos", nil)
	req.Header.Set("Origin", "http://localhost:8081")
	req.Header.Set("Access-Control-Request-Method", "PUT")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-HTTP-Method-Override")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/produtos", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryReturnsJSON500(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":500`)
}

func TestLoggerTagsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger.Setup("production", &buf)
	t.Cleanup(func() { logger.Setup("local", os.Stdout) })

	var inner string
	h := reqid.Middleware()(Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.WithCtx(r.Context()).Info("inside")
		inner = reqid.FromCtx(r.Context())
		w.WriteHeader(http.StatusNotFound)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/produtos/9", nil))

	require.NotEmpty(t, inner)
	out := buf.String()
	assert.Contains(t, out, `"msg":"inside"`)
	assert.Contains(t, out, `"request_id":"`+inner+`"`)
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"status":404`)
}

func TestMemoryLimiterWindow(t *testing.T) {
	l := NewMemoryLimiter(2, time.Minute)
	defer l.Close()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := l.Allow(ctx, "1.2.3.4")
	assert.False(t, ok)

	other, _ := l.Allow(ctx, "5.6.7.8")
	assert.True(t, other)

	now = now.Add(time.Minute + time.Second)
	ok, _ = l.Allow(ctx, "1.2.3.4")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	l.evict()
	l.mu.Lock()
	assert.Empty(t, l.buckets)
	l.mu.Unlock()
}

func TestRateLimitMiddlewareRejectsWith429(t *testing.T) {
	l := NewMemoryLimiter(1, time.Minute)
	defer l.Close()
	h := RateLimit(l)(okHandler)

	req := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec
	}

	assert.Equal(t, http.StatusOK, req().Code)
	rec := req()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":429`)
}

func TestRateLimitIgnoresRotatingForwardedFor(t *testing.T) {
	l := NewMemoryLimiter(1, time.Minute)
	defer l.Close()
	h := RateLimit(l)(okHandler)

	send := func(fwd string) int {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.1:1234"
		r.Header.Set("X-Forwarded-For", fwd)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("1.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("2.2.2.2"))
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) { return false, assert.AnError }
func (failingLimiter) Driver() string                              { return "redis" }

func TestRateLimitFailsOpen(t *testing.T) {
	rec := httptest.NewRecorder()
	RateLimit(failingLimiter{})(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

// TestRedisLimiter needs a reachable Redis; set REDIS_TEST_ADDR to run it.
func TestRedisLimiter(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	l := NewRedisLimiter(client, 2, time.Minute)
	l.prefix = "estoque:test:" + reqid.New() + ":"

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.False(t, ok)
}
