// Package ctx provides the request context estoque handlers receive.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a single *Context:
//
//	func Show(c *ctx.Context) {
//	    p, err := svc.Find(c.Context(), models.ID(c.Param("id")))
//	    ...
//	    c.JSON(http.StatusOK, p)
//	}
//
//	router.Get("/produtos/{id}", "produtos.show", ctx.Wrap(Show))
package ctx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/estoque/config"
	"github.com/shashiranjanraj/estoque/pkg/bind"
	"github.com/shashiranjanraj/estoque/pkg/logger"
	"github.com/shashiranjanraj/estoque/pkg/response"
	"github.com/shashiranjanraj/estoque/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// ─── Context ──────────────────────────────────────────────────────────────────

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int // 0 until a response is written
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a decoded URL path parameter (e.g. "/produtos/{id}" →
// c.Param("id")). chi matches on the escaped path when the request has one,
// so "maria%40loja.com" comes back as "maria@loja.com". A segment that does
// not decode is returned as sent.
func (c *Context) Param(key string) string {
	raw := chi.URLParam(c.R, key)
	if c.R.URL.RawPath == "" {
		return raw
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// Query returns a query-string value, "" if absent.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

// ClientIP returns the client address of the request.
func (c *Context) ClientIP() string {
	return ClientIP(c.R)
}

// Context returns the request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Log returns the request-scoped logger.
func (c *Context) Log() *slog.Logger { return logger.WithCtx(c.R.Context()) }

// ─── Binding ──────────────────────────────────────────────────────────────────

// BindJSON decodes the body into dest. On malformed input it sends a 400 and
// returns false. Validation is left to the service layer.
//
//	var in requests.ProductRequest
//	if !c.BindJSON(&in) {
//	    return // response already sent
//	}
func (c *Context) BindJSON(dest any) bool {
	if err := bind.JSON(c.R, dest); err != nil {
		c.Error(http.StatusBadRequest, "JSON inválido")
		return false
	}
	return true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// JSON writes v with the given status code.
func (c *Context) JSON(code int, v any) {
	c.status = code
	response.JSON(c.W, code, v)
}

// Message writes {"message": msg}.
func (c *Context) Message(code int, msg string) {
	c.status = code
	response.Message(c.W, code, msg)
}

// Error writes {"status","error","message"}.
func (c *Context) Error(code int, message string) {
	c.status = code
	response.Error(c.W, code, message)
}

// Invalid writes a 400 naming the violated rule.
func (c *Context) Invalid(v *validate.Violation) {
	c.status = http.StatusBadRequest
	response.Invalid(c.W, v.Field, v.Rule, v.Message)
}

// WrittenStatus returns the status written so far, or 0.
func (c *Context) WrittenStatus() int { return c.status }

// ClientIP returns the client IP of r. X-Forwarded-For and X-Real-Ip are
// only honoured when TRUST_PROXY_HEADERS is on, since any client can set
// them.
func ClientIP(r *http.Request) string {
	if config.TrustProxyHeaders() {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			return strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
		}
		if real := r.Header.Get("X-Real-Ip"); real != "" {
			return real
		}
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
