// Package logger provides the process-wide structured logger built on
// log/slog.
//
// WithCtx returns the request-scoped logger the Logger middleware injected,
// so every line a handler writes carries its request_id:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("produto criado", "id", p.ID)
//	// → time=... level=INFO msg="produto criado" request_id=a1b2c3d4 id=7
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/shashiranjanraj/estoque/config"
)

var (
	mu    sync.Mutex
	base  slog.Handler
	sink  *MongoHandler

	L *slog.Logger
)

func init() {
	Setup(config.AppEnv(), os.Stdout)
}

// Setup replaces the base logger. Production environments log JSON at INFO,
// everything else logs text at DEBUG.
func Setup(env string, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	switch env {
	case "production", "prod":
		base = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	case "test":
		base = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn})
	default:
		base = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	install()
}

// EnableMongo additionally ships every record to the given collection.
// Call DisableMongo on shutdown to flush the queue.
func EnableMongo(h *MongoHandler) {
	mu.Lock()
	defer mu.Unlock()

	if sink != nil {
		sink.Close()
	}
	sink = h
	install()
}

// DisableMongo flushes and detaches the MongoDB sink, if any.
func DisableMongo() {
	mu.Lock()
	defer mu.Unlock()

	if sink == nil {
		return
	}
	sink.Close()
	sink = nil
	install()
}

func install() {
	var h slog.Handler = base
	if sink != nil {
		h = NewMultiHandler(base, sink)
	}
	L = slog.New(h)
	slog.SetDefault(L)
}

// ─── Context-aware logger ─────────────────────────────────────────────────────

type ctxKey struct{}

// WithCtx returns the logger stored in ctx by InjectLogger, or L.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
			return log
		}
	}
	return L
}

// InjectLogger stores log in ctx. The Logger middleware calls it with a
// logger already tagged with request_id.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// ─── Short-hand helpers (use base logger) ─────────────────────────────────────

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }

// LevelFor picks the level of an access-log line from its HTTP status.
func LevelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
