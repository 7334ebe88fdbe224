// Package middleware provides the HTTP middleware estoque mounts globally.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/estoque/pkg/ctx"
	"github.com/shashiranjanraj/estoque/pkg/logger"
	"github.com/shashiranjanraj/estoque/pkg/metrics"
	"github.com/shashiranjanraj/estoque/pkg/response"
)

// Limiter decides whether key may send one more request in the current
// window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Driver() string
}

// ─── In-memory limiter ────────────────────────────────────────────────────────

// bucket tracks a fixed-window request count for one client.
type bucket struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

func (b *bucket) allow(now time.Time, max int, window time.Duration) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if now.After(b.resetAt) {
		b.count = 0
		b.resetAt = now.Add(window)
	}

	b.count++
	return b.count <= max
}

// MemoryLimiter keeps counters in process memory. Close stops the janitor.
type MemoryLimiter struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
	stop    chan struct{}
	once    sync.Once
}

// NewMemoryLimiter allows max requests per window per key.
func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	l := &MemoryLimiter{
		max:     max,
		window:  window,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	go l.evictLoop()
	return l
}

func (l *MemoryLimiter) Driver() string { return "memory" }

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{}
		l.buckets[key] = b
	}
	l.mu.Unlock()

	return b.allow(l.now(), l.max, l.window), nil
}

// evictLoop drops expired buckets so idle clients do not pile up.
func (l *MemoryLimiter) evictLoop() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.evict()
		}
	}
}

func (l *MemoryLimiter) evict() {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		b.mu.Lock()
		expired := now.After(b.resetAt)
		b.mu.Unlock()
		if expired {
			delete(l.buckets, key)
		}
	}
}

func (l *MemoryLimiter) Close() {
	l.once.Do(func() { close(l.stop) })
}

// ─── Redis limiter ────────────────────────────────────────────────────────────

// RedisLimiter shares fixed-window counters between instances.
type RedisLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
	prefix string
}

func NewRedisLimiter(client *redis.Client, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, max: max, window: window, prefix: "estoque:ratelimit:"}
}

func (l *RedisLimiter) Driver() string { return "redis" }

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	slot := time.Now().UnixNano() / int64(l.window)
	k := fmt.Sprintf("%s%s:%d", l.prefix, key, slot)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(l.max), nil
}

// ─── Middleware ───────────────────────────────────────────────────────────────

// RateLimit rejects clients over the limiter's budget with 429. A limiter
// error lets the request through: a broken counter store must not take the
// API down.
func RateLimit(l Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := l.Allow(r.Context(), ctx.ClientIP(r))
			if err != nil {
				logger.WithCtx(r.Context()).Warn("rate limiter unavailable", "driver", l.Driver(), "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				metrics.RateLimited.WithLabelValues(l.Driver()).Inc()
				response.Error(w, http.StatusTooManyRequests, "Muitas requisições, tente novamente mais tarde")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
