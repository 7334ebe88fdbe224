// Package app wires storage, services and transports into one estoque
// process.
//
//	a, err := app.Boot(ctx)
//	if err != nil { ... }
//	defer a.Close(context.Background())
//	err = a.Serve(ctx)
//
// Tests build one over an already open adapter:
//
//	a := app.New(adapter, app.Options{})
//	srv := httptest.NewServer(a.Handler())
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/estoque/app/repositories"
	"github.com/shashiranjanraj/estoque/app/services"
	"github.com/shashiranjanraj/estoque/config"
	"github.com/shashiranjanraj/estoque/pkg/auth"
	"github.com/shashiranjanraj/estoque/pkg/database"
	"github.com/shashiranjanraj/estoque/pkg/event"
	"github.com/shashiranjanraj/estoque/pkg/logger"
	"github.com/shashiranjanraj/estoque/pkg/middleware"
	"github.com/shashiranjanraj/estoque/pkg/sse"
	"github.com/shashiranjanraj/estoque/pkg/ws"
)

// Options are the collaborators New does not build itself.
type Options struct {
	// Hasher defaults to the plain hasher.
	Hasher auth.Hasher
	// Limiter enables rate limiting when set.
	Limiter middleware.Limiter
}

// Application holds every long-lived component of the process.
type Application struct {
	Adapter  repositories.Adapter
	Events   *event.Bus
	Products *services.ProductService
	Users    *services.UserService
	Feed     *ws.Hub
	Stream   *sse.Broker

	limiter middleware.Limiter
	closers []func(ctx context.Context) error
}

var productEvents = []string{
	services.EventProductCreated,
	services.EventProductUpdated,
	services.EventProductDeleted,
}

// New wires services, the event bus and the product feeds over adapter.
// The feed hub is running when New returns.
func New(adapter repositories.Adapter, opts Options) *Application {
	bus := event.New()
	feed := ws.NewHub()
	go feed.Run()
	feed.Subscribe(bus, productEvents...)

	stream := sse.NewBroker()
	stream.Subscribe(bus, productEvents...)

	a := &Application{
		Adapter:  adapter,
		Events:   bus,
		Products: services.NewProductService(adapter.Products(), bus),
		Users:    services.NewUserService(adapter.Users(), opts.Hasher),
		Feed:     feed,
		Stream:   stream,
		limiter:  opts.Limiter,
	}
	a.onClose(func(context.Context) error {
		feed.Stop()
		stream.Stop()
		return nil
	})
	return a
}

// Boot loads configuration, attaches the optional log sink, opens the
// configured storage backend and builds the Application around it.
func Boot(ctx context.Context) (*Application, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var early []func(ctx context.Context) error
	if uri := config.LogMongoURI(); uri != "" {
		client, err := database.OpenMongo(ctx, uri)
		if err != nil {
			logger.Warn("log sink disabled", "error", err)
		} else {
			sink := logger.NewMongoHandler(ctx, client, config.Get("LOG_MONGO_DATABASE", "estoque_logs"), "logs")
			logger.EnableMongo(sink)
			early = append(early, func(context.Context) error {
				logger.DisableMongo()
				sink.Close()
				return nil
			})
		}
	}

	adapter, err := repositories.Open(ctx, StorageOptions())
	if err != nil {
		for _, fn := range early {
			_ = fn(ctx)
		}
		return nil, err
	}
	logger.Info("storage ready", "driver", adapter.Driver())

	limiter, limiterClose := newLimiter()
	a := New(adapter, Options{
		Hasher:  auth.NewHasher(config.PasswordHasher()),
		Limiter: limiter,
	})
	a.closers = append(early, a.closers...)
	a.onClose(func(context.Context) error {
		return limiterClose()
	})
	return a, nil
}

// StorageOptions reads the backend selection from config.
func StorageOptions() repositories.Options {
	driver := config.DatabaseDriver()
	opts := repositories.Options{
		Driver:  driver,
		DSN:     config.DatabaseDSN(),
		Timeout: config.DatabaseTimeout(),
	}
	if driver == "mongo" {
		opts.DSN = config.MongoURI()
		opts.Database = config.MongoDatabase()
	}
	return opts
}

func newLimiter() (middleware.Limiter, func() error) {
	n := config.RateLimit()
	if n <= 0 {
		return nil, func() error { return nil }
	}

	if config.RateLimitDriver() == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     config.RedisAddr(),
			Password: config.RedisPassword(),
		})
		return middleware.NewRedisLimiter(client, n, time.Minute), client.Close
	}

	l := middleware.NewMemoryLimiter(n, time.Minute)
	return l, func() error {
		l.Close()
		return nil
	}
}

func (a *Application) onClose(fn func(ctx context.Context) error) {
	a.closers = append(a.closers, fn)
}

// Close releases everything in reverse order of acquisition, storage last.
func (a *Application) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if a.Adapter != nil {
		if err := a.Adapter.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
