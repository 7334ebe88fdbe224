// Package repositories is the persistence adapter layer. One Adapter is open
// per process; it owns its storage handle and is safe for concurrent use.
package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shashiranjanraj/estoque/app/models"
	"github.com/shashiranjanraj/estoque/pkg/database"
	"github.com/shashiranjanraj/estoque/pkg/metrics"
)

var (
	// ErrNotFound means no record matches the given id or field.
	ErrNotFound = errors.New("repositories: record not found")
	// ErrDuplicate means a unique constraint rejected the write.
	ErrDuplicate = errors.New("repositories: duplicate key")
	// ErrUnavailable covers open, ping, timeout and any other driver failure.
	ErrUnavailable = errors.New("repositories: storage unavailable")
)

// Kind names the entity a repository stores.
type Kind string

const (
	KindProduct Kind = "produto"
	KindUser    Kind = "usuario"
)

// UserField is a unique user attribute that can be looked up.
type UserField string

const (
	FieldUsername UserField = "usuario"
	FieldEmail    UserField = "email"
)

// ProductRepository stores products.
type ProductRepository interface {
	// Create assigns ID and timestamps on p.
	Create(ctx context.Context, p *models.Product) error
	// List returns every product, newest first.
	List(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id models.ID) (models.Product, error)
	// Update replaces the mutable fields and returns the stored record.
	Update(ctx context.Context, id models.ID, fields models.ProductFields) (models.Product, error)
	Delete(ctx context.Context, id models.ID) error
}

// UserRepository stores users.
type UserRepository interface {
	// Create assigns ID and CreatedAt on u. Returns ErrDuplicate when the
	// username or email is already taken.
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id models.ID) (models.User, error)
	FindByField(ctx context.Context, field UserField, value string) (models.User, error)
}

// Adapter is one storage backend.
type Adapter interface {
	Driver() string
	Products() ProductRepository
	Users() UserRepository
	// Migrate creates tables / indexes. Safe to call repeatedly.
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Options selects and configures the backend.
type Options struct {
	Driver   string        // sqlite | postgres | mysql | sqlserver | mongo
	DSN      string        // gorm DSN or mongo URI
	Database string        // mongo database name
	Timeout  time.Duration // per-call bound; 0 means 5s
}

// Open connects the configured backend and runs Migrate once.
func Open(ctx context.Context, opts Options) (Adapter, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}

	var (
		adapter Adapter
		err     error
	)
	switch opts.Driver {
	case "mongo":
		client, cerr := database.OpenMongo(ctx, opts.DSN)
		if cerr != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, cerr)
		}
		adapter = NewDocument(client, opts.Database, opts.Timeout)
	default:
		db, cerr := database.OpenRelational(ctx, opts.Driver, opts.DSN)
		if cerr != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, cerr)
		}
		adapter = NewRelational(db, opts.Driver, opts.Timeout)
	}

	if err = adapter.Migrate(ctx); err != nil {
		_ = adapter.Close(context.Background())
		return nil, err
	}
	return adapter, nil
}

// call bounds one storage operation, records its latency and counts
// failures by taxonomy kind. fn must return an already translated error.
type call struct {
	driver  string
	timeout time.Duration
}

func (c call) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	defer metrics.ObserveDBQuery(c.driver, op, time.Now())

	err := fn(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		metrics.CountStorageError(c.driver, "not_found")
	case errors.Is(err, ErrDuplicate):
		metrics.CountStorageError(c.driver, "duplicate")
	default:
		metrics.CountStorageError(c.driver, "unavailable")
	}
	return err
}
