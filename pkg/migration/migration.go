// Package migration runs and tracks relational schema migrations.
//
// Migrations register themselves from init():
//
//	func init() {
//	    migration.Register("20250101000000_create_produtos_table", &CreateProdutosTable{})
//	}
//
// Run is idempotent: migrations already recorded in the tracking table are
// skipped, so opening the same database twice never re-creates anything.
package migration

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shashiranjanraj/estoque/pkg/logger"
	"gorm.io/gorm"
)

// Migration is the interface every migration must implement.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// migrationRecord is the row stored in the tracking table.
type migrationRecord struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (migrationRecord) TableName() string { return "estoque_migrations" }

// ------------------- Registry -------------------

type registeredMigration struct {
	name string
	m    Migration
}

var (
	registryMu sync.RWMutex
	registry   []registeredMigration
)

// Register adds a migration to the global registry. name should be
// timestamp-prefixed so lexical order is chronological.
func Register(name string, m Migration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = append(registry, registeredMigration{name: name, m: m})
}

func registered() []registeredMigration {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]registeredMigration, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// ErrNoMigrations is returned by Run when nothing has been registered.
var ErrNoMigrations = errors.New("migration: no migrations registered")

// ------------------- Runner -------------------

// Runner executes and tracks migrations on one database handle.
type Runner struct {
	db *gorm.DB
}

// New creates a Runner backed by db.
func New(db *gorm.DB) *Runner {
	return &Runner{db: db}
}

// Status describes one registered migration.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

// EnsureTable creates the tracking table if it does not exist.
func (r *Runner) EnsureTable(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&migrationRecord{})
}

func (r *Runner) pending(ctx context.Context) ([]registeredMigration, error) {
	var ran []migrationRecord
	if err := r.db.WithContext(ctx).Find(&ran).Error; err != nil {
		return nil, err
	}

	ranSet := make(map[string]bool, len(ran))
	for _, rec := range ran {
		ranSet[rec.Name] = true
	}

	var out []registeredMigration
	for _, reg := range registered() {
		if !ranSet[reg.name] {
			out = append(out, reg)
		}
	}
	return out, nil
}

// Run executes all pending migrations as one batch and returns how many ran.
func (r *Runner) Run(ctx context.Context) (int, error) {
	if len(registered()) == 0 {
		return 0, ErrNoMigrations
	}
	if err := r.EnsureTable(ctx); err != nil {
		return 0, fmt.Errorf("migration: ensure table: %w", err)
	}

	pending, err := r.pending(ctx)
	if err != nil {
		return 0, fmt.Errorf("migration: fetch pending: %w", err)
	}
	if len(pending) == 0 {
		logger.Debug("migration: nothing to migrate")
		return 0, nil
	}

	batch, err := r.lastBatch(ctx)
	if err != nil {
		return 0, err
	}
	batch++

	db := r.db.WithContext(ctx)
	for _, reg := range pending {
		logger.Info("migration: running", "name", reg.name, "batch", batch)

		if err := reg.m.Up(db); err != nil {
			return 0, fmt.Errorf("migration: %s up: %w", reg.name, err)
		}

		record := migrationRecord{Name: reg.name, Batch: batch}
		if err := db.Create(&record).Error; err != nil {
			return 0, fmt.Errorf("migration: record %s: %w", reg.name, err)
		}
	}

	logger.Info("migration: done", "ran", len(pending), "batch", batch)
	return len(pending), nil
}

// Rollback reverses every migration of the most recent batch and returns
// how many were rolled back.
func (r *Runner) Rollback(ctx context.Context) (int, error) {
	if err := r.EnsureTable(ctx); err != nil {
		return 0, fmt.Errorf("migration: ensure table: %w", err)
	}

	last, err := r.lastBatch(ctx)
	if err != nil {
		return 0, err
	}
	if last == 0 {
		return 0, nil
	}

	db := r.db.WithContext(ctx)

	var records []migrationRecord
	if err := db.Where("batch = ?", last).Order("id desc").Find(&records).Error; err != nil {
		return 0, err
	}

	byName := make(map[string]Migration)
	for _, reg := range registered() {
		byName[reg.name] = reg.m
	}

	for _, rec := range records {
		m, ok := byName[rec.Name]
		if !ok {
			return 0, fmt.Errorf("migration: cannot roll back %s: not registered", rec.Name)
		}

		logger.Info("migration: rolling back", "name", rec.Name)
		if err := m.Down(db); err != nil {
			return 0, fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if err := db.Delete(&rec).Error; err != nil {
			return 0, err
		}
	}

	return len(records), nil
}

// Status lists every registered migration and whether it has run.
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	if err := r.EnsureTable(ctx); err != nil {
		return nil, err
	}

	var ran []migrationRecord
	if err := r.db.WithContext(ctx).Find(&ran).Error; err != nil {
		return nil, err
	}

	ranMap := make(map[string]migrationRecord, len(ran))
	for _, rec := range ran {
		ranMap[rec.Name] = rec
	}

	var out []Status
	for _, reg := range registered() {
		rec, ok := ranMap[reg.name]
		out = append(out, Status{Name: reg.name, Ran: ok, Batch: rec.Batch})
	}
	return out, nil
}

func (r *Runner) lastBatch(ctx context.Context) (int, error) {
	var maxBatch struct{ Max int }
	err := r.db.WithContext(ctx).
		Model(&migrationRecord{}).
		Select("COALESCE(MAX(batch), 0) AS max").
		Scan(&maxBatch).Error
	if err != nil {
		return 0, fmt.Errorf("migration: last batch: %w", err)
	}
	return maxBatch.Max, nil
}
