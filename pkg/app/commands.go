package app

// Implementations behind the CLI sub-commands. Output goes to w so the
// commands stay testable.

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shashiranjanraj/estoque/app/models"
	"github.com/shashiranjanraj/estoque/app/repositories"
	"github.com/shashiranjanraj/estoque/config"
	"github.com/shashiranjanraj/estoque/database/seeders"
	"github.com/shashiranjanraj/estoque/pkg/database"
	"github.com/shashiranjanraj/estoque/pkg/migration"
	"github.com/shashiranjanraj/estoque/pkg/storage"
)

// Migrate applies pending schema changes of the configured backend.
func Migrate(ctx context.Context, w io.Writer) error {
	opts := StorageOptions()
	if opts.Driver == "mongo" {
		client, err := database.OpenMongo(ctx, opts.DSN)
		if err != nil {
			return err
		}
		doc := repositories.NewDocument(client, opts.Database, opts.Timeout)
		defer doc.Close(context.Background())
		if err := doc.Migrate(ctx); err != nil {
			return err
		}
		fmt.Fprintln(w, "✅ Índices do MongoDB criados")
		return nil
	}

	return withRunner(ctx, opts, func(r *migration.Runner) error {
		n, err := r.Run(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "✅ %d migration(s) applied\n", n)
		return nil
	})
}

// Rollback reverses the last migration batch. Relational backends only.
func Rollback(ctx context.Context, w io.Writer) error {
	return withRunner(ctx, StorageOptions(), func(r *migration.Runner) error {
		n, err := r.Rollback(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "✅ %d migration(s) rolled back\n", n)
		return nil
	})
}

// MigrationStatus prints one line per registered migration.
func MigrationStatus(ctx context.Context, w io.Writer) error {
	return withRunner(ctx, StorageOptions(), func(r *migration.Runner) error {
		status, err := r.Status(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
		fmt.Fprintln(tw, "MIGRATION\tRAN\tBATCH")
		for _, s := range status {
			ran, batch := "no", "-"
			if s.Ran {
				ran, batch = "yes", fmt.Sprint(s.Batch)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, ran, batch)
		}
		return tw.Flush()
	})
}

func withRunner(ctx context.Context, opts repositories.Options, fn func(*migration.Runner) error) error {
	if opts.Driver == "mongo" {
		return fmt.Errorf("migrations are not tracked for the mongo driver")
	}
	db, err := database.OpenRelational(ctx, opts.Driver, opts.DSN)
	if err != nil {
		return err
	}
	defer database.CloseRelational(db)
	return fn(migration.New(db))
}

// Seed runs every registered seeder through the services.
func (a *Application) Seed(ctx context.Context, w io.Writer) error {
	if err := seeders.RunAll(ctx, seeders.Services{Products: a.Products, Users: a.Users}, w); err != nil {
		return err
	}
	fmt.Fprintln(w, "✅ Seeding complete")
	return nil
}

// PrintRoutes writes the route table.
func PrintRoutes(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH\tNAME")
	fmt.Fprintln(tw, "------\t----\t----")
	for _, r := range RouteTable() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Method, r.Path, r.Name)
	}
	return tw.Flush()
}

// Snapshot is the document db:export writes.
type Snapshot struct {
	GeneratedAt time.Time        `json:"generatedAt"`
	Driver      string           `json:"driver"`
	Total       int              `json:"total"`
	Produtos    []models.Product `json:"produtos"`
}

// Export writes every product as one JSON snapshot to disk and returns the
// path it used.
func (a *Application) Export(ctx context.Context, disk storage.Disk, now time.Time) (string, error) {
	products, err := a.Products.List(ctx)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(Snapshot{
		GeneratedAt: now.UTC(),
		Driver:      a.driver(),
		Total:       len(products),
		Produtos:    products,
	}, "", "  ")
	if err != nil {
		return "", err
	}

	stamp := strings.ReplaceAll(now.UTC().Format("20060102T150405.000Z"), ".", "")
	path := "exports/produtos-" + stamp + ".json"
	if err := disk.Put(ctx, path, data); err != nil {
		return "", err
	}
	return path, nil
}

// ExportTo opens the named disk (the configured default when empty) and
// exports to it.
func (a *Application) ExportTo(ctx context.Context, diskName string, w io.Writer) error {
	if diskName == "" {
		diskName = config.StorageDefault()
	}
	disk, err := storage.Open(ctx, diskName)
	if err != nil {
		return err
	}

	path, err := a.Export(ctx, disk, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "✅ Exported to %s (%s)\n", disk.URL(path), disk.Name())
	return nil
}
