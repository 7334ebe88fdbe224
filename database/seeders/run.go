// Package seeders fills a fresh database with demo data. Seeders write
// through the services, so every record passes the same validation as an
// API request.
//
//	func init() {
//	    seeders.Register("produtos", SeedProducts)
//	}
package seeders

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/shashiranjanraj/estoque/app/services"
)

// Services are what a seeder may write through.
type Services struct {
	Products *services.ProductService
	Users    *services.UserService
}

// Func seeds one kind of record.
type Func func(ctx context.Context, s Services) error

type entry struct {
	name string
	fn   Func
}

var (
	mu      sync.Mutex
	entries []entry
)

// Register adds a seeder. Seeders run in registration order.
func Register(name string, fn Func) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, entry{name: name, fn: fn})
}

// RunAll executes every registered seeder and stops on the first error.
func RunAll(ctx context.Context, s Services, w io.Writer) error {
	mu.Lock()
	current := make([]entry, len(entries))
	copy(current, entries)
	mu.Unlock()

	if len(current) == 0 {
		fmt.Fprintln(w, "  (no seeders registered)")
		return nil
	}

	for _, e := range current {
		fmt.Fprintf(w, "  • Running seeder: %s … ", e.name)
		if err := e.fn(ctx, s); err != nil {
			fmt.Fprintln(w, "FAILED")
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Fprintln(w, "done")
	}
	return nil
}
