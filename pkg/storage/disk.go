// Package storage is the file abstraction behind db:export.
//
// Two drivers are available:
//   - "local": local filesystem (default)
//   - "s3":    S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
//	disk, err := storage.Open(ctx, config.StorageDefault())
//	err = disk.Put(ctx, "exports/produtos.json", data)
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/estoque/config"
)

// ErrNotExist is returned by Get for a missing file.
var ErrNotExist = errors.New("storage: file does not exist")

// Disk is one storage driver. Paths always use forward slashes.
type Disk interface {
	Name() string

	// Put writes content to path, creating parents as needed.
	Put(ctx context.Context, path string, content []byte) error
	Get(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) (bool, error)
	// Delete removes a file. Missing files are not an error.
	Delete(ctx context.Context, path string) error
	// Files lists the files directly inside directory, sorted.
	Files(ctx context.Context, directory string) ([]string, error)

	// URL returns the public URL for path.
	URL(path string) string
}

// Open returns the disk configured under name ("local" or "s3").
func Open(ctx context.Context, name string) (Disk, error) {
	switch name {
	case "", "local":
		return NewLocalDisk(config.StorageLocalRoot(), config.Get("STORAGE_URL", "")), nil
	case "s3":
		return NewS3Disk(ctx, S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			URL:      config.Get("S3_URL", ""),
		})
	default:
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
}
