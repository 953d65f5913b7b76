// Package storage provides the key-value store backends and the text codecs
// used to persist the task collection.
package storage

import (
	"context"
	"fmt"

	"github.com/valter-silva-au/datawork/pkg/models"
)

// Store is a string key-value store. Every backend in this package
// implements it.
type Store interface {
	// Get returns the value under key; found is false for a missing key.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
	Close() error
}

// Open creates the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg models.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case models.BackendMemory:
		return NewMemoryStore(), nil
	case models.BackendFile:
		return NewFileStore(cfg.File.Dir), nil
	case models.BackendRedis:
		return OpenRedisStore(ctx, cfg.Redis)
	case models.BackendSQLite:
		return OpenSQLiteStore(ctx, cfg.SQLite.Path)
	default:
		return nil, fmt.Errorf("opening store: unknown backend %q", cfg.Backend)
	}
}
