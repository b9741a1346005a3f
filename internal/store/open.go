package store

import (
	"context"
	"fmt"

	"github.com/jonathan/profile-optimizer/internal/config"
)

// Open returns the local backend selected by cfg.Store. PostgreSQL is served by
// package db and is not opened here.
func Open(ctx context.Context, cfg *config.Config) (Backend, error) {
	switch cfg.Store {
	case "", config.StoreFile:
		dir := cfg.StateDir
		if dir == "" {
			dir = config.DefaultStateDir
		}
		return NewFileGateway(dir)
	case config.StoreSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = config.DefaultSQLitePath
		}
		return OpenSQLite(ctx, path)
	case config.StoreMemory:
		return NewMemoryGateway(), nil
	default:
		return nil, fmt.Errorf("unsupported store %q", cfg.Store)
	}
}
