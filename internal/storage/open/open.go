// Package open picks the storage backend named in the config.
package open

import (
	"context"
	"fmt"
	"time"

	"github.com/aanand-mishra/projects-api/internal/config"
	"github.com/aanand-mishra/projects-api/internal/storage"
	"github.com/aanand-mishra/projects-api/internal/storage/postgres"
	"github.com/aanand-mishra/projects-api/internal/storage/sqlite"
)

// Storage returns the backend for cfg.StorageDriver with its tables
// created. Connecting is bounded by cfg.DBTimeout when it is positive.
func Storage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	ctx, cancel := withTimeout(ctx, cfg.DBTimeout)
	defer cancel()

	switch cfg.StorageDriver {
	case config.DriverSQLite:
		s, err := sqlite.New(cfg.StoragePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverPostgres:
		s, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("open.Storage: unknown driver %q", cfg.StorageDriver)
	}
}

// withTimeout is context.WithTimeout, except that d <= 0 leaves ctx
// without a deadline.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
