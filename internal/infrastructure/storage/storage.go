// Package storage selects the records.Backend named by configuration.
package storage

import (
	"context"
	"fmt"

	"kopikeliling/internal/domain/records"
	"kopikeliling/internal/infrastructure/storage/memory"
	"kopikeliling/internal/infrastructure/storage/postgres"
	"kopikeliling/internal/infrastructure/storage/sqlite"
	"kopikeliling/pkg/logger"
)

// Supported drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects and locates the backend.
type Config struct {
	Driver      string
	SQLitePath  string
	DatabaseURL string
}

// Opened is a ready backend plus what the store should be wired with.
type Opened struct {
	Backend records.Backend
	// Journal is nil for drivers without a mutation journal.
	Journal records.Journal
	Close   func() error
}

// Options returns the store options implied by the backend.
func (o *Opened) Options() []records.Option {
	if o.Journal == nil {
		return nil
	}
	return []records.Option{records.WithJournal(o.Journal)}
}

// Open connects the configured backend.
func Open(ctx context.Context, cfg Config) (*Opened, error) {
	switch cfg.Driver {
	case DriverMemory, "":
		b := memory.New()
		logger.Warn(ctx, "using in-memory storage, data is lost on exit")
		return &Opened{Backend: b, Close: b.Close}, nil

	case DriverSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite driver needs a path")
		}
		b, err := sqlite.OpenBackend(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		logger.Info(ctx, "sqlite storage opened", "path", cfg.SQLitePath)
		return &Opened{Backend: b, Close: b.Close}, nil

	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("postgres driver needs DATABASE_URL")
		}
		pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b := postgres.NewBackend(pool)
		if err := postgres.Migrate(ctx, b.TxManager()); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		journal, err := postgres.NewJournal(b.TxManager())
		if err != nil {
			pool.Close()
			return nil, err
		}
		postgres.LogPoolStats(ctx, pool)
		return &Opened{Backend: b, Journal: journal, Close: b.Close}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
