package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/plata/internal/service"
)

// Config selects the database backend.
type Config struct {
	// Driver is "sqlite" or "postgres".
	Driver string
	// Path is the SQLite database file.
	Path string
	// DSN is the Postgres connection string.
	DSN string
}

// Open connects to the configured backend. Migrations are not applied.
func Open(ctx context.Context, cfg Config) (service.RecordStore, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "sqlite", "sqlite3":
		return NewSQLiteStore(cfg.Path)
	case "postgres", "postgresql", "pgx":
		return NewPostgresStore(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}
