package metadata

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
	"go.uber.org/zap"
)

// NewSQLite opens an embedded SQLite-backed Store, suitable for the
// hybrid and fast tiers where a full Postgres deployment is overkill.
// path may be a filesystem path or ":memory:".
func NewSQLite(ctx context.Context, path string, logger *zap.Logger) (Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("metadata: open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("metadata: ping sqlite: %w", err)
	}

	// modernc.org/sqlite connections are not safe for concurrent writers
	// across multiple *database/sql* connections against the same file;
	// a single connection serializes all access and lets SQLite's own
	// locking do the rest.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("metadata: enable foreign_keys: %w", err)
	}

	logger.Info("opened sqlite metadata store", zap.String("path", path))
	return &sqlStore{db: db, dialect: "sqlite"}, nil
}
