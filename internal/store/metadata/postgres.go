package metadata

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// NewPostgres opens a Postgres-backed Store, retrying the initial connect
// the way database/connection-postgresql.go does, but over a caller
// context. The pool and retry policy are fixed constants.
func NewPostgres(ctx context.Context, databaseURL string, logger *zap.Logger) (Store, error) {
	const maxRetries = 3
	const retryDelay = 2 * time.Second

	var db *sqlx.DB
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		db, err = sqlx.ConnectContext(ctx, "postgres", databaseURL)
		if err == nil {
			if err = db.PingContext(ctx); err == nil {
				break
			}
			db.Close()
		}
		logger.Warn("postgres connect attempt failed",
			zap.Int("attempt", attempt), zap.Int("max_retries", maxRetries), zap.Error(err))
		if attempt < maxRetries {
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("metadata: connect postgres after %d attempts: %w", maxRetries, err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(0)

	logger.Info("connected to postgres metadata store")
	return &sqlStore{db: db, dialect: "postgres"}, nil
}
