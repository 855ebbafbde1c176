package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresRepository implements QuotaRepository using PostgreSQL
type PostgresRepository struct {
	db *sql.DB
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// NewPostgresRepository opens and verifies a connection pool
func NewPostgresRepository(ctx context.Context, cfg PostgresConfig) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	} else {
		db.SetMaxOpenConns(10)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	} else {
		db.SetMaxIdleConns(2)
	}
	if cfg.MaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.MaxLifetime)
	} else {
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// NewPostgresRepositoryFromDB wraps an already open database handle
func NewPostgresRepositoryFromDB(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Count returns the calls recorded for caller on day
func (r *PostgresRepository) Count(ctx context.Context, callerID, day string) (int, error) {
	query := `SELECT calls FROM suggestion_quota WHERE caller_id = $1 AND day = $2`

	var calls int
	err := r.db.QueryRowContext(ctx, query, callerID, day).Scan(&calls)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read quota: %w", err)
	}
	return calls, nil
}

// Increment adds one call for caller on day and returns the new total
func (r *PostgresRepository) Increment(ctx context.Context, callerID, day string, resetAt time.Time) (int, error) {
	query := `
		INSERT INTO suggestion_quota (caller_id, day, calls, reset_at)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (caller_id, day)
		DO UPDATE SET calls = suggestion_quota.calls + 1, updated_at = NOW()
		RETURNING calls
	`

	var calls int
	if err := r.db.QueryRowContext(ctx, query, callerID, day, resetAt).Scan(&calls); err != nil {
		return 0, fmt.Errorf("failed to increment quota: %w", err)
	}
	return calls, nil
}

// Release gives back one call reserved by Increment
func (r *PostgresRepository) Release(ctx context.Context, callerID, day string) error {
	query := `
		UPDATE suggestion_quota
		SET calls = GREATEST(calls - 1, 0), updated_at = NOW()
		WHERE caller_id = $1 AND day = $2
	`

	if _, err := r.db.ExecContext(ctx, query, callerID, day); err != nil {
		return fmt.Errorf("failed to release quota: %w", err)
	}
	return nil
}

// PurgeExpired deletes counters whose day has ended
func (r *PostgresRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM suggestion_quota WHERE reset_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to purge quota: %w", err)
	}
	return result.RowsAffected()
}

// Ping checks database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database connection pool
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}
