package services

import (
	"context"
	"log/slog"

	"github.com/terra-clan/skillsprint/internal/storage"
)

// PostgresProvider holds the PostgreSQL quota repository
type PostgresProvider struct {
	BaseProvider
	repo *storage.PostgresRepository
}

// NewPostgresProvider opens a connection pool for dsn
func NewPostgresProvider(ctx context.Context, dsn string) (*PostgresProvider, error) {
	repo, err := storage.NewPostgresRepository(ctx, storage.PostgresConfig{DSN: dsn})
	if err != nil {
		return nil, err
	}

	slog.Info("connected to postgres")

	return &PostgresProvider{
		BaseProvider: BaseProvider{serviceType: "postgres"},
		repo:         repo,
	}, nil
}

// Repository returns the quota repository backed by this connection
func (p *PostgresProvider) Repository() *storage.PostgresRepository {
	return p.repo
}

// HealthCheck verifies PostgreSQL connectivity
func (p *PostgresProvider) HealthCheck(ctx context.Context) error {
	return p.repo.Ping(ctx)
}

// Close closes the connection pool
func (p *PostgresProvider) Close() error {
	return p.repo.Close()
}
