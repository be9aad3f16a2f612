package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"citrusreach/internal/domain/models"
	"citrusreach/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations.
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds environment-prefixed table names, one table per kind.
type TableNames struct {
	Documents string
	Profiles  string
	Events    string
}

// NewTableNames creates table names with the given prefix.
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Documents: fmt.Sprintf("%sdocuments", prefix),
		Profiles:  fmt.Sprintf("%sprofiles", prefix),
		Events:    fmt.Sprintf("%sevents", prefix),
	}
}

// ForKind returns the table name backing the given kind.
func (t *TableNames) ForKind(kind models.Kind) string {
	switch kind {
	case models.KindProfile:
		return t.Profiles
	case models.KindEvent:
		return t.Events
	default:
		return t.Documents
	}
}

// CreateConnectionPool creates a new pgx connection pool and verifies the
// connection.
//
// Note on dynamic table names: the fmt.Sprintf interpolation of environment
// prefixes (dev_, test_, prod_) happens before the SQL is sent to the server,
// so each environment gets its own prepared statements and no user input ever
// reaches the SQL text.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the appropriate query executor for the context.
// If a transaction is present in the context it is returned, otherwise the
// pool. This lets repositories automatically participate in transactions.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
