package usage

import (
	"context"
	"embed"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore is a usage ledger backed by PostgreSQL. Appends rely on the
// database for durability and ordering; no in-process state is kept.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a ledger using the given connection pool. The
// caller owns the pool's lifecycle.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, ErrNilPool
	}
	return &PostgresStore{pool: pool}, nil
}

// Migrate applies the ledger schema migrations. Goose works against
// database/sql, so the pgx pool is bridged through stdlib for the duration
// of the migration.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrFailedToMigrate, err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return errors.Join(ErrFailedToMigrate, err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, userID uuid.UUID, feature string, at time.Time) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO usage_records (user_id, feature, created_at) VALUES ($1, $2, $3)`,
		userID, feature, at.UTC())
	if err != nil {
		return errors.Join(ErrFailedToAppend, err)
	}
	return nil
}

func (s *PostgresStore) Count(ctx context.Context, userID uuid.UUID, feature string, since time.Time) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM usage_records WHERE user_id = $1 AND feature = $2 AND created_at >= $3`,
		userID, feature, since.UTC()).Scan(&n)
	if err != nil {
		return 0, errors.Join(ErrFailedToCount, err)
	}
	return n, nil
}
