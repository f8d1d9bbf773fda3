package store

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ProductRow, ImageRow etc are simple structs representing DB rows
type ProductRow struct {
	ID                   int64
	Name                 string
	Description          sql.NullString
	Price                decimal.Decimal
	DiscountPrice        decimal.NullDecimal
	DiscountEndDate      sql.NullTime
	DemoURL              sql.NullString
	CategoryID           int64
	CategoryName         string
	GlobalDisplayOrder   int
	CategoryDisplayOrder int
}

type ImageRow struct {
	ID         int64
	URL        string
	ProductID  int64
	IsFeatured bool
}

type CategoryRow struct {
	ID   int64
	Name string
}

type AdminRow struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type ReorderRow struct {
	ProductID int64
	Order     int
}

// ProductFilter selects one page of products. CategoryID 0 means all
// categories, ordered globally.
type ProductFilter struct {
	CategoryID int64
	Offset     int
	Limit      int
}

// PoolConfig tunes the database/sql connection pool.
type PoolConfig struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
}

// PostgresStore is a Store backed by Postgres
type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(dsn string, pool PoolConfig) (*PostgresStore, error) {
	DB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if pool.MaxOpen > 0 {
		DB.SetMaxOpenConns(pool.MaxOpen)
	}
	if pool.MaxIdle > 0 {
		DB.SetMaxIdleConns(pool.MaxIdle)
	}
	if pool.MaxLifetime > 0 {
		DB.SetConnMaxLifetime(pool.MaxLifetime)
	}
	if err := DB.Ping(); err != nil {
		_ = DB.Close()
		return nil, err
	}
	return &PostgresStore{DB: DB}, nil
}

func (s *PostgresStore) Close() error { return s.DB.Close() }

func (s *PostgresStore) Ping(ctx context.Context) error { return s.DB.PingContext(ctx) }

// Migrate executes a schema script. Statements must be idempotent.
func (s *PostgresStore) Migrate(ctx context.Context, script string) error {
	_, err := s.DB.ExecContext(ctx, script)
	return errors.Wrap(err, "run migrations")
}

// inTx runs fn in a transaction, rolling back when fn fails.
func (s *PostgresStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}
	committed = true
	return nil
}
