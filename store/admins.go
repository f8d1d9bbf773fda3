package store

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

func (s *PostgresStore) GetAdmin(ctx context.Context, username string) (AdminRow, error) {
	var a AdminRow
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM admin_users WHERE username = $1`, username,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return AdminRow{}, ErrNotFound
	}
	if err != nil {
		return AdminRow{}, errors.Wrap(err, "get admin")
	}
	return a, nil
}

func (s *PostgresStore) CreateAdmin(ctx context.Context, username, passwordHash string) (AdminRow, error) {
	a := AdminRow{Username: username, PasswordHash: passwordHash}
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO admin_users (username, password_hash) VALUES ($1, $2) RETURNING id, created_at`,
		username, passwordHash,
	).Scan(&a.ID, &a.CreatedAt)
	if isUniqueViolation(err) {
		return AdminRow{}, ErrDuplicate
	}
	if err != nil {
		return AdminRow{}, errors.Wrap(err, "insert admin")
	}
	return a, nil
}

func (s *PostgresStore) SetAdminPassword(ctx context.Context, username, passwordHash string) error {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE admin_users SET password_hash = $1 WHERE username = $2`, passwordHash, username)
	if err != nil {
		return errors.Wrap(err, "update admin password")
	}
	if ra, _ := res.RowsAffected(); ra == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM admin_users`).Scan(&n)
	return n, errors.Wrap(err, "count admins")
}
