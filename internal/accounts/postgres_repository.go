package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/grocer/internal/common"
	"github.com/dmitrijs2005/grocer/internal/dbx"
	"github.com/dmitrijs2005/grocer/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Account) error {
	query :=
		`INSERT INTO accounts (username, password_hash, email, created_at, password_reset_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (username) DO NOTHING
		 RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		a.Username, a.PasswordHash, a.Email, a.CreatedAt, a.PasswordResetAt).Scan(&a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrDuplicateUsername
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	query :=
		`SELECT username, password_hash, email, created_at, password_reset_at FROM accounts
		 WHERE username = $1`

	var (
		a       models.Account
		resetAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&a.Username, &a.PasswordHash, &a.Email, &a.CreatedAt, &resetAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if resetAt.Valid {
		t := resetAt.Time
		a.PasswordResetAt = &t
	}
	return &a, nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, username string, hash []byte, resetAt *time.Time) error {
	query :=
		`UPDATE accounts SET password_hash = $1, password_reset_at = $2
		 WHERE username = $3`

	res, err := r.db.ExecContext(ctx, query, hash, resetAt, username)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
