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

// SQLiteRepository implements Repository on a DBTX (either *sql.DB or *sql.Tx).
// Timestamps are stored as RFC 3339 text in UTC.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, a *models.Account) error {
	query := `INSERT INTO accounts (username, password_hash, email, created_at, password_reset_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(username) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query,
		a.Username, a.PasswordHash, a.Email, formatTime(a.CreatedAt), formatTimePtr(a.PasswordResetAt))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrDuplicateUsername
	}
	return nil
}

func (r *SQLiteRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	query := `SELECT username, password_hash, email, created_at, password_reset_at
		FROM accounts WHERE username = ?`

	var (
		a         models.Account
		createdAt string
		resetAt   sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&a.Username, &a.PasswordHash, &a.Email, &createdAt, &resetAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if a.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	if resetAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, resetAt.String)
		if err != nil {
			return nil, fmt.Errorf("password_reset_at: %w", err)
		}
		a.PasswordResetAt = &t
	}
	return &a, nil
}

func (r *SQLiteRepository) UpdatePassword(ctx context.Context, username string, hash []byte, resetAt *time.Time) error {
	query := `UPDATE accounts SET password_hash = ?, password_reset_at = ? WHERE username = ?`

	res, err := r.db.ExecContext(ctx, query, hash, formatTimePtr(resetAt), username)
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

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}
