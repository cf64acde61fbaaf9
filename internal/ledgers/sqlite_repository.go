package ledgers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/grocer/internal/common"
	"github.com/dmitrijs2005/grocer/internal/dbx"
	"github.com/dmitrijs2005/grocer/internal/models"
)

// SQLiteRepository stores dates as YYYY-MM-DD text and money as decimal text.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Version(ctx context.Context, username string) (int64, error) {
	var v int64
	err := r.db.QueryRowContext(ctx, `SELECT version FROM ledger_versions WHERE username = ?`, username).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *SQLiteRepository) BumpVersion(ctx context.Context, username string, expected int64) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if expected == 0 {
		res, err = r.db.ExecContext(ctx,
			`INSERT INTO ledger_versions (username, version) VALUES (?, 1) ON CONFLICT(username) DO NOTHING`, username)
	} else {
		res, err = r.db.ExecContext(ctx,
			`UPDATE ledger_versions SET version = version + 1 WHERE username = ? AND version = ?`, username, expected)
	}
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return 0, common.ErrVersionConflict
	}
	return expected + 1, nil
}

func (r *SQLiteRepository) Purchases(ctx context.Context, username string) ([]models.PurchaseRecord, error) {
	query := `SELECT id, name, category, unit_price, quantity, unit, date_added, expiry_date, brand
		FROM purchases WHERE username = ? ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.PurchaseRecord
	for rows.Next() {
		var (
			p         models.PurchaseRecord
			dateAdded string
			expiry    sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.UnitPrice, &p.Quantity, &p.Unit, &dateAdded, &expiry, &p.Brand); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		if p.DateAdded, err = models.ParseDate(dateAdded); err != nil {
			return nil, err
		}
		if expiry.Valid {
			d, err := models.ParseDate(expiry.String)
			if err != nil {
				return nil, err
			}
			p.ExpiryDate = &d
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Budgets(ctx context.Context, username string) ([]models.BudgetEntry, error) {
	query := `SELECT category, month, allocated_amount FROM budgets WHERE username = ? ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.BudgetEntry
	for rows.Next() {
		var b models.BudgetEntry
		if err := rows.Scan(&b.Category, &b.Month, &b.AllocatedAmount); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) ReplacePurchases(ctx context.Context, username string, purchases []models.PurchaseRecord) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM purchases WHERE username = ?`, username); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	query := `INSERT INTO purchases (username, position, id, name, category, unit_price, quantity, unit, date_added, expiry_date, brand)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i, p := range purchases {
		var expiry any
		if p.ExpiryDate != nil {
			expiry = p.ExpiryDate.String()
		}
		_, err := r.db.ExecContext(ctx, query,
			username, i, p.ID.String(), p.Name, string(p.Category), p.UnitPrice.String(), p.Quantity, string(p.Unit),
			p.DateAdded.String(), expiry, p.Brand)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *SQLiteRepository) ReplaceBudgets(ctx context.Context, username string, budgets []models.BudgetEntry) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE username = ?`, username); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	query := `INSERT INTO budgets (username, position, category, month, allocated_amount) VALUES (?, ?, ?, ?, ?)`
	for i, b := range budgets {
		_, err := r.db.ExecContext(ctx, query, username, i, string(b.Category), b.Month, b.AllocatedAmount.String())
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}
