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

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Version(ctx context.Context, username string) (int64, error) {
	var v int64
	err := r.db.QueryRowContext(ctx,
		`SELECT version FROM ledger_versions WHERE username = $1`, username).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *PostgresRepository) BumpVersion(ctx context.Context, username string, expected int64) (int64, error) {
	var query string
	args := []any{username}
	if expected == 0 {
		query =
			`INSERT INTO ledger_versions (username, version) VALUES ($1, 1)
			 ON CONFLICT (username) DO NOTHING
			 RETURNING version`
	} else {
		query =
			`UPDATE ledger_versions SET version = version + 1
			 WHERE username = $1 AND version = $2
			 RETURNING version`
		args = append(args, expected)
	}

	var v int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrVersionConflict
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *PostgresRepository) Purchases(ctx context.Context, username string) ([]models.PurchaseRecord, error) {
	query :=
		`SELECT id, name, category, unit_price, quantity, unit, date_added, expiry_date, brand
		 FROM purchases WHERE username = $1 ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.PurchaseRecord
	for rows.Next() {
		var (
			p         models.PurchaseRecord
			dateAdded sql.NullTime
			expiry    sql.NullTime
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.UnitPrice, &p.Quantity, &p.Unit, &dateAdded, &expiry, &p.Brand); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		p.DateAdded = models.DateOf(dateAdded.Time)
		if expiry.Valid {
			d := models.DateOf(expiry.Time)
			p.ExpiryDate = &d
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Budgets(ctx context.Context, username string) ([]models.BudgetEntry, error) {
	query :=
		`SELECT category, month, allocated_amount
		 FROM budgets WHERE username = $1 ORDER BY position`

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

func (r *PostgresRepository) ReplacePurchases(ctx context.Context, username string, purchases []models.PurchaseRecord) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM purchases WHERE username = $1`, username); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	query :=
		`INSERT INTO purchases (username, position, id, name, category, unit_price, quantity, unit, date_added, expiry_date, brand)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for i, p := range purchases {
		var expiry any
		if p.ExpiryDate != nil {
			expiry = p.ExpiryDate.Time
		}
		_, err := r.db.ExecContext(ctx, query,
			username, i, p.ID.String(), p.Name, string(p.Category), p.UnitPrice.String(), p.Quantity, string(p.Unit),
			p.DateAdded.Time, expiry, p.Brand)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) ReplaceBudgets(ctx context.Context, username string, budgets []models.BudgetEntry) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE username = $1`, username); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	query :=
		`INSERT INTO budgets (username, position, category, month, allocated_amount)
		 VALUES ($1, $2, $3, $4, $5)`
	for i, b := range budgets {
		_, err := r.db.ExecContext(ctx, query, username, i, string(b.Category), b.Month, b.AllocatedAmount.String())
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}
