package ledgers

import (
	"context"

	"github.com/dmitrijs2005/grocer/internal/models"
)

// Repository is the row-level access used by SQLStore. Implementations are
// bound to a dbx.DBTX so SQLStore can run them inside one transaction.
type Repository interface {
	// Version returns the saved version, 0 when the user has never saved.
	Version(ctx context.Context, username string) (int64, error)
	// BumpVersion moves the version from expected to expected+1 and returns
	// common.ErrVersionConflict when the stored version differs.
	BumpVersion(ctx context.Context, username string, expected int64) (int64, error)
	Purchases(ctx context.Context, username string) ([]models.PurchaseRecord, error)
	Budgets(ctx context.Context, username string) ([]models.BudgetEntry, error)
	ReplacePurchases(ctx context.Context, username string, purchases []models.PurchaseRecord) error
	ReplaceBudgets(ctx context.Context, username string, budgets []models.BudgetEntry) error
}
