// Package ledgers persists each user's ledger. A ledger is loaded and saved
// wholesale; every read and write is keyed by username so one user can never
// reach another's purchases or budgets.
package ledgers

import (
	"context"

	"github.com/dmitrijs2005/grocer/internal/models"
)

// Store loads and saves whole ledgers.
//
// Load returns an empty ledger with Version 0 for a user without saved data.
// Save overwrites the stored ledger only if its version still equals
// l.Version, otherwise it returns common.ErrVersionConflict. On success
// l.Version is advanced to the stored version.
type Store interface {
	Load(ctx context.Context, username string) (*models.Ledger, error)
	Save(ctx context.Context, username string, l *models.Ledger) error
}
