package ledgers

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/grocer/internal/dbx"
	"github.com/dmitrijs2005/grocer/internal/logging"
	"github.com/dmitrijs2005/grocer/internal/models"
)

// SQLStore keeps ledgers in the purchases, budgets and ledger_versions
// tables. Each Load and Save runs in a single transaction, so purchases and
// budgets are always written together.
type SQLStore struct {
	db     *sql.DB
	repo   func(dbx.DBTX) Repository
	logger logging.Logger
}

// NewSQLStore builds a store on db; repo binds the dialect's Repository to a
// connection or transaction.
func NewSQLStore(db *sql.DB, repo func(dbx.DBTX) Repository, logger logging.Logger) *SQLStore {
	return &SQLStore{db: db, repo: repo, logger: logger}
}

func (s *SQLStore) Load(ctx context.Context, username string) (*models.Ledger, error) {
	l := models.NewLedger()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)

		version, err := r.Version(ctx, username)
		if err != nil {
			return err
		}
		purchases, err := r.Purchases(ctx, username)
		if err != nil {
			return err
		}
		budgets, err := r.Budgets(ctx, username)
		if err != nil {
			return err
		}

		l.Version = version
		l.Purchases = append(l.Purchases, purchases...)
		l.Budgets = append(l.Budgets, budgets...)
		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "ledger load failed", "username", username, "error", err)
		return nil, err
	}

	return l, nil
}

func (s *SQLStore) Save(ctx context.Context, username string, l *models.Ledger) error {
	var next int64

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)

		v, err := r.BumpVersion(ctx, username, l.Version)
		if err != nil {
			return err
		}
		if err := r.ReplacePurchases(ctx, username, l.Purchases); err != nil {
			return err
		}
		if err := r.ReplaceBudgets(ctx, username, l.Budgets); err != nil {
			return err
		}
		next = v
		return nil
	})
	if err != nil {
		s.logger.Warn(ctx, "ledger save failed", "username", username, "version", l.Version, "error", err)
		return err
	}

	l.Version = next
	s.logger.Debug(ctx, "ledger saved", "username", username, "version", next,
		"purchases", len(l.Purchases), "budgets", len(l.Budgets))
	return nil
}
