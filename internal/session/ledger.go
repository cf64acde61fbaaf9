package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/grocer/internal/advisor"
	"github.com/dmitrijs2005/grocer/internal/analytics"
	"github.com/dmitrijs2005/grocer/internal/common"
	"github.com/dmitrijs2005/grocer/internal/models"
	"github.com/shopspring/decimal"
)

// ReportTopCount is how many purchases Report lists as most expensive.
const ReportTopCount = 5

// Report bundles the aggregation queries over the session's ledger.
type Report struct {
	Month          string
	TotalSpent     decimal.Decimal
	ByCategory     map[models.Category]decimal.Decimal
	BudgetVsActual []analytics.BudgetComparison
	Daily          []analytics.DailyTotal
	TopExpensive   []models.PurchaseRecord
	Frequency      map[models.Category]int
	Shares         []analytics.CategoryShare
	Overview       analytics.MonthOverview
}

// Ledger returns a copy of the in-memory ledger.
func (s *Session) Ledger() (*models.Ledger, error) {
	if err := s.expect(Authenticated); err != nil {
		return nil, err
	}
	return s.ledger.Clone(), nil
}

// AddItem records a purchase and persists the ledger.
func (s *Session) AddItem(ctx context.Context, in AddItemInput) (models.PurchaseRecord, error) {
	if err := s.expect(Authenticated); err != nil {
		return models.PurchaseRecord{}, err
	}

	p, err := s.purchaseFrom(in)
	if err != nil {
		return models.PurchaseRecord{}, err
	}

	var added models.PurchaseRecord
	err = s.mutate(ctx, "add item", func(l *models.Ledger) error {
		var err error
		added, err = l.AddPurchase(p)
		return err
	})
	if err != nil {
		return models.PurchaseRecord{}, err
	}
	return added, nil
}

func (s *Session) purchaseFrom(in AddItemInput) (models.PurchaseRecord, error) {
	if strings.TrimSpace(in.Category) == "" {
		return models.PurchaseRecord{}, fmt.Errorf("%w: Category", common.ErrMissingField)
	}
	category, ok := models.ParseCategory(in.Category)
	if !ok {
		return models.PurchaseRecord{}, fmt.Errorf("%w: %q", common.ErrUnknownCategory, in.Category)
	}

	unit := models.UnitPieces
	if strings.TrimSpace(in.Unit) != "" {
		if unit, ok = models.ParseUnit(in.Unit); !ok {
			return models.PurchaseRecord{}, fmt.Errorf("%w: %q", common.ErrUnknownUnit, in.Unit)
		}
	}

	added := models.DateOf(s.m.now())
	if in.DateAdded != nil {
		added = *in.DateAdded
	}

	p := models.PurchaseRecord{
		Name:      strings.TrimSpace(in.Name),
		Category:  category,
		UnitPrice: in.UnitPrice,
		Quantity:  in.Quantity,
		Unit:      unit,
		DateAdded: added,
		Brand:     strings.TrimSpace(in.Brand),
	}
	if in.ExpiryDate != nil {
		d := *in.ExpiryDate
		p.ExpiryDate = &d
	}
	return p, p.Validate()
}

// RemoveItem deletes the purchase at index (0-based, ledger order).
func (s *Session) RemoveItem(ctx context.Context, index int) (models.PurchaseRecord, error) {
	if err := s.expect(Authenticated); err != nil {
		return models.PurchaseRecord{}, err
	}

	var removed models.PurchaseRecord
	err := s.mutate(ctx, "remove item", func(l *models.Ledger) error {
		var err error
		removed, err = l.RemovePurchase(index)
		return err
	})
	if err != nil {
		return models.PurchaseRecord{}, err
	}
	return removed, nil
}

// SetBudget sets the allocation for (category, month), replacing an
// existing entry for the same key. An empty month means the current one.
func (s *Session) SetBudget(ctx context.Context, category string, amount decimal.Decimal, month string) (replaced bool, err error) {
	if err := s.expect(Authenticated); err != nil {
		return false, err
	}

	if strings.TrimSpace(category) == "" {
		return false, fmt.Errorf("%w: Category", common.ErrMissingField)
	}
	c, ok := models.ParseCategory(category)
	if !ok {
		return false, fmt.Errorf("%w: %q", common.ErrUnknownCategory, category)
	}
	month = strings.TrimSpace(month)
	if month == "" {
		month = models.DateOf(s.m.now()).YearMonth()
	}

	entry := models.BudgetEntry{Category: c, Month: month, AllocatedAmount: amount}
	if err := entry.Validate(); err != nil {
		return false, err
	}

	err = s.mutate(ctx, "set budget", func(l *models.Ledger) error {
		var err error
		replaced, err = l.SetBudget(entry)
		return err
	})
	if err != nil {
		return false, err
	}
	return replaced, nil
}

// Reload replaces the in-memory ledger with the stored one. It is the way
// out of common.ErrVersionConflict.
func (s *Session) Reload(ctx context.Context) error {
	if err := s.expect(Authenticated); err != nil {
		return err
	}
	l, err := s.m.loadLedger(ctx, s.account.Username)
	if err != nil {
		s.logger.Error(ctx, "ledger reload failed", "error", err)
		return err
	}
	s.ledger = l
	s.dirty = false
	return nil
}

// mutate applies fn to a copy of the ledger, saves the copy and only then
// makes it current.
func (s *Session) mutate(ctx context.Context, op string, fn func(*models.Ledger) error) error {
	staged := s.ledger.Clone()
	if err := fn(staged); err != nil {
		return err
	}

	if err := s.m.ledgers.Save(ctx, s.account.Username, staged); err != nil {
		s.logger.Error(ctx, op+" not saved", "version", s.ledger.Version, "error", err)
		return storageError(err)
	}

	s.ledger = staged
	s.dirty = false
	s.logger.Debug(ctx, op, "version", staged.Version)
	return nil
}

// Report runs the aggregation queries. An empty month means the current one.
func (s *Session) Report(month string) (Report, error) {
	if err := s.expect(Authenticated); err != nil {
		return Report{}, err
	}
	if month == "" {
		month = models.DateOf(s.m.now()).YearMonth()
	}
	if err := models.ValidateMonth(month); err != nil {
		return Report{}, err
	}

	l := s.ledger
	return Report{
		Month:          month,
		TotalSpent:     analytics.TotalSpent(l),
		ByCategory:     analytics.SpendingByCategory(l),
		BudgetVsActual: analytics.BudgetVsActual(l, month),
		Daily:          analytics.DailySpending(l),
		TopExpensive:   analytics.TopExpensive(l, ReportTopCount),
		Frequency:      analytics.CategoryFrequency(l),
		Shares:         analytics.CategoryShares(l),
		Overview:       analytics.Overview(l, month),
	}, nil
}

// Recommendations evaluates the advisor rules for today.
func (s *Session) Recommendations() (advisor.Recommendations, error) {
	if err := s.expect(Authenticated); err != nil {
		return advisor.Recommendations{}, err
	}
	return s.m.advisor.Recommend(s.ledger), nil
}
