// Package models defines the grocery ledger: accounts, purchase records,
// budget entries and the per-user ledger that owns them.
package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/grocer/internal/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseRecord is one recorded grocery line.
type PurchaseRecord struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name" validate:"required,max=200"`
	Category   Category        `json:"category" validate:"required,category"`
	UnitPrice  decimal.Decimal `json:"unit_price" validate:"gt=0"`
	Quantity   int             `json:"quantity" validate:"gte=1"`
	Unit       Unit            `json:"unit" validate:"required,unit"`
	DateAdded  Date            `json:"date_added"`
	ExpiryDate *Date           `json:"expiry_date,omitempty"`
	Brand      string          `json:"brand,omitempty" validate:"max=100"`
}

// LineTotal is UnitPrice * Quantity.
func (p PurchaseRecord) LineTotal() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

func (p PurchaseRecord) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: Name", common.ErrMissingField)
	}
	if err := Validate(p); err != nil {
		return err
	}
	if p.DateAdded.IsZero() {
		return fmt.Errorf("%w: DateAdded", common.ErrMissingField)
	}
	return nil
}

// BudgetEntry is a monthly allocation for one category. (Category, Month) is
// unique within a ledger. Actual spend is never stored; it is recomputed from
// purchases.
type BudgetEntry struct {
	Category        Category        `json:"category" validate:"required,category"`
	Month           string          `json:"month" validate:"required,yearmonth"`
	AllocatedAmount decimal.Decimal `json:"allocated_amount" validate:"gt=0"`
}

func (b BudgetEntry) Validate() error {
	return Validate(b)
}

// Ledger is one user's purchases, in insertion order, and budget entries.
// Version counts successful saves and is used to detect concurrent writers.
type Ledger struct {
	Purchases []PurchaseRecord `json:"purchases"`
	Budgets   []BudgetEntry    `json:"budgets"`
	Version   int64            `json:"version"`
}

func NewLedger() *Ledger {
	return &Ledger{Purchases: []PurchaseRecord{}, Budgets: []BudgetEntry{}}
}

// Clone returns a deep copy so a mutation can be staged and discarded if the
// save fails.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{
		Purchases: make([]PurchaseRecord, len(l.Purchases)),
		Budgets:   make([]BudgetEntry, len(l.Budgets)),
		Version:   l.Version,
	}
	copy(c.Purchases, l.Purchases)
	copy(c.Budgets, l.Budgets)
	for i := range c.Purchases {
		if e := c.Purchases[i].ExpiryDate; e != nil {
			d := *e
			c.Purchases[i].ExpiryDate = &d
		}
	}
	return c
}

// AddPurchase validates p, assigns an ID if missing and appends it.
func (l *Ledger) AddPurchase(p PurchaseRecord) (PurchaseRecord, error) {
	if err := p.Validate(); err != nil {
		return PurchaseRecord{}, err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	l.Purchases = append(l.Purchases, p)
	return p, nil
}

// RemovePurchase deletes the record at index, keeping the order of the rest.
func (l *Ledger) RemovePurchase(index int) (PurchaseRecord, error) {
	if index < 0 || index >= len(l.Purchases) {
		return PurchaseRecord{}, fmt.Errorf("%w: %d", common.ErrIndexOutOfRange, index)
	}
	removed := l.Purchases[index]
	l.Purchases = append(l.Purchases[:index], l.Purchases[index+1:]...)
	return removed, nil
}

// SetBudget inserts b or replaces the entry with the same (Category, Month).
// replaced reports which of the two happened.
func (l *Ledger) SetBudget(b BudgetEntry) (replaced bool, err error) {
	if err := b.Validate(); err != nil {
		return false, err
	}
	for i := range l.Budgets {
		if l.Budgets[i].Category == b.Category && l.Budgets[i].Month == b.Month {
			l.Budgets[i] = b
			return true, nil
		}
	}
	l.Budgets = append(l.Budgets, b)
	return false, nil
}
