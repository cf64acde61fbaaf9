// Package advisor turns aggregation results into advisories: budget
// warnings, category concentration, expiry alerts and a seasonal tip.
package advisor

import (
	"time"

	"github.com/dmitrijs2005/grocer/internal/analytics"
	"github.com/dmitrijs2005/grocer/internal/models"
	"github.com/shopspring/decimal"
)

const (
	// NearLimitRatio flags budgets with less than this share left.
	NearLimitRatio = "0.10"
	// DominantPercent is the share of total spend above which a category
	// is reported as dominant.
	DominantPercent = 40
	// ExpiryHorizonDays is the last day ahead that still raises an alert.
	ExpiryHorizonDays = 7
	// PriceOptimizationCount is the length of the price optimization list.
	PriceOptimizationCount = 5
)

// BudgetAlert reports a budget row that is over or close to its limit.
// For over-budget rows Amount is the overage; for near-limit rows it is
// what is left.
type BudgetAlert struct {
	Category models.Category
	Month    string
	Budgeted decimal.Decimal
	Amount   decimal.Decimal
}

// CategoryInsight names a category and its share of total spend, Percent
// rounded to one decimal place.
type CategoryInsight struct {
	Category models.Category
	Amount   decimal.Decimal
	Percent  decimal.Decimal
}

type ExpiryStatus int

const (
	Expired ExpiryStatus = iota
	ExpiresToday
	ExpiringSoon
)

func (s ExpiryStatus) String() string {
	switch s {
	case Expired:
		return "expired"
	case ExpiresToday:
		return "expires today"
	case ExpiringSoon:
		return "expiring soon"
	}
	return "unknown"
}

// ExpiryAlert is one purchase close to or past its expiry date. Index is the
// purchase's position in the ledger.
type ExpiryAlert struct {
	Index           int
	Purchase        models.PurchaseRecord
	Status          ExpiryStatus
	DaysUntilExpiry int
}

// Recommendations is everything the advisor has to say about one ledger on
// one day.
type Recommendations struct {
	Month             string
	OverBudget        []BudgetAlert
	NearLimit         []BudgetAlert
	LargestCategory   *CategoryInsight
	DominantCategory  *CategoryInsight
	PriceOptimization []models.PurchaseRecord
	ExpiryAlerts      []ExpiryAlert
	SeasonalTip       string
}

type Advisor struct {
	now func() time.Time
}

// New returns an Advisor that reads the current day from now.
func New(now func() time.Time) *Advisor {
	if now == nil {
		now = time.Now
	}
	return &Advisor{now: now}
}

// Recommend evaluates every rule against l for the current calendar month.
func (a *Advisor) Recommend(l *models.Ledger) Recommendations {
	now := a.now()
	today := models.DateOf(now)
	month := today.YearMonth()

	over, near := BudgetAlerts(analytics.BudgetVsActual(l, month))
	r := Recommendations{
		Month:             month,
		OverBudget:        over,
		NearLimit:         near,
		PriceOptimization: analytics.TopByUnitPrice(l, PriceOptimizationCount),
		ExpiryAlerts:      ExpiryAlerts(l, today),
		SeasonalTip:       SeasonalTip(now.Month()),
	}
	if largest, ok := LargestCategory(l); ok {
		r.LargestCategory = &largest
	}
	if dominant, ok := DominantCategory(l); ok {
		r.DominantCategory = &dominant
	}
	return r
}

// BudgetAlerts splits reconciled rows into over-budget (remaining < 0) and
// near-limit (0 <= remaining < 10% of budgeted) alerts.
func BudgetAlerts(rows []analytics.BudgetComparison) (over, near []BudgetAlert) {
	ratio := decimal.RequireFromString(NearLimitRatio)
	over, near = []BudgetAlert{}, []BudgetAlert{}

	for _, r := range rows {
		alert := BudgetAlert{Category: r.Category, Month: r.Month, Budgeted: r.Budgeted}
		switch {
		case r.Remaining.IsNegative():
			alert.Amount = r.Remaining.Neg()
			over = append(over, alert)
		case r.Remaining.LessThan(r.Budgeted.Mul(ratio)):
			alert.Amount = r.Remaining
			near = append(near, alert)
		}
	}
	return over, near
}

// LargestCategory returns the category with the most spend. A tie goes to the
// category purchased first. ok is false for a ledger with no spend.
func LargestCategory(l *models.Ledger) (CategoryInsight, bool) {
	total := analytics.TotalSpent(l)
	if !total.IsPositive() {
		return CategoryInsight{}, false
	}

	spending := analytics.SpendingByCategory(l)
	var best CategoryInsight
	found := false
	for _, p := range l.Purchases {
		amount := spending[p.Category]
		if !found || amount.GreaterThan(best.Amount) {
			best = CategoryInsight{Category: p.Category, Amount: amount}
			found = true
		}
	}

	best.Percent = share(best.Amount, total).Round(1)
	return best, true
}

// DominantCategory returns the largest category when its share of total
// spend exceeds 40%.
func DominantCategory(l *models.Ledger) (CategoryInsight, bool) {
	largest, ok := LargestCategory(l)
	if !ok {
		return CategoryInsight{}, false
	}
	// The unrounded share is compared against the threshold.
	if !share(largest.Amount, analytics.TotalSpent(l)).GreaterThan(decimal.NewFromInt(DominantPercent)) {
		return CategoryInsight{}, false
	}
	return largest, true
}

func share(amount, total decimal.Decimal) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(100)).Div(total)
}

// ClassifyExpiry reports how expiry relates to today. ok is false when the
// date is more than seven days ahead.
func ClassifyExpiry(expiry, today models.Date) (status ExpiryStatus, days int, ok bool) {
	days = today.DaysUntil(expiry)
	switch {
	case days < 0:
		return Expired, days, true
	case days == 0:
		return ExpiresToday, days, true
	case days <= ExpiryHorizonDays:
		return ExpiringSoon, days, true
	}
	return 0, days, false
}

// ExpiryAlerts lists purchases with an expiry date no more than seven days
// after today, in ledger order.
func ExpiryAlerts(l *models.Ledger, today models.Date) []ExpiryAlert {
	out := []ExpiryAlert{}
	for i, p := range l.Purchases {
		if p.ExpiryDate == nil {
			continue
		}
		status, days, ok := ClassifyExpiry(*p.ExpiryDate, today)
		if !ok {
			continue
		}
		out = append(out, ExpiryAlert{Index: i, Purchase: p, Status: status, DaysUntilExpiry: days})
	}
	return out
}
