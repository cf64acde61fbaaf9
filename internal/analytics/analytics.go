// Package analytics computes spending rollups and budget reconciliation from
// a ledger snapshot. Every function is pure: the ledger is only read.
package analytics

import (
	"slices"
	"strings"

	"github.com/dmitrijs2005/grocer/internal/models"
	"github.com/shopspring/decimal"
)

// BudgetComparison is one budget entry reconciled against actual spend.
// Remaining is negative when the category is over budget.
type BudgetComparison struct {
	Category  models.Category
	Month     string
	Budgeted  decimal.Decimal
	Actual    decimal.Decimal
	Remaining decimal.Decimal
}

type DailyTotal struct {
	Date   models.Date
	Amount decimal.Decimal
}

type CategoryAmount struct {
	Category models.Category
	Amount   decimal.Decimal
}

// CategoryShare is a category's part of total spend, Percent in 0..100.
type CategoryShare struct {
	Category models.Category
	Amount   decimal.Decimal
	Percent  decimal.Decimal
}

// MonthOverview summarizes purchases dated in one month.
type MonthOverview struct {
	Month       string
	Total       decimal.Decimal
	ItemCount   int
	Budgeted    decimal.Decimal
	BudgetCount int
	ByCategory  []CategoryAmount
}

func TotalSpent(l *models.Ledger) decimal.Decimal {
	total := decimal.Zero
	for _, p := range l.Purchases {
		total = total.Add(p.LineTotal())
	}
	return total
}

// SpendingByCategory sums line totals per category. Categories without
// purchases are absent.
func SpendingByCategory(l *models.Ledger) map[models.Category]decimal.Decimal {
	out := make(map[models.Category]decimal.Decimal)
	for _, p := range l.Purchases {
		out[p.Category] = out[p.Category].Add(p.LineTotal())
	}
	return out
}

// BudgetVsActual reconciles the budget entries of month, in ledger order.
// Actual is the category's spend over the whole ledger; purchases are not
// filtered by month and nothing carries over between months.
func BudgetVsActual(l *models.Ledger, month string) []BudgetComparison {
	spending := SpendingByCategory(l)

	out := []BudgetComparison{}
	for _, b := range l.Budgets {
		if b.Month != month {
			continue
		}
		actual := spending[b.Category]
		out = append(out, BudgetComparison{
			Category:  b.Category,
			Month:     b.Month,
			Budgeted:  b.AllocatedAmount,
			Actual:    actual,
			Remaining: b.AllocatedAmount.Sub(actual),
		})
	}
	return out
}

// DailySpending sums line totals per DateAdded, oldest day first.
func DailySpending(l *models.Ledger) []DailyTotal {
	index := make(map[string]int)
	out := []DailyTotal{}
	for _, p := range l.Purchases {
		day := p.DateAdded.String()
		i, ok := index[day]
		if !ok {
			i = len(out)
			index[day] = i
			out = append(out, DailyTotal{Date: p.DateAdded, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(p.LineTotal())
	}
	slices.SortFunc(out, func(a, b DailyTotal) int {
		return a.Date.Compare(b.Date.Time)
	})
	return out
}

// TopExpensive returns up to n records with the largest line totals,
// largest first. Equal totals keep ledger order.
func TopExpensive(l *models.Ledger, n int) []models.PurchaseRecord {
	return topBy(l, n, models.PurchaseRecord.LineTotal)
}

// TopByUnitPrice returns up to n records with the highest unit price,
// highest first. Equal prices keep ledger order.
func TopByUnitPrice(l *models.Ledger, n int) []models.PurchaseRecord {
	return topBy(l, n, func(p models.PurchaseRecord) decimal.Decimal { return p.UnitPrice })
}

func topBy(l *models.Ledger, n int, key func(models.PurchaseRecord) decimal.Decimal) []models.PurchaseRecord {
	if n <= 0 {
		return []models.PurchaseRecord{}
	}
	out := slices.Clone(l.Purchases)
	slices.SortStableFunc(out, func(a, b models.PurchaseRecord) int {
		return key(b).Cmp(key(a))
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// CategoryFrequency counts records per category.
func CategoryFrequency(l *models.Ledger) map[models.Category]int {
	out := make(map[models.Category]int)
	for _, p := range l.Purchases {
		out[p.Category]++
	}
	return out
}

// CategoryShares lists every category with spend, largest first, with its
// percentage of the total. Ties are ordered by category name.
func CategoryShares(l *models.Ledger) []CategoryShare {
	total := TotalSpent(l)
	if !total.IsPositive() {
		return []CategoryShare{}
	}

	hundred := decimal.NewFromInt(100)
	out := make([]CategoryShare, 0)
	for c, amount := range SpendingByCategory(l) {
		out = append(out, CategoryShare{
			Category: c,
			Amount:   amount,
			Percent:  amount.Mul(hundred).Div(total),
		})
	}
	slices.SortFunc(out, func(a, b CategoryShare) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}
		return strings.Compare(string(a.Category), string(b.Category))
	})
	return out
}

// Overview rolls up the purchases whose DateAdded falls in month together
// with that month's budget entries.
func Overview(l *models.Ledger, month string) MonthOverview {
	o := MonthOverview{Month: month, Total: decimal.Zero, Budgeted: decimal.Zero, ByCategory: []CategoryAmount{}}

	byCategory := make(map[models.Category]decimal.Decimal)
	for _, p := range l.Purchases {
		if p.DateAdded.YearMonth() != month {
			continue
		}
		o.ItemCount++
		o.Total = o.Total.Add(p.LineTotal())
		byCategory[p.Category] = byCategory[p.Category].Add(p.LineTotal())
	}
	for _, b := range l.Budgets {
		if b.Month == month {
			o.BudgetCount++
			o.Budgeted = o.Budgeted.Add(b.AllocatedAmount)
		}
	}

	for _, c := range models.Categories {
		if amount, ok := byCategory[c]; ok {
			o.ByCategory = append(o.ByCategory, CategoryAmount{Category: c, Amount: amount})
		}
	}
	return o
}
