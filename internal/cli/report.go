package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/grocer/internal/models"
	"github.com/shopspring/decimal"
)

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatPurchase(p models.PurchaseRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %d %s x %s = %s, %s",
		p.Name, p.Category, p.Quantity, p.Unit, money(p.UnitPrice), money(p.LineTotal()), p.DateAdded)
	if p.Brand != "" {
		fmt.Fprintf(&b, ", brand %s", p.Brand)
	}
	if p.ExpiryDate != nil {
		fmt.Fprintf(&b, ", expires %s", p.ExpiryDate)
	}
	return b.String()
}

func monthArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// Budgets prints budget against actual spend for a month.
func (a *App) Budgets(_ context.Context, args []string) error {
	r, err := a.session.Report(monthArg(args))
	if err != nil {
		return err
	}
	if len(r.BudgetVsActual) == 0 {
		a.printf("No budgets for %s.\n", r.Month)
		return nil
	}
	a.printf("Budgets for %s:\n", r.Month)
	for _, b := range r.BudgetVsActual {
		a.printf("  %s: budgeted %s, spent %s, remaining %s\n",
			b.Category, money(b.Budgeted), money(b.Actual), money(b.Remaining))
	}
	return nil
}

// Report prints the spending rollups.
func (a *App) Report(_ context.Context, args []string) error {
	r, err := a.session.Report(monthArg(args))
	if err != nil {
		return err
	}

	a.printf("Total spent: %s\n", money(r.TotalSpent))
	a.printf("%s: %s over %d items, %s budgeted in %d budgets\n",
		r.Month, money(r.Overview.Total), r.Overview.ItemCount, money(r.Overview.Budgeted), r.Overview.BudgetCount)

	if len(r.Shares) > 0 {
		a.println("By category:")
		for _, s := range r.Shares {
			a.printf("  %s: %s (%s%%, %d items)\n", s.Category, money(s.Amount), s.Percent.StringFixed(1), r.Frequency[s.Category])
		}
	}
	if len(r.Daily) > 0 {
		a.println("By day:")
		for _, d := range r.Daily {
			a.printf("  %s: %s\n", d.Date, money(d.Amount))
		}
	}
	if len(r.TopExpensive) > 0 {
		a.println("Most expensive:")
		for i, p := range r.TopExpensive {
			a.printf("  %d. %s\n", i+1, formatPurchase(p))
		}
	}
	return nil
}

// Advice prints the recommendations for today.
func (a *App) Advice(_ context.Context) error {
	r, err := a.session.Recommendations()
	if err != nil {
		return err
	}

	for _, o := range r.OverBudget {
		a.printf("Over budget: %s by %s\n", o.Category, money(o.Amount))
	}
	for _, n := range r.NearLimit {
		a.printf("Almost at budget: %s, %s left\n", n.Category, money(n.Amount))
	}
	if r.LargestCategory != nil {
		a.printf("Largest category: %s (%s%%)\n", r.LargestCategory.Category, r.LargestCategory.Percent.StringFixed(1))
	}
	if r.DominantCategory != nil {
		a.printf("Consider diversifying: %s is %s%% of spending\n", r.DominantCategory.Category, r.DominantCategory.Percent.StringFixed(1))
	}
	for _, e := range r.ExpiryAlerts {
		a.printf("%s: %s (%d days)\n", e.Status, e.Purchase.Name, e.DaysUntilExpiry)
	}
	if len(r.PriceOptimization) > 0 {
		a.println("Highest unit prices:")
		for _, p := range r.PriceOptimization {
			a.printf("  %s: %s per %s\n", p.Name, money(p.UnitPrice), p.Unit)
		}
	}
	a.printf("Tip: %s\n", r.SeasonalTip)
	return nil
}
