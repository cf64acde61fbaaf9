package ledgers

import (
	"testing"

	"github.com/dmitrijs2005/grocer/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func sampleLedger(t *testing.T) *models.Ledger {
	t.Helper()

	l := models.NewLedger()
	exp := models.NewDate(2024, 5, 17)
	_, err := l.AddPurchase(models.PurchaseRecord{
		Name:       "Milk",
		Category:   models.CategoryDairyEggs,
		UnitPrice:  decimal.RequireFromString("2.50"),
		Quantity:   2,
		Unit:       models.UnitBottles,
		DateAdded:  models.NewDate(2024, 5, 10),
		ExpiryDate: &exp,
		Brand:      "Farm",
	})
	require.NoError(t, err)
	_, err = l.AddPurchase(models.PurchaseRecord{
		Name:      "Rice",
		Category:  models.CategoryPantryStaples,
		UnitPrice: decimal.RequireFromString("1.333"),
		Quantity:  3,
		Unit:      models.UnitKg,
		DateAdded: models.NewDate(2024, 5, 11),
	})
	require.NoError(t, err)
	_, err = l.SetBudget(models.BudgetEntry{
		Category:        models.CategoryDairyEggs,
		Month:           "2024-05",
		AllocatedAmount: decimal.RequireFromString("20.00"),
	})
	require.NoError(t, err)
	return l
}

func requireSameContent(t *testing.T, want, got *models.Ledger) {
	t.Helper()

	require.Len(t, got.Purchases, len(want.Purchases))
	for i := range want.Purchases {
		w, g := want.Purchases[i], got.Purchases[i]
		require.Equal(t, w.ID, g.ID)
		require.Equal(t, w.Name, g.Name)
		require.Equal(t, w.Category, g.Category)
		require.True(t, w.UnitPrice.Equal(g.UnitPrice), "unit price %s != %s", w.UnitPrice, g.UnitPrice)
		require.Equal(t, w.Quantity, g.Quantity)
		require.Equal(t, w.Unit, g.Unit)
		require.Equal(t, w.DateAdded.String(), g.DateAdded.String())
		if w.ExpiryDate == nil {
			require.Nil(t, g.ExpiryDate)
		} else {
			require.NotNil(t, g.ExpiryDate)
			require.Equal(t, w.ExpiryDate.String(), g.ExpiryDate.String())
		}
		require.Equal(t, w.Brand, g.Brand)
	}

	require.Len(t, got.Budgets, len(want.Budgets))
	for i := range want.Budgets {
		require.Equal(t, want.Budgets[i].Category, got.Budgets[i].Category)
		require.Equal(t, want.Budgets[i].Month, got.Budgets[i].Month)
		require.True(t, want.Budgets[i].AllocatedAmount.Equal(got.Budgets[i].AllocatedAmount))
	}
}
