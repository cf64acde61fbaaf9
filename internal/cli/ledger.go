package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/grocer/internal/catalog"
	"github.com/dmitrijs2005/grocer/internal/common"
	"github.com/dmitrijs2005/grocer/internal/models"
	"github.com/dmitrijs2005/grocer/internal/session"
)

// AddItem prompts for a purchase. The category prompt offers a suggestion
// derived from the item name.
func (a *App) AddItem(ctx context.Context) error {
	in, err := a.readItem()
	if err != nil {
		return err
	}

	p, err := a.session.AddItem(ctx, in)
	if err != nil {
		return err
	}
	a.printf("Added %s: %d x %s = %s\n", p.Name, p.Quantity, money(p.UnitPrice), money(p.LineTotal()))
	return nil
}

func (a *App) readItem() (session.AddItemInput, error) {
	var in session.AddItemInput
	var err error

	if in.Name, err = getSimpleText(a.reader, "Item name", a.out); err != nil {
		return in, err
	}

	suggested := ""
	if c, ok := catalog.SuggestCategory(in.Name); ok {
		suggested = string(c)
	}
	if in.Category, err = GetWithDefault(a.reader, "Category", suggested, a.out); err != nil {
		return in, err
	}
	if in.UnitPrice, err = GetDecimal(a.reader, "Unit price", a.out); err != nil {
		return in, err
	}
	if in.Quantity, err = GetInt(a.reader, "Quantity", 1, a.out); err != nil {
		return in, err
	}
	if in.Unit, err = GetWithDefault(a.reader, "Unit", string(models.UnitPieces), a.out); err != nil {
		return in, err
	}
	if in.Brand, err = getSimpleText(a.reader, "Brand (optional)", a.out); err != nil {
		return in, err
	}
	if in.ExpiryDate, err = GetOptionalDate(a.reader, "Expiry date", a.out); err != nil {
		return in, err
	}
	return in, nil
}

// RemoveItem deletes the purchase with the 1-based number shown by list.
func (a *App) RemoveItem(ctx context.Context, args []string) error {
	var s string
	if len(args) > 0 {
		s = args[0]
	} else {
		var err error
		if s, err = getSimpleText(a.reader, "Item number", a.out); err != nil {
			return err
		}
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("%w: %q", common.ErrIndexOutOfRange, s)
	}

	p, err := a.session.RemoveItem(ctx, n-1)
	if err != nil {
		return err
	}
	a.printf("Removed %s\n", p.Name)
	return nil
}

// SetBudget prompts for a monthly allocation. An empty month means the
// current one.
func (a *App) SetBudget(ctx context.Context) error {
	category, err := getSimpleText(a.reader, "Category", a.out)
	if err != nil {
		return err
	}
	amount, err := GetDecimal(a.reader, "Amount", a.out)
	if err != nil {
		return err
	}
	month, err := getSimpleText(a.reader, "Month (YYYY-MM, empty for current)", a.out)
	if err != nil {
		return err
	}

	replaced, err := a.session.SetBudget(ctx, category, amount, month)
	if err != nil {
		return err
	}
	if replaced {
		a.println("Budget updated.")
	} else {
		a.println("Budget set.")
	}
	return nil
}

func (a *App) List(_ context.Context) error {
	l, err := a.session.Ledger()
	if err != nil {
		return err
	}
	if len(l.Purchases) == 0 {
		a.println("No purchases yet.")
		return nil
	}
	for i, p := range l.Purchases {
		a.printf("%d. %s\n", i+1, formatPurchase(p))
	}
	return nil
}

func (a *App) Reload(ctx context.Context) error {
	if err := a.session.Reload(ctx); err != nil {
		return err
	}
	a.println("Ledger reloaded.")
	return nil
}

func (a *App) Categories(_ context.Context) error {
	for _, c := range models.Categories {
		a.println(c)
	}
	return nil
}
