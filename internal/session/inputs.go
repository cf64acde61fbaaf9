package session

import (
	"github.com/dmitrijs2005/grocer/internal/models"
	"github.com/shopspring/decimal"
)

type SignupInput struct {
	Username        string `validate:"required,max=64"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

type passwordChange struct {
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

// AddItemInput is a purchase as entered by the user. Category and Unit are
// matched case-insensitively; an empty Unit means pieces and a nil DateAdded
// means today.
type AddItemInput struct {
	Name       string
	Category   string
	UnitPrice  decimal.Decimal
	Quantity   int
	Unit       string
	Brand      string
	ExpiryDate *models.Date
	DateAdded  *models.Date
}
