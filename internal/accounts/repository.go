package accounts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/grocer/internal/models"
)

// Repository persists accounts. Implementations return common.ErrorNotFound
// for a missing username and common.ErrDuplicateUsername when Create hits an
// existing one.
type Repository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	UpdatePassword(ctx context.Context, username string, hash []byte, resetAt *time.Time) error
}
