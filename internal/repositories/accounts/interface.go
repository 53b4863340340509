package accounts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/models"
)

// Repository stores Account records scoped by owner. Delete is physical.
type Repository interface {
	Create(ctx context.Context, a *models.Account) error
	GetByID(ctx context.Context, userID, id string) (*models.Account, error)
	ListByUser(ctx context.Context, userID string) ([]models.Account, error)
	Update(ctx context.Context, a *models.Account) error
	Delete(ctx context.Context, userID, id string) error
	// ClearDefault unsets is_default on every account of the user.
	ClearDefault(ctx context.Context, userID string, at time.Time) error
}
