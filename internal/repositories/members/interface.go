package members

import (
	"context"

	"github.com/dmitrijs2005/budgetkeeper/internal/models"
)

// Repository stores household members (AccountUser records). Every method
// is scoped by owner id; a member belonging to someone else is reported as
// common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, m *models.AccountUser) error
	GetByID(ctx context.Context, ownerID, id string) (*models.AccountUser, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.AccountUser, error)
	Update(ctx context.Context, m *models.AccountUser) error
	Delete(ctx context.Context, ownerID, id string) error
}
