package transactions

import (
	"context"

	"github.com/dmitrijs2005/budgetkeeper/internal/models"
)

// Repository stores Transaction records. All reads and writes are scoped by
// the owning user id; rows of other users behave as if absent.
type Repository interface {
	Create(ctx context.Context, t *models.Transaction) error
	GetByID(ctx context.Context, userID, id string) (*models.Transaction, error)
	// ListByUser returns every transaction of the user in storage order.
	// Filtering and sorting are done by the caller.
	ListByUser(ctx context.Context, userID string) ([]models.Transaction, error)
	Update(ctx context.Context, t *models.Transaction) error
	Delete(ctx context.Context, userID, id string) error

	CountByMember(ctx context.Context, userID, memberID string) (int, error)
	ClearMember(ctx context.Context, userID, memberID string) (int64, error)
	DeleteByMember(ctx context.Context, userID, memberID string) (int64, error)
	ClearAccount(ctx context.Context, userID, accountID string) (int64, error)
}
