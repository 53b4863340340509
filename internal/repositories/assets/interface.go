package assets

import (
	"context"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/models"
)

// Repository stores Asset records, scoped by owner. Assets are never
// removed physically: SetActive(false) is the delete operation.
type Repository interface {
	Create(ctx context.Context, a *models.Asset) error
	// GetByID returns the asset regardless of IsActive.
	GetByID(ctx context.Context, userID, id string) (*models.Asset, error)
	// ListActive returns the user's active assets in storage order.
	ListActive(ctx context.Context, userID string) ([]models.Asset, error)
	Update(ctx context.Context, a *models.Asset) error
	SetActive(ctx context.Context, userID, id string, active bool, at time.Time) error

	CountByMember(ctx context.Context, userID, memberID string) (int, error)
	ClearMember(ctx context.Context, userID, memberID string) (int64, error)
	DeactivateByMember(ctx context.Context, userID, memberID string, at time.Time) (int64, error)
}
