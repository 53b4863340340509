package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/models"
)

// Repository stores User records.
//
// Lookups return common.ErrorNotFound for missing rows. Create and Update
// return common.ErrorAlreadyExists when the username or email is taken.
type Repository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, u *models.User) error
	UpdatePassword(ctx context.Context, id string, hash string, updatedAt time.Time) error
}
