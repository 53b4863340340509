// Package accounts persists the cash, bank and card accounts transactions
// can be booked against.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/dbx"
	"github.com/dmitrijs2005/budgetkeeper/internal/models"
)

const selectAccount = `SELECT id, user_id, name, type, balance, currency, is_default, is_active,
	created_at, updated_at FROM accounts`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, a *models.Account) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO accounts (id, user_id, name, type, balance, currency, is_default, is_active,
			created_at, updated_at)
		VALUES (:id, :user_id, :name, :type, :balance, :currency, :is_default, :is_active,
			:created_at, :updated_at)`, a)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("failed to create account: %w", common.ErrorAlreadyExists)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, userID, id string) (*models.Account, error) {
	var a models.Account
	err := r.db.GetContext(ctx, &a, selectAccount+` WHERE id = ? AND user_id = ?`, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &a, nil
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string) ([]models.Account, error) {
	out := []models.Account{}
	err := r.db.SelectContext(ctx, &out, selectAccount+` WHERE user_id = ? ORDER BY is_default DESC, name, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, a *models.Account) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE accounts SET name = :name, type = :type, balance = :balance, currency = :currency,
			is_default = :is_default, is_active = :is_active, updated_at = :updated_at
		WHERE id = :id AND user_id = :user_id`, a)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *SQLiteRepository) ClearDefault(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET is_default = 0, updated_at = ? WHERE user_id = ? AND is_default = 1`, at, userID)
	if err != nil {
		return fmt.Errorf("failed to clear default account: %w", err)
	}
	return nil
}
