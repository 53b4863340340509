// Package assets persists asset holdings. Deletion is a soft delete that
// clears is_active; listings skip inactive rows.
package assets

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

const selectAsset = `SELECT id, user_id, account_user_id, name, type, sub_type, current_value,
	purchase_price, purchase_date, currency, quantity, unit, location, tags, metadata,
	is_active, created_at, updated_at FROM assets`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, a *models.Asset) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO assets (id, user_id, account_user_id, name, type, sub_type, current_value,
			purchase_price, purchase_date, currency, quantity, unit, location, tags, metadata,
			is_active, created_at, updated_at)
		VALUES (:id, :user_id, :account_user_id, :name, :type, :sub_type, :current_value,
			:purchase_price, :purchase_date, :currency, :quantity, :unit, :location, :tags, :metadata,
			:is_active, :created_at, :updated_at)`, a)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("failed to create asset: %w", common.ErrorAlreadyExists)
		}
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, userID, id string) (*models.Asset, error) {
	var a models.Asset
	err := r.db.GetContext(ctx, &a, selectAsset+` WHERE id = ? AND user_id = ?`, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return &a, nil
}

func (r *SQLiteRepository) ListActive(ctx context.Context, userID string) ([]models.Asset, error) {
	out := []models.Asset{}
	err := r.db.SelectContext(ctx, &out, selectAsset+` WHERE user_id = ? AND is_active = 1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, a *models.Asset) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE assets SET account_user_id = :account_user_id, name = :name, type = :type,
			sub_type = :sub_type, current_value = :current_value, purchase_price = :purchase_price,
			purchase_date = :purchase_date, currency = :currency, quantity = :quantity, unit = :unit,
			location = :location, tags = :tags, metadata = :metadata, is_active = :is_active,
			updated_at = :updated_at
		WHERE id = :id AND user_id = :user_id`, a)
	if err != nil {
		return fmt.Errorf("failed to update asset: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *SQLiteRepository) SetActive(ctx context.Context, userID, id string, active bool, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE assets SET is_active = ?, updated_at = ? WHERE id = ? AND user_id = ?`, active, at, id, userID)
	if err != nil {
		return fmt.Errorf("failed to set asset state: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *SQLiteRepository) CountByMember(ctx context.Context, userID, memberID string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM assets WHERE user_id = ? AND account_user_id = ? AND is_active = 1`, userID, memberID)
	if err != nil {
		return 0, fmt.Errorf("failed to count member assets: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) ClearMember(ctx context.Context, userID, memberID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE assets SET account_user_id = NULL WHERE user_id = ? AND account_user_id = ?`, userID, memberID)
	if err != nil {
		return 0, fmt.Errorf("failed to detach member assets: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLiteRepository) DeactivateByMember(ctx context.Context, userID, memberID string, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE assets SET is_active = 0, updated_at = ?
		WHERE user_id = ? AND account_user_id = ? AND is_active = 1`, at, userID, memberID)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate member assets: %w", err)
	}
	return res.RowsAffected()
}
