// Package members persists household members in the account_users table.
package members

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/dbx"
	"github.com/dmitrijs2005/budgetkeeper/internal/models"
)

const selectMember = `SELECT id, owner_id, name, relationship, birth_date, gender, occupation,
	phone, notes, created_at, updated_at FROM account_users`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, m *models.AccountUser) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO account_users (id, owner_id, name, relationship, birth_date, gender,
			occupation, phone, notes, created_at, updated_at)
		VALUES (:id, :owner_id, :name, :relationship, :birth_date, :gender,
			:occupation, :phone, :notes, :created_at, :updated_at)`, m)
	if err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, ownerID, id string) (*models.AccountUser, error) {
	var m models.AccountUser
	err := r.db.GetContext(ctx, &m, selectMember+` WHERE id = ? AND owner_id = ?`, id, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return &m, nil
}

func (r *SQLiteRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.AccountUser, error) {
	out := []models.AccountUser{}
	err := r.db.SelectContext(ctx, &out, selectMember+` WHERE owner_id = ? ORDER BY name, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, m *models.AccountUser) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE account_users SET name = :name, relationship = :relationship,
			birth_date = :birth_date, gender = :gender, occupation = :occupation,
			phone = :phone, notes = :notes, updated_at = :updated_at
		WHERE id = :id AND owner_id = :owner_id`, m)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM account_users WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return dbx.ExpectAffected(res)
}
