package users

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

const selectUser = `SELECT id, username, email, password_hash, display_name, default_currency,
	settings, created_at, updated_at FROM users`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, u *models.User) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, display_name, default_currency,
			settings, created_at, updated_at)
		VALUES (:id, :username, :email, :password_hash, :display_name, :default_currency,
			:settings, :created_at, :updated_at)`, u)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("failed to create user: %w", common.ErrorAlreadyExists)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) get(ctx context.Context, where string, arg any) (*models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u, selectUser+" WHERE "+where, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.get(ctx, "id = ?", id)
}

func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.get(ctx, "email = ?", email)
}

func (r *SQLiteRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.get(ctx, "username = ?", username)
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, selectUser+" ORDER BY created_at, id"); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, u *models.User) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE users SET username = :username, email = :email, display_name = :display_name,
			default_currency = :default_currency, settings = :settings, updated_at = :updated_at
		WHERE id = :id`, u)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("failed to update user: %w", common.ErrorAlreadyExists)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *SQLiteRepository) UpdatePassword(ctx context.Context, id string, hash string, updatedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`, hash, updatedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return dbx.ExpectAffected(res)
}
