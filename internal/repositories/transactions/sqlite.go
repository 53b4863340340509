package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/dbx"
	"github.com/dmitrijs2005/budgetkeeper/internal/models"
)

const selectTransaction = `SELECT id, user_id, account_user_id, date, amount, currency, type,
	category, subcategory, description, tags, account_id, notes, created_at, updated_at
	FROM transactions`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, t *models.Transaction) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO transactions (id, user_id, account_user_id, date, amount, currency, type,
			category, subcategory, description, tags, account_id, notes, created_at, updated_at)
		VALUES (:id, :user_id, :account_user_id, :date, :amount, :currency, :type,
			:category, :subcategory, :description, :tags, :account_id, :notes, :created_at, :updated_at)`, t)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("failed to create transaction: %w", common.ErrorAlreadyExists)
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, userID, id string) (*models.Transaction, error) {
	var t models.Transaction
	err := r.db.GetContext(ctx, &t, selectTransaction+` WHERE id = ? AND user_id = ?`, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &t, nil
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	out := []models.Transaction{}
	if err := r.db.SelectContext(ctx, &out, selectTransaction+` WHERE user_id = ?`, userID); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, t *models.Transaction) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE transactions SET account_user_id = :account_user_id, date = :date, amount = :amount,
			currency = :currency, type = :type, category = :category, subcategory = :subcategory,
			description = :description, tags = :tags, account_id = :account_id, notes = :notes,
			updated_at = :updated_at
		WHERE id = :id AND user_id = :user_id`, t)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return dbx.ExpectAffected(res)
}

func (r *SQLiteRepository) CountByMember(ctx context.Context, userID, memberID string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM transactions WHERE user_id = ? AND account_user_id = ?`, userID, memberID)
	if err != nil {
		return 0, fmt.Errorf("failed to count member transactions: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) ClearMember(ctx context.Context, userID, memberID string) (int64, error) {
	return r.exec(ctx, "failed to detach member transactions",
		`UPDATE transactions SET account_user_id = NULL WHERE user_id = ? AND account_user_id = ?`, userID, memberID)
}

func (r *SQLiteRepository) DeleteByMember(ctx context.Context, userID, memberID string) (int64, error) {
	return r.exec(ctx, "failed to delete member transactions",
		`DELETE FROM transactions WHERE user_id = ? AND account_user_id = ?`, userID, memberID)
}

func (r *SQLiteRepository) ClearAccount(ctx context.Context, userID, accountID string) (int64, error) {
	return r.exec(ctx, "failed to detach account transactions",
		`UPDATE transactions SET account_id = NULL WHERE user_id = ? AND account_id = ?`, userID, accountID)
}

func (r *SQLiteRepository) exec(ctx context.Context, msg, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", msg, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", msg, err)
	}
	return n, nil
}
