package repomanager

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/budgetkeeper/internal/repositories/accounts"
	"github.com/dmitrijs2005/budgetkeeper/internal/repositories/assets"
	"github.com/dmitrijs2005/budgetkeeper/internal/repositories/members"
	"github.com/dmitrijs2005/budgetkeeper/internal/repositories/metadata"
	"github.com/dmitrijs2005/budgetkeeper/internal/repositories/transactions"
	"github.com/dmitrijs2005/budgetkeeper/internal/repositories/users"
)

func newDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	var m RepositoryManager = NewSQLiteRepositoryManager()

	var _ users.Repository = m.Users(db)
	var _ members.Repository = m.Members(db)
	var _ transactions.Repository = m.Transactions(db)
	var _ assets.Repository = m.Assets(db)
	var _ accounts.Repository = m.Accounts(db)
	var _ metadata.Repository = m.Metadata(db)

	assert.NotNil(t, m.Users(db))
	assert.NotNil(t, m.Transactions(db))
}

func TestRepositories_DriverErrorsAreWrapped(t *testing.T) {
	db, mock := newDB(t)
	m := NewSQLiteRepositoryManager()
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM transactions").WillReturnError(errors.New("disk I/O error"))
	_, err := m.Transactions(db).ListByUser(ctx, "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list transactions")
	assert.Contains(t, err.Error(), "disk I/O error")

	mock.ExpectExec("DELETE FROM accounts").WillReturnError(errors.New("readonly database"))
	err = m.Accounts(db).Delete(ctx, "u1", "a1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete account")

	require.NoError(t, mock.ExpectationsWereMet())
}
