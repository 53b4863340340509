package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/storage"
)

func setupDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := storage.Open(context.Background(), storage.MemoryDSN())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func account(id, user, name string, def bool) *models.Account {
	now := time.Now().UTC()
	return &models.Account{
		ID: id, UserID: user, Name: name, Type: "bank",
		Balance: decimal.RequireFromString("150.20"), Currency: "EUR",
		IsDefault: def, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}
}

func TestCreateGetList(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, account("a1", "u1", "Savings", false)))
	require.NoError(t, r.Create(ctx, account("a2", "u1", "Wallet", true)))
	require.NoError(t, r.Create(ctx, account("a3", "u2", "Other", true)))

	got, err := r.GetByID(ctx, "u1", "a1")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("150.2").Equal(got.Balance))
	assert.True(t, got.IsActive)

	_, err = r.GetByID(ctx, "u2", "a1")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	list, err := r.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a2", list[0].ID, "default account comes first")
}

func TestUpdateClearDefaultDelete(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	a := account("a1", "u1", "Wallet", true)
	require.NoError(t, r.Create(ctx, a))

	require.NoError(t, r.ClearDefault(ctx, "u1", time.Now().UTC()))
	got, err := r.GetByID(ctx, "u1", "a1")
	require.NoError(t, err)
	assert.False(t, got.IsDefault)

	a.Name = "Cash"
	require.NoError(t, r.Update(ctx, a))
	got, err = r.GetByID(ctx, "u1", "a1")
	require.NoError(t, err)
	assert.Equal(t, "Cash", got.Name)
	assert.True(t, got.IsDefault)

	assert.ErrorIs(t, r.Delete(ctx, "u2", "a1"), common.ErrorNotFound)
	require.NoError(t, r.Delete(ctx, "u1", "a1"))
	assert.ErrorIs(t, r.Delete(ctx, "u1", "a1"), common.ErrorNotFound)
}
