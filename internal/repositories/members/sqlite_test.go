package members

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
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

func member(id, owner, name string) *models.AccountUser {
	now := time.Now().UTC()
	return &models.AccountUser{
		ID: id, OwnerID: owner, Name: name, Relationship: "spouse",
		BirthDate: "1990-04-01", CreatedAt: now, UpdatedAt: now,
	}
}

func TestCreateGetList_ScopedToOwner(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, member("m1", "ann", "Bob")))
	require.NoError(t, r.Create(ctx, member("m2", "ann", "Alice")))
	require.NoError(t, r.Create(ctx, member("m3", "carl", "Dora")))

	got, err := r.GetByID(ctx, "ann", "m1")
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.Name)
	assert.Equal(t, "1990-04-01", got.BirthDate)

	_, err = r.GetByID(ctx, "carl", "m1")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	list, err := r.ListByOwner(ctx, "ann")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alice", list[0].Name)
	assert.Equal(t, "Bob", list[1].Name)
}

func TestUpdate(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	m := member("m1", "ann", "Bob")
	require.NoError(t, r.Create(ctx, m))

	m.Occupation = "nurse"
	require.NoError(t, r.Update(ctx, m))

	got, err := r.GetByID(ctx, "ann", "m1")
	require.NoError(t, err)
	assert.Equal(t, "nurse", got.Occupation)

	foreign := *m
	foreign.OwnerID = "carl"
	assert.ErrorIs(t, r.Update(ctx, &foreign), common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, member("m1", "ann", "Bob")))

	assert.ErrorIs(t, r.Delete(ctx, "carl", "m1"), common.ErrorNotFound)
	require.NoError(t, r.Delete(ctx, "ann", "m1"))
	assert.ErrorIs(t, r.Delete(ctx, "ann", "m1"), common.ErrorNotFound)
}
