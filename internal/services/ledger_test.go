package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/session"
)

func dates(ts []models.Transaction) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Date
	}
	return out
}

func TestCreateTransaction_Validation(t *testing.T) {
	e := newEnv(t)
	sess := e.register(t, "alice")
	ctx := context.Background()

	valid := expense("2024-03-01", "12.50", "food", "lunch")
	mutate := func(fn func(*models.Transaction)) models.Transaction {
		tx := valid
		fn(&tx)
		return tx
	}

	tests := []struct {
		name string
		in   models.Transaction
	}{
		{"missing type", mutate(func(t *models.Transaction) { t.Type = "" })},
		{"zero amount", mutate(func(t *models.Transaction) { t.Amount = dec("0") })},
		{"negative amount", mutate(func(t *models.Transaction) { t.Amount = dec("-5") })},
		{"missing category", mutate(func(t *models.Transaction) { t.Category = "" })},
		{"category of other type", mutate(func(t *models.Transaction) { t.Category = "salary" })},
		{"missing description", mutate(func(t *models.Transaction) { t.Description = "  " })},
		{"missing date", mutate(func(t *models.Transaction) { t.Date = "" })},
		{"bad date", mutate(func(t *models.Transaction) { t.Date = "01/03/2024" })},
		{"bad currency", mutate(func(t *models.Transaction) { t.Currency = "ZZZ" })},
		{"foreign member", mutate(func(t *models.Transaction) { t.AccountUserID = models.StringPtr("nope") })},
		{"foreign account", mutate(func(t *models.Transaction) { t.AccountID = models.StringPtr("nope") })},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.ledger.CreateTransaction(ctx, sess, tt.in)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}

	_, err := e.ledger.CreateTransaction(ctx, session.Anonymous, valid)
	assert.ErrorIs(t, err, common.ErrorNoSession)

	all, err := e.ledger.GetTransactions(ctx, sess, models.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateTransaction_StampsOwnerAndDefaults(t *testing.T) {
	e := newEnv(t)
	sess := e.register(t, "alice")
	ctx := context.Background()

	in := expense("2024-03-01", "12.50", "food", "lunch")
	in.ID = "forged"
	in.UserID = "someone-else"
	got := e.addTx(t, sess, in)

	assert.NotEqual(t, "forged", got.ID)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, "EUR", got.Currency)
	assert.Equal(t, models.Tags{}, got.Tags)
	assert.True(t, got.CreatedAt.Equal(testNow))

	in.Currency = "usd"
	got = e.addTx(t, sess, in)
	assert.Equal(t, "USD", got.Currency)

	stored, err := e.ledger.GetTransaction(ctx, sess, got.ID)
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(dec("12.5")))
	assert.Equal(t, "lunch", stored.Description)
}

func TestGetTransactions_FilterComposition(t *testing.T) {
	e := newEnv(t)
	sess := e.register(t, "alice")
	ctx := context.Background()

	e.addTx(t, sess, expense("2024-01-01", "10", "food", "a"))
	e.addTx(t, sess, expense("2024-01-03", "10", "food", "b"))
	e.addTx(t, sess, expense("2024-01-02", "10", "food", "c"))
	e.addTx(t, sess, expense("2024-01-04", "10", "transport", "bus"))
	e.addTx(t, sess, income("2024-01-05", "500", "salary", "pay"))

	got, err := e.ledger.GetTransactions(ctx, sess, models.TransactionFilter{
		Type: models.TransactionExpense, Category: "food",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-03", "2024-01-02", "2024-01-01"}, dates(got))

	got, err = e.ledger.GetTransactions(ctx, sess, models.TransactionFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-05", "2024-01-04", "2024-01-03", "2024-01-02", "2024-01-01"}, dates(got))

	got, err = e.ledger.GetTransactions(ctx, sess, models.TransactionFilter{DateFrom: "2024-01-02", DateTo: "2024-01-04"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-04", "2024-01-03", "2024-01-02"}, dates(got))
}

func TestGetTransactions_FilterByMemberTagsCurrency(t *testing.T) {
	e := newEnv(t)
	sess := e.register(t, "alice")
	ctx := context.Background()

	kid, err := e.members.CreateMember(ctx, sess, models.AccountUser{Name: "Kid", Relationship: "child"})
	require.NoError(t, err)

	a := expense("2024-02-01", "30", "children", "school")
	a.AccountUserID = &kid.ID
	a.Tags = models.Tags{"school", "monthly"}
	e.addTx(t, sess, a)

	b := expense("2024-02-02", "5", "food", "ice cream")
	b.Currency = "USD"
	b.Tags = models.Tags{"treat"}
	e.addTx(t, sess, b)

	got, err := e.ledger.GetTransactions(ctx, sess, models.TransactionFilter{AccountUserID: kid.ID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "school", got[0].Description)

	got, err = e.ledger.GetTransactions(ctx, sess, models.TransactionFilter{Tags: []string{"treat", "other"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ice cream", got[0].Description)

	got, err = e.ledger.GetTransactions(ctx, sess, models.TransactionFilter{Currency: "EUR"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "school", got[0].Description)
}

func TestGetTransactions_StableTieBreak(t *testing.T) {
	e := newEnv(t)
	sess := e.register(t, "alice")

	clock := testNow
	e.setClock(func() time.Time { return clock })
	first := e.addTx(t, sess, expense("2024-03-01", "1", "food", "first"))
	clock = clock.Add(time.Minute)
	second := e.addTx(t, sess, expense("2024-03-01", "2", "food", "second"))

	for i := 0; i < 3; i++ {
		got, err := e.ledger.GetTransactions(context.Background(), sess, models.TransactionFilter{})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, second.ID, got[0].ID)
		assert.Equal(t, first.ID, got[1].ID)
	}
}

func TestTransactions_OwnershipIsolation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice")
	bob := e.register(t, "bob")

	tx := e.addTx(t, alice, expense("2024-03-01", "9", "food", "mine"))

	_, err := e.ledger.GetTransaction(ctx, bob, tx.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	desc := "stolen"
	_, err = e.ledger.UpdateTransaction(ctx, bob, tx.ID, models.TransactionPatch{Description: &desc})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.ErrorIs(t, e.ledger.DeleteTransaction(ctx, bob, tx.ID), common.ErrorNotFound)

	list, err := e.ledger.GetTransactions(ctx, bob, models.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	still, err := e.ledger.GetTransaction(ctx, alice, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", still.Description)
}

func TestUpdateTransaction(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sess := e.register(t, "alice")
	tx := e.addTx(t, sess, expense("2024-03-01", "9", "food", "lunch"))

	later := testNow.Add(time.Hour)
	e.setClock(func() time.Time { return later })

	amount := dec("11.25")
	cat := "entertainment"
	got, err := e.ledger.UpdateTransaction(ctx, sess, tx.ID, models.TransactionPatch{Amount: &amount, Category: &cat})
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(amount))
	assert.Equal(t, "entertainment", got.Category)
	assert.Equal(t, "lunch", got.Description)
	assert.True(t, got.UpdatedAt.Equal(later))
	assert.True(t, got.CreatedAt.Equal(testNow))

	zero := dec("0")
	_, err = e.ledger.UpdateTransaction(ctx, sess, tx.ID, models.TransactionPatch{Amount: &zero})
	assert.ErrorIs(t, err, common.ErrorValidation)

	ghost := "ghost"
	_, err = e.ledger.UpdateTransaction(ctx, sess, tx.ID, models.TransactionPatch{AccountUserID: &ghost})
	assert.ErrorIs(t, err, common.ErrorValidation)

	stored, err := e.ledger.GetTransaction(ctx, sess, tx.ID)
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(amount))
	assert.Nil(t, stored.AccountUserID)
}

func TestDeleteTransaction_IsPhysical(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sess := e.register(t, "alice")
	tx := e.addTx(t, sess, expense("2024-03-01", "9", "food", "lunch"))

	require.NoError(t, e.ledger.DeleteTransaction(ctx, sess, tx.ID))

	_, err := e.ledger.GetTransaction(ctx, sess, tx.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, e.ledger.DeleteTransaction(ctx, sess, tx.ID), common.ErrorNotFound)

	_, err = e.repos.Transactions(e.db).GetByID(ctx, sess.UserID, tx.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestAssets_CreateListSort(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sess := e.register(t, "alice")
	spouse, err := e.members.CreateMember(ctx, sess, models.AccountUser{Name: "Sam"})
	require.NoError(t, err)

	e.addAsset(t, sess, "Savings", "deposit", "5000")
	e.addAsset(t, sess, "Car", "vehicle", "12000")
	gold, err := e.ledger.CreateAsset(ctx, sess, models.Asset{
		Name: "Gold Bar", Type: "precious_metal", CurrentValue: dec("2100.50"),
		Quantity: dec("1"), Unit: "oz", AccountUserID: &spouse.ID,
		Metadata: models.JSONMap{"vault": "home"},
	})
	require.NoError(t, err)
	assert.True(t, gold.IsActive)
	assert.Equal(t, "EUR", gold.Currency)

	got, err := e.ledger.GetAssets(ctx, sess, models.AssetFilter{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Car", "Savings", "Gold Bar"}, []string{got[0].Name, got[1].Name, got[2].Name})

	got, err = e.ledger.GetAssets(ctx, sess, models.AssetFilter{AccountUserID: spouse.ID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "home", got[0].Metadata["vault"])

	got, err = e.ledger.GetAssets(ctx, sess, models.AssetFilter{Type: "vehicle"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Car", got[0].Name)

	_, err = e.ledger.CreateAsset(ctx, sess, models.Asset{Name: "Boat", Type: "yacht"})
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = e.ledger.CreateAsset(ctx, sess, models.Asset{Type: "cash"})
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = e.ledger.CreateAsset(ctx, sess, models.Asset{Name: "Debt", Type: "cash", CurrentValue: dec("-1")})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestDeleteAsset_IsSoft(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sess := e.register(t, "alice")
	a := e.addAsset(t, sess, "Gold Bar", "precious_metal", "2000")

	require.NoError(t, e.ledger.DeleteAsset(ctx, sess, a.ID))

	list, err := e.ledger.GetAssets(ctx, sess, models.AssetFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = e.ledger.GetAsset(ctx, sess, a.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, e.ledger.DeleteAsset(ctx, sess, a.ID), common.ErrorNotFound)

	raw, err := e.repos.Assets(e.db).GetByID(ctx, sess.UserID, a.ID)
	require.NoError(t, err)
	assert.False(t, raw.IsActive)
	assert.Equal(t, "Gold Bar", raw.Name)
}

func TestUpdateAsset(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice")
	bob := e.register(t, "bob")
	a := e.addAsset(t, alice, "Shares", "stock", "100")

	v := dec("150")
	got, err := e.ledger.UpdateAsset(ctx, alice, a.ID, models.AssetPatch{CurrentValue: &v})
	require.NoError(t, err)
	assert.True(t, got.CurrentValue.Equal(v))
	assert.Equal(t, "Shares", got.Name)

	_, err = e.ledger.UpdateAsset(ctx, bob, a.ID, models.AssetPatch{CurrentValue: &v})
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = e.ledger.GetAsset(ctx, bob, a.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
