package services

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/dmitrijs2005/budgetkeeper/internal/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/session"
)

func allKinds(mode models.ImportMode, strategy models.MergeStrategy) models.ImportOptions {
	return models.ImportOptions{
		ImportMode:          mode,
		MergeStrategy:       strategy,
		IncludeTransactions: true,
		IncludeAssets:       true,
		IncludeAccounts:     true,
	}
}

// blankUser creates a user without the account Register adds.
func (e *env) blankUser(t *testing.T, username string) session.Session {
	t.Helper()
	u := &models.User{
		ID: common.NewID(), Username: username, Email: username + "@example.com",
		PasswordHash: "x", DefaultCurrency: "EUR", Settings: models.JSONMap{},
		CreatedAt: testNow, UpdatedAt: testNow,
	}
	require.NoError(t, e.repos.Users(e.db).Create(context.Background(), u))
	return session.Session{UserID: u.ID}
}

func (e *env) countTx(t *testing.T, sess session.Session) int {
	t.Helper()
	all, err := e.ledger.GetTransactions(context.Background(), sess, models.TransactionFilter{})
	require.NoError(t, err)
	return len(all)
}

func seedLedger(t *testing.T, e *env, sess session.Session) {
	t.Helper()
	ctx := context.Background()
	bank, err := e.accounts.CreateAccount(ctx, sess, models.Account{Name: "Bank", Type: "bank", Balance: dec("2500.10")})
	require.NoError(t, err)

	in := income("2024-03-01", "1000", "salary", "pay")
	in.AccountID = &bank.ID
	in.Tags = models.Tags{"work"}
	e.addTx(t, sess, in)
	e.addTx(t, sess, expense("2024-03-02", "42.50", "food", "groceries"))

	_, err = e.ledger.CreateAsset(ctx, sess, models.Asset{
		Name: "Gold Bar", Type: "precious_metal", CurrentValue: dec("2000"),
		PurchasePrice: dec("1800"), PurchaseDate: "2022-05-01", Quantity: dec("1"), Unit: "oz",
		Metadata: models.JSONMap{"vault": "bank"},
	})
	require.NoError(t, err)
}

func TestExport_Document(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sess := e.register(t, "alice")
	seedLedger(t, e, sess)
	gone := e.addAsset(t, sess, "Old", "other", "1")
	require.NoError(t, e.ledger.DeleteAsset(ctx, sess, gone.ID))

	doc, err := e.backup.Export(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, "1.0", doc.Version)
	assert.True(t, doc.ExportDate.Equal(testNow))
	assert.Equal(t, sess.UserID, doc.User.ID)
	assert.Len(t, doc.Transactions, 2)
	assert.Equal(t, "2024-03-02", doc.Transactions[0].Date)
	assert.Len(t, doc.Assets, 1)
	assert.Len(t, doc.Accounts, 2)
	assert.Equal(t, "budget_backup_2024-03-15.json", models.BackupFileName(doc.ExportDate))

	b, err := EncodeBackup(doc, nil)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "argon2id")
	assert.NotContains(t, string(b), "passwordHash")

	var generic map[string]any
	require.NoError(t, json.Unmarshal(b, &generic))
	for _, k := range []string{"exportDate", "version", "user", "transactions", "assets", "accounts"} {
		assert.Contains(t, generic, k)
	}

	_, err = e.backup.Export(ctx, session.Anonymous)
	assert.ErrorIs(t, err, common.ErrorNoSession)
}

func TestImport_RoundTripIntoFreshUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice")
	seedLedger(t, e, alice)

	doc, err := e.backup.Export(ctx, alice)
	require.NoError(t, err)
	b, err := EncodeBackup(doc, nil)
	require.NoError(t, err)

	fresh := e.blankUser(t, "fresh")
	res, err := e.backup.Import(ctx, fresh, b, allKinds(models.ImportAdd, models.MergeSkip))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Empty(t, res.Errors)
	assert.Equal(t, models.KindCounts{Transactions: 2, Assets: 1, Accounts: 2}, res.Imported)
	assert.Equal(t, models.KindCounts{}, res.Skipped)
	assert.Equal(t, models.KindCounts{}, res.Deleted)

	copyDoc, err := e.backup.Export(ctx, fresh)
	require.NoError(t, err)

	ignore := []cmp.Option{
		decimalEqual,
		cmpopts.IgnoreFields(models.Transaction{}, "ID", "UserID", "AccountID", "CreatedAt", "UpdatedAt"),
		cmpopts.IgnoreFields(models.Asset{}, "ID", "UserID", "CreatedAt", "UpdatedAt"),
		cmpopts.IgnoreFields(models.Account{}, "ID", "UserID", "CreatedAt", "UpdatedAt"),
		cmpopts.SortSlices(func(a, b models.Account) bool { return a.Name < b.Name }),
	}
	assert.Empty(t, cmp.Diff(doc.Transactions, copyDoc.Transactions, ignore...))
	assert.Empty(t, cmp.Diff(doc.Assets, copyDoc.Assets, ignore...))
	assert.Empty(t, cmp.Diff(doc.Accounts, copyDoc.Accounts, ignore...))
	assert.Equal(t, doc.User.Settings, copyDoc.User.Settings)

	// The salary transaction now points at the imported copy of "Bank".
	var bankID string
	for _, a := range copyDoc.Accounts {
		if a.Name == "Bank" {
			bankID = a.ID
		}
	}
	require.NotEmpty(t, bankID)
	for _, tx := range copyDoc.Transactions {
		if tx.Category == "salary" {
			assert.Equal(t, bankID, models.Deref(tx.AccountID))
		}
	}

	again, err := e.backup.Import(ctx, fresh, b, allKinds(models.ImportAdd, models.MergeSkip))
	require.NoError(t, err)
	assert.Equal(t, models.KindCounts{}, again.Imported)
	assert.Equal(t, models.KindCounts{Transactions: 2, Assets: 1, Accounts: 2}, again.Skipped)
	assert.Equal(t, 2, e.countTx(t, fresh))
}

func TestImport_ReplaceIsDestructive(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sess := e.register(t, "alice")
	for i := 1; i <= 5; i++ {
		e.addTx(t, sess, expense("2024-03-0"+strconv.Itoa(i), "10", "food", "old"))
	}
	old := e.addAsset(t, sess, "Old car", "vehicle", "500")

	doc := &models.BackupDocument{
		Version: "1.0",
		User:    &models.User{},
		Transactions: []models.Transaction{
			income("2024-03-10", "100", "gift", "present"),
			expense("2024-03-11", "15", "food", "pizza"),
		},
	}
	opts := allKinds(models.ImportReplace, models.MergeSkip)
	opts.IncludeAccounts = false

	res, err := e.backup.ImportDocument(ctx, sess, doc, opts)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Deleted.Transactions)
	assert.Equal(t, 1, res.Deleted.Assets)
	assert.Equal(t, 0, res.Deleted.Accounts)
	assert.Equal(t, 2, res.Imported.Transactions)
	assert.Equal(t, 2, e.countTx(t, sess))

	raw, err := e.repos.Assets(e.db).GetByID(ctx, sess.UserID, old.ID)
	require.NoError(t, err)
	assert.False(t, raw.IsActive)

	accs, err := e.accounts.ListAccounts(ctx, sess)
	require.NoError(t, err)
	assert.Len(t, accs, 1)
}

func TestImport_ReplaceDoesNotDedupe(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sess := e.register(t, "alice")
	e.addTx(t, sess, expense("2024-03-01", "10", "food", "same"))

	doc := &models.BackupDocument{Version: "1.0", User: &models.User{}, Transactions: []models.Transaction{
		expense("2024-03-01", "10", "food", "same"),
		expense("2024-03-01", "10", "food", "same"),
	}}
	opts := allKinds(models.ImportReplace, models.MergeSkip)
	opts.IncludeAssets, opts.IncludeAccounts = false, false

	res, err := e.backup.ImportDocument(ctx, sess, doc, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Deleted.Transactions)
	assert.Equal(t, 2, res.Imported.Transactions)
	assert.Equal(t, 0, res.Skipped.Transactions)
}

func TestImport_SkipVersusOverwrite(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sess := e.register(t, "alice")
	gold := e.addAsset(t, sess, "Gold Bar", "precious_metal", "2000")

	incoming := models.Asset{Name: "Gold Bar", Type: "precious_metal", CurrentValue: dec("2500"), Location: "safe"}
	doc := &models.BackupDocument{Version: "1.0", User: &models.User{}, Assets: []models.Asset{incoming}}

	res, err := e.backup.ImportDocument(ctx, sess, doc, allKinds(models.ImportAdd, models.MergeSkip))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped.Assets)
	assert.Equal(t, 0, res.Imported.Assets)
	got, err := e.ledger.GetAsset(ctx, sess, gold.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentValue.Equal(dec("2000")))

	later := testNow.Add(time.Hour)
	e.setClock(func() time.Time { return later })

	res, err = e.backup.ImportDocument(ctx, sess, doc, allKinds(models.ImportAdd, models.MergeOverwrite))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Skipped.Assets)
	assert.Equal(t, 1, res.Imported.Assets)
	got, err = e.ledger.GetAsset(ctx, sess, gold.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentValue.Equal(dec("2500")))
	assert.Equal(t, "safe", got.Location)
	assert.True(t, got.CreatedAt.Equal(testNow))
	assert.True(t, got.UpdatedAt.Equal(later))

	all, err := e.ledger.GetAssets(ctx, sess, models.AssetFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestImport_TransactionIdentity(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sess := e.register(t, "alice")
	e.addTx(t, sess, expense("2024-03-01", "10.50", "food", "lunch"))

	sameKey := expense("2024-03-01", "10.5", "transport", "lunch")
	otherType := income("2024-03-01", "10.50", "gift", "lunch")
	doc := &models.BackupDocument{Version: "1.0", User: &models.User{}, Transactions: []models.Transaction{sameKey, otherType}}

	res, err := e.backup.ImportDocument(ctx, sess, doc, allKinds(models.ImportAdd, models.MergeSkip))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped.Transactions)
	assert.Equal(t, 1, res.Imported.Transactions)
	assert.Equal(t, 2, e.countTx(t, sess))
}

func TestImport_PerRecordFailuresAreCollected(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sess := e.register(t, "alice")

	bad := expense("2024-03-01", "10", "lasers", "pew")
	doc := &models.BackupDocument{
		Version: "1.0",
		User:    &models.User{},
		Transactions: []models.Transaction{
			bad,
			expense("2024-03-02", "10", "food", "fine"),
		},
		Assets:   []models.Asset{{Name: "Rocket", Type: "spaceship"}},
		Accounts: []models.Account{{Name: "", Type: "bank"}},
	}

	res, err := e.backup.ImportDocument(ctx, sess, doc, allKinds(models.ImportAdd, models.MergeSkip))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Len(t, res.Errors, 3)
	assert.Equal(t, models.KindCounts{Transactions: 1}, res.Imported)
	assert.Equal(t, models.KindCounts{Transactions: 1, Assets: 1, Accounts: 1}, res.Skipped)
	assert.Contains(t, res.Errors[1], "Rocket")
	assert.Contains(t, res.Errors[2], "lasers")
}

func TestImport_MergesSettingsOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sess := e.register(t, "alice")

	incl := models.InclusionSettings{}
	incl.SetAsset("crypto", false)
	doc := &models.BackupDocument{
		Version: "1.0",
		User: &models.User{
			Username: "mallory", Email: "mallory@example.com", DefaultCurrency: "JPY",
			Settings: models.JSONMap{"theme": "dark"}.WithInclusion(incl),
		},
	}
	_, err := e.backup.ImportDocument(ctx, sess, doc, allKinds(models.ImportAdd, models.MergeSkip))
	require.NoError(t, err)

	u, err := e.identity.GetUser(ctx, sess.UserID)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "EUR", u.DefaultCurrency)
	assert.Equal(t, "dark", u.Settings["theme"])
	assert.False(t, u.Settings.Inclusion().IncludesAsset("crypto"))
}

func TestImport_DropsForeignReferences(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice")
	bob := e.register(t, "bob")
	kid, err := e.members.CreateMember(ctx, alice, models.AccountUser{Name: "Kid"})
	require.NoError(t, err)

	in := expense("2024-03-01", "10", "children", "toys")
	in.AccountUserID = &kid.ID
	in.AccountID = models.StringPtr("not-in-document")
	doc := &models.BackupDocument{Version: "1.0", User: &models.User{}, Transactions: []models.Transaction{in}}

	_, err = e.backup.ImportDocument(ctx, bob, doc, allKinds(models.ImportAdd, models.MergeSkip))
	require.NoError(t, err)

	got, err := e.ledger.GetTransactions(ctx, bob, models.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].AccountUserID)
	assert.Nil(t, got[0].AccountID)
}

func TestImport_RejectsInvalidInput(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sess := e.register(t, "alice")
	opts := models.DefaultImportOptions()

	for name, raw := range map[string]string{
		"not json":      `{"version":`,
		"no version":    `{"user":{}}`,
		"empty version": `{"version":"","user":{}}`,
		"no user":       `{"version":"1.0"}`,
		"user not obj":  `{"version":"1.0","user":"alice"}`,
		"array":         `[]`,
	} {
		_, err := e.backup.Import(ctx, sess, []byte(raw), opts)
		assert.ErrorIs(t, err, common.ErrorValidation, name)
	}

	doc := &models.BackupDocument{Version: "1.0", User: &models.User{}}
	_, err := e.backup.ImportDocument(ctx, sess, doc, models.ImportOptions{ImportMode: "merge"})
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = e.backup.ImportDocument(ctx, sess, doc, models.ImportOptions{MergeStrategy: "newest"})
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = e.backup.ImportDocument(ctx, session.Anonymous, doc, opts)
	assert.ErrorIs(t, err, common.ErrorNoSession)
}

func TestImport_UnknownVersionWarns(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sess := e.register(t, "alice")

	var buf bytes.Buffer
	svc := NewBackupService(e.db, e.repos, logging.New("info", "json", &buf))

	raw := `{"version":"9.9","user":{},"transactions":[{"date":"2024-03-01","amount":5,"type":"expense","category":"food","description":"tea"}]}`
	res, err := svc.Import(ctx, sess, []byte(raw), models.DefaultImportOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported.Transactions)
	assert.Contains(t, buf.String(), "unknown version")
	assert.Contains(t, buf.String(), `"version":"9.9"`)
}

func TestImport_CustomIdentityStrategy(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sess := e.register(t, "alice")
	e.addAsset(t, sess, "Tesla", "vehicle", "30000")

	byType := NewBackupService(e.db, e.repos, nil, WithIdentityStrategies(IdentityStrategies{
		Asset: func(a models.Asset) string { return a.Type },
	}))
	doc := &models.BackupDocument{Version: "1.0", User: &models.User{}, Assets: []models.Asset{
		{Name: "Volvo", Type: "vehicle", CurrentValue: dec("9000")},
		{Name: "Bitcoin", Type: "crypto", CurrentValue: dec("100")},
	}}

	res, err := byType.ImportDocument(ctx, sess, doc, allKinds(models.ImportAdd, models.MergeSkip))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped.Assets)
	assert.Equal(t, 1, res.Imported.Assets)
	assert.NotNil(t, byType.identities.Transaction)
}

func TestImport_SerializedPerUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sess := e.register(t, "alice")

	doc := &models.BackupDocument{Version: "1.0", User: &models.User{}}
	for i := 0; i < 5; i++ {
		doc.Transactions = append(doc.Transactions, expense("2024-03-01", strconv.Itoa(i+1), "food", "item"))
	}

	var wg sync.WaitGroup
	results := make([]*models.ImportResult, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := e.backup.ImportDocument(ctx, sess, doc, allKinds(models.ImportAdd, models.MergeSkip))
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	imported := results[0].Imported.Transactions + results[1].Imported.Transactions
	skipped := results[0].Skipped.Transactions + results[1].Skipped.Transactions
	assert.Equal(t, 5, imported)
	assert.Equal(t, 5, skipped)
	assert.Equal(t, 5, e.countTx(t, sess))
}

func TestImport_RoundTripIntoRegisteredUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice")
	seedLedger(t, e, alice)

	doc, err := e.backup.Export(ctx, alice)
	require.NoError(t, err)
	b, err := EncodeBackup(doc, nil)
	require.NoError(t, err)

	// bob already owns the "Cash" account Register creates, so alice's
	// "Cash" is a duplicate by name.
	bob := e.register(t, "bob")
	res, err := e.backup.Import(ctx, bob, b, allKinds(models.ImportAdd, models.MergeSkip))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Empty(t, res.Errors)
	assert.Equal(t, models.KindCounts{Transactions: 2, Assets: 1, Accounts: 1}, res.Imported)
	assert.Equal(t, models.KindCounts{Accounts: 1}, res.Skipped)

	accs, err := e.accounts.ListAccounts(ctx, bob)
	require.NoError(t, err)
	require.Len(t, accs, 2)
	var bankID string
	for _, a := range accs {
		assert.Equal(t, a.Name == "Cash", a.IsDefault, a.Name)
		if a.Name == "Bank" {
			bankID = a.ID
		}
	}
	require.NotEmpty(t, bankID)

	txs, err := e.ledger.GetTransactions(ctx, bob, models.TransactionFilter{Category: "salary"})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, bankID, models.Deref(txs[0].AccountID))
}

func TestImport_ReplaceRecreatesAccounts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sess := e.register(t, "alice")
	seedLedger(t, e, sess)

	before, err := e.accounts.ListAccounts(ctx, sess)
	require.NoError(t, err)
	oldIDs := map[string]bool{}
	for _, a := range before {
		oldIDs[a.ID] = true
	}

	doc, err := e.backup.Export(ctx, sess)
	require.NoError(t, err)

	res, err := e.backup.ImportDocument(ctx, sess, doc, allKinds(models.ImportReplace, models.MergeSkip))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Empty(t, res.Errors)
	assert.Equal(t, models.KindCounts{Transactions: 2, Assets: 1, Accounts: 2}, res.Deleted)
	assert.Equal(t, models.KindCounts{Transactions: 2, Assets: 1, Accounts: 2}, res.Imported)
	assert.Equal(t, models.KindCounts{}, res.Skipped)

	after, err := e.accounts.ListAccounts(ctx, sess)
	require.NoError(t, err)
	require.Len(t, after, 2)

	var defaults []string
	var bankID string
	for _, a := range after {
		assert.False(t, oldIDs[a.ID], "account %s kept its old id", a.Name)
		if a.IsDefault {
			defaults = append(defaults, a.Name)
		}
		if a.Name == "Bank" {
			bankID = a.ID
		}
	}
	assert.Equal(t, []string{"Cash"}, defaults)
	require.NotEmpty(t, bankID)

	txs, err := e.ledger.GetTransactions(ctx, sess, models.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 2)
	for _, tx := range txs {
		if tx.Description == "pay" {
			assert.Equal(t, bankID, models.Deref(tx.AccountID))
		} else {
			assert.Nil(t, tx.AccountID)
		}
	}
}

func TestImport_ReplaceCollectsDeleteFailures(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sess := e.register(t, "alice")
	e.addTx(t, sess, expense("2024-03-01", "10", "food", "bread"))
	e.addTx(t, sess, expense("2024-03-02", "20", "food", "milk"))
	locked := e.addTx(t, sess, expense("2024-03-03", "30", "food", "locked"))

	_, err := e.db.ExecContext(ctx, `CREATE TRIGGER keep_locked BEFORE DELETE ON transactions
		WHEN OLD.description = 'locked'
		BEGIN SELECT RAISE(ABORT, 'row is locked'); END`)
	require.NoError(t, err)

	doc := &models.BackupDocument{
		Version:      "1.0",
		User:         &models.User{},
		Transactions: []models.Transaction{income("2024-03-10", "100", "gift", "present")},
	}
	opts := allKinds(models.ImportReplace, models.MergeSkip)
	opts.IncludeAssets, opts.IncludeAccounts = false, false

	res, err := e.backup.ImportDocument(ctx, sess, doc, opts)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.Deleted.Transactions)
	assert.Equal(t, 1, res.Imported.Transactions)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], locked.ID)
	assert.Contains(t, res.Errors[0], "row is locked")

	left, err := e.ledger.GetTransactions(ctx, sess, models.TransactionFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"present", "locked"}, []string{left[0].Description, left[1].Description})
}

func TestImport_ReportsMalformedInclusionSettings(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sess := e.register(t, "alice")

	doc := &models.BackupDocument{
		Version: "1.0",
		User: &models.User{Settings: models.JSONMap{
			"theme": "dark",
			models.SettingsInclusionKey: map[string]any{
				"assets": map[string]any{"crypto": "false"},
			},
		}},
	}
	res, err := e.backup.ImportDocument(ctx, sess, doc, allKinds(models.ImportAdd, models.MergeSkip))
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], models.SettingsInclusionKey)

	u, err := e.identity.GetUser(ctx, sess.UserID)
	require.NoError(t, err)
	assert.Equal(t, "dark", u.Settings["theme"])
	_, err = u.Settings.ParseInclusion()
	assert.NoError(t, err)
	assert.True(t, u.Settings.Inclusion().IncludesAsset("crypto"))
}
