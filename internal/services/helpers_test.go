package services

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/dmitrijs2005/budgetkeeper/internal/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/budgetkeeper/internal/session"
	"github.com/dmitrijs2005/budgetkeeper/internal/storage"
)

// testNow is the wall clock seen by every service under test.
var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

type env struct {
	db       *sqlx.DB
	repos    *repomanager.SQLiteRepositoryManager
	identity *IdentityService
	ledger   *LedgerService
	accounts *AccountService
	members  *MemberService
	stats    *StatisticsService
	backup   *BackupService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := storage.Open(context.Background(), storage.MemoryDSN())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m := repomanager.NewSQLiteRepositoryManager()
	log := logging.Nop()
	e := &env{
		db:       db,
		repos:    m,
		identity: NewIdentityService(db, m, log),
		ledger:   NewLedgerService(db, m, log),
		accounts: NewAccountService(db, m, log),
		members:  NewMemberService(db, m, log, models.MemberDeleteNullify),
		stats:    NewStatisticsService(db, m, log),
		backup:   NewBackupService(db, m, log),
	}
	e.setClock(func() time.Time { return testNow })
	return e
}

func (e *env) setClock(now func() time.Time) {
	e.identity.now = now
	e.ledger.now = now
	e.accounts.now = now
	e.members.now = now
	e.stats.now = now
	e.backup.now = now
}

// register creates a user with password "secret" and returns its session.
func (e *env) register(t *testing.T, username string) session.Session {
	t.Helper()
	u, err := e.identity.Register(context.Background(), models.NewUser{
		Username:        username,
		Email:           username + "@example.com",
		Password:        []byte("secret"),
		DefaultCurrency: "EUR",
	})
	require.NoError(t, err)
	return session.Session{UserID: u.ID}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func expense(date, amount, category, desc string) models.Transaction {
	return models.Transaction{
		Date:        date,
		Amount:      dec(amount),
		Type:        models.TransactionExpense,
		Category:    category,
		Description: desc,
	}
}

func income(date, amount, category, desc string) models.Transaction {
	t := expense(date, amount, category, desc)
	t.Type = models.TransactionIncome
	return t
}

func (e *env) addTx(t *testing.T, sess session.Session, in models.Transaction) *models.Transaction {
	t.Helper()
	out, err := e.ledger.CreateTransaction(context.Background(), sess, in)
	require.NoError(t, err)
	return out
}

func (e *env) addAsset(t *testing.T, sess session.Session, name, typ, value string) *models.Asset {
	t.Helper()
	out, err := e.ledger.CreateAsset(context.Background(), sess, models.Asset{
		Name: name, Type: typ, CurrentValue: dec(value),
	})
	require.NoError(t, err)
	return out
}
