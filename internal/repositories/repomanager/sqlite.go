package repomanager

import (
	"github.com/dmitrijs2005/budgetkeeper/internal/dbx"
	"github.com/dmitrijs2005/budgetkeeper/internal/repositories/accounts"
	"github.com/dmitrijs2005/budgetkeeper/internal/repositories/assets"
	"github.com/dmitrijs2005/budgetkeeper/internal/repositories/members"
	"github.com/dmitrijs2005/budgetkeeper/internal/repositories/metadata"
	"github.com/dmitrijs2005/budgetkeeper/internal/repositories/transactions"
	"github.com/dmitrijs2005/budgetkeeper/internal/repositories/users"
)

// SQLiteRepositoryManager vends SQLite-backed repositories.
type SQLiteRepositoryManager struct{}

func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Members(db dbx.DBTX) members.Repository {
	return members.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Transactions(db dbx.DBTX) transactions.Repository {
	return transactions.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Assets(db dbx.DBTX) assets.Repository {
	return assets.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Metadata(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}
