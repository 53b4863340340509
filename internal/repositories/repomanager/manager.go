// Package repomanager vends repository implementations bound to a DBTX, so
// a service can use the same repositories over the pool or inside a
// transaction.
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

// RepositoryManager is implemented for SQLite only. Schema migrations are
// applied by storage.Open before any repository is handed out.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Members(db dbx.DBTX) members.Repository
	Transactions(db dbx.DBTX) transactions.Repository
	Assets(db dbx.DBTX) assets.Repository
	Accounts(db dbx.DBTX) accounts.Repository
	Metadata(db dbx.DBTX) metadata.Repository
}
