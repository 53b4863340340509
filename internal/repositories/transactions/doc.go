// Package transactions provides persistence for income and expense records.
//
// # Overview
//
// Repository is a thin, owner-scoped CRUD layer over the transactions table.
// It deliberately has no query language: ListByUser returns the user's full
// set and the ledger service filters and sorts in memory, so filter
// semantics live in one place (models.TransactionFilter).
//
// Deletes are physical. The member helpers (CountByMember, ClearMember,
// DeleteByMember) back the household member delete policies, and
// ClearAccount detaches transactions from a removed account.
//
// # Concurrency
//
// Safe for concurrent use when backed by *sqlx.DB. When constructed over a
// transaction, follow normal transaction scoping rules.
package transactions
