// Package services implements the budgetkeeper use cases on top of the
// repositories: identity and sessions, the ledger of transactions and
// assets, accounts, household members, statistics and backup/restore.
//
// Every call that acts for a user takes an explicit session.Session.
// Records owned by another user are reported as common.ErrorNotFound.
package services
