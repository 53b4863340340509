// Package users provides persistence for registered users.
//
// # Overview
//
// Repository covers create, lookup by id/email/username, full listing and
// updates. The SQLite implementation works over a dbx.DBTX, so the same code
// serves a plain *sqlx.DB and a transaction.
//
// Username and email are unique (enforced by indexes); violations surface as
// common.ErrorAlreadyExists. The password hash is written on Create and
// replaced only through UpdatePassword; Update never touches it.
//
// Typical Usage
//
//	repo := users.NewSQLiteRepository(db)
//	_ = repo.Create(ctx, &models.User{...})
//	u, err := repo.GetByEmail(ctx, "ann@example.com")
package users
