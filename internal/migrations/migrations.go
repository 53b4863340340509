// Package migrations embeds the goose SQL migrations for the local SQLite
// database. Migrations are additive: a new version may add tables, columns
// or indexes but never drops user data.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
