// Package cli provides the interactive budget command-line client.
//
// It wires configuration, the local SQLite database, the domain services
// and a backup store into an interactive REPL. Typical flow: restore the
// saved session (or register / login), then record transactions, assets,
// household members and accounts, look at statistics and move backups in
// and out.
//
// Reports are rendered as Markdown through glamour. Backups go to a local
// directory, or to an S3 compatible bucket when one is configured.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
