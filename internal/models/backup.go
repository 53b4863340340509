package models

import (
	"fmt"
	"time"
)

// BackupDocument is the portable export of one user's data.
type BackupDocument struct {
	ExportDate   time.Time     `json:"exportDate"`
	Version      string        `json:"version"`
	User         *User         `json:"user"`
	Transactions []Transaction `json:"transactions"`
	Assets       []Asset       `json:"assets"`
	Accounts     []Account     `json:"accounts"`
}

// BackupFileName returns the default file name for an export taken at t.
func BackupFileName(t time.Time) string {
	return fmt.Sprintf("budget_backup_%s.json", t.Format("2006-01-02"))
}

// SealedBackup is a passphrase-encrypted BackupDocument.
type SealedBackup struct {
	Sealed bool   `json:"sealed"`
	Salt   []byte `json:"salt"`
	Nonce  []byte `json:"nonce"`
	Data   []byte `json:"data"`
}

type ImportMode string

const (
	ImportAdd     ImportMode = "add"
	ImportReplace ImportMode = "replace"
)

type MergeStrategy string

const (
	MergeSkip      MergeStrategy = "skip"
	MergeOverwrite MergeStrategy = "overwrite"
)

type ImportOptions struct {
	ImportMode          ImportMode    `json:"importMode"`
	MergeStrategy       MergeStrategy `json:"mergeStrategy"`
	IncludeTransactions bool          `json:"includeTransactions"`
	IncludeAssets       bool          `json:"includeAssets"`
	IncludeAccounts     bool          `json:"includeAccounts"`
}

// DefaultImportOptions adds everything and skips duplicates.
func DefaultImportOptions() ImportOptions {
	return ImportOptions{
		ImportMode:          ImportAdd,
		MergeStrategy:       MergeSkip,
		IncludeTransactions: true,
		IncludeAssets:       true,
		IncludeAccounts:     true,
	}
}

// KindCounts carries one counter per imported entity kind.
type KindCounts struct {
	Transactions int `json:"transactions"`
	Assets       int `json:"assets"`
	Accounts     int `json:"accounts"`
}

// ImportResult reports an import. Success is true whenever the document was
// valid; per-record problems are listed in Errors and counted as skipped.
type ImportResult struct {
	Success  bool       `json:"success"`
	Imported KindCounts `json:"imported"`
	Skipped  KindCounts `json:"skipped"`
	Deleted  KindCounts `json:"deleted"`
	Errors   []string   `json:"errors"`
}
