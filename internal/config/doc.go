// Package config loads runtime configuration for the budget CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables prefixed with BUDGET_ (see parseEnv). A .env
//     file in the working directory is loaded first when present.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   path of the SQLite database file
//	-l string   log level (debug, info, warn, error)
//	-p string   household member delete policy (cascade, nullify, reject)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the presign expiry, so it can be
// either a string like "15m" or integer nanoseconds:
//
//	{
//	  "database_path": "budget.db",
//	  "log_level": "info",
//	  "log_format": "text",
//	  "member_delete_policy": "nullify",
//	  "default_currency": "EUR",
//	  "backup_dir": "backups",
//	  "s3_bucket": "my-backups",
//	  "s3_region": "eu-central-1",
//	  "presign_expiry": "15m"
//	}
//
// Empty JSON values leave the earlier value untouched.
package config
