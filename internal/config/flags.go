package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/budgetkeeper/internal/flagx"
	"github.com/dmitrijs2005/budgetkeeper/internal/models"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   database path
//	-l string   log level
//	-p string   member delete policy
//
// Only these flags are read from os.Args, so subcommand flags pass through
// untouched.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-l", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the SQLite database file")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	policy := fs.String("p", string(cfg.MemberDeletePolicy), "member delete policy (cascade, nullify, reject)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.MemberDeletePolicy = models.MemberDeletePolicy(*policy)
}
