package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/google/subcommands"

	"github.com/dmitrijs2005/budgetkeeper/internal/cli"
	"github.com/dmitrijs2005/budgetkeeper/internal/config"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
)

func main() {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	// Global flags are read by the config package; they are declared here
	// so the commander accepts them.
	flag.String("c", "", "path to a JSON config file")
	flag.String("config", "", "path to a JSON config file")
	flag.String("d", cfg.DatabasePath, "path of the SQLite database file")
	flag.String("l", cfg.LogLevel, "log level")
	flag.String("p", string(cfg.MemberDeletePolicy), "member delete policy (cascade, nullify, reject)")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	rt := &cli.Runtime{Config: cfg, Log: log, Out: os.Stdout}
	for _, c := range cli.Commands(rt) {
		commander.Register(c, "")
	}

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	status := commander.Execute(ctx)
	stop()
	os.Exit(int(status))
}
