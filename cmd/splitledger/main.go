// Command splitledger is the operator CLI of the expense ledger. It works
// directly on the configured store, without a running server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/storage/sqlstore"
	"github.com/mmynk/splitledger/pkg/logging"
)

var configPath = flag.String("config", "", "Path to the YAML config file (default: $LEDGER_CONFIG)")

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	register(commander)

	flag.Parse()
	os.Exit(int(run(context.Background(), commander)))
}

func register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&userAddCmd{}, "directory")
	c.Register(&userShowCmd{}, "directory")
	c.Register(&groupAddCmd{}, "directory")
	c.Register(&groupMembersCmd{}, "directory")

	c.Register(&expenseAddCmd{}, "expenses")
	c.Register(&expenseEditCmd{}, "expenses")
	c.Register(&expenseDeleteCmd{}, "expenses")
	c.Register(&expenseShowCmd{}, "expenses")
	c.Register(&expensesCmd{}, "expenses")
	c.Register(&splitCmd{}, "expenses")

	c.Register(&payCmd{}, "settlement")
	c.Register(&reverseCmd{}, "settlement")
	c.Register(&transactionsCmd{}, "settlement")

	c.Register(&duesCmd{}, "dues")
	c.Register(&balancesCmd{}, "dues")
}

func run(ctx context.Context, commander *subcommands.Commander) subcommands.ExitStatus {
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	// Keep the CLI output readable: only warnings and above unless asked.
	level := cfg.SlogLevel()
	if cfg.LogLevel == "" || cfg.LogLevel == "info" {
		level = slog.LevelWarn
	}
	logging.SetupWithLevel(level, os.Stderr)

	store, err := sqlstore.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	a := &app{
		ledger:   ledger.New(store),
		currency: cfg.Currency,
		out:      os.Stdout,
		errOut:   os.Stderr,
	}
	return commander.Execute(ctx, a)
}
