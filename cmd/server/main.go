// Command server runs the groupledger API.
//
//	groupledger serve     start the Connect server
//	groupledger migrate   apply database migrations and exit
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/groupledger/internal/config"
	"github.com/mmynk/groupledger/pkg/logging"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	rootCmd := &cobra.Command{
		Use:          "groupledger",
		Short:        "Shared-expense ledger for groups",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		serveCommand(cfg),
		migrateCommand(cfg),
	)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
