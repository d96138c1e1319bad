package main

import (
	"context"
	"fmt"
	"os"

	"account-ledger/config"
	"account-ledger/internal/adapter/storage/flatfile"
	"account-ledger/internal/adapter/terminal"
	"account-ledger/internal/service"
	"account-ledger/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger (stderr, so the interactive UI owns stdout)
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("store", cfg.Store.Path).
		Msg("Starting Account Ledger")

	ctx := context.Background()

	// Initialize the flat-file store and load the account table
	store := flatfile.New(cfg.Store.Path)
	ledger, err := service.NewLedgerService(ctx, store, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load account table")
	}

	// Run the interactive session on stdin/stdout
	ui := terminal.New(ledger, os.Stdin, os.Stdout)
	if err := ui.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Terminal input failed")
	}

	log.Info().Msg("Session ended")
}
