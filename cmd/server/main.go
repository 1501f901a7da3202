package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fynance/ledger/internal/config"
	"github.com/fynance/ledger/internal/server"
	"github.com/fynance/ledger/internal/storage/sqlite"
	"github.com/fynance/ledger/pkg/logging"
)

func main() {
	logging.Setup()

	cfg := config.Load()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	router := server.New(store).Router()

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Ledger server starting", "address", addr)
	if err := router.Run(addr); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
