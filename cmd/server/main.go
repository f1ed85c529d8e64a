package main

import (
	"context"
	"log/slog"
	"os"

	"ledgerauth/internal/logging"
	"ledgerauth/internal/server"
	"ledgerauth/internal/server/config"
)

func main() {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	cfg := config.LoadConfig()

	app := server.NewApp(cfg, logger)
	if err := app.Run(context.Background()); err != nil {
		logger.Error(context.Background(), "server stopped", "error", err.Error())
		os.Exit(1)
	}
}
