// Package server wires the authentication service together: configuration,
// database, migrations, business logic, and the gRPC endpoint.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os/signal"
	"syscall"

	"ledgerauth/internal/logging"
	"ledgerauth/internal/password"
	"ledgerauth/internal/server/config"
	grpcserver "ledgerauth/internal/server/grpc"
	"ledgerauth/internal/server/repositories/repomanager"
	"ledgerauth/internal/server/services"
)

// App owns the server's startup and shutdown sequence.
type App struct {
	config *config.Config
	logger logging.Logger
}

func NewApp(cfg *config.Config, logger logging.Logger) *App {
	return &App{config: cfg, logger: logger}
}

// Run opens the database, applies migrations, and serves gRPC until a
// termination signal or ctx cancellation. The listener drains in-flight
// RPCs before Run returns.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	db, err := sql.Open("pgx", a.config.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	a.logger.Info(ctx, "migrations applied")

	hasher, err := password.NewBcrypt(0)
	if err != nil {
		return fmt.Errorf("init hasher: %w", err)
	}

	service := services.NewAuthenticationService(db, repos, hasher, a.logger, a.config)

	return grpcserver.NewGRPCServer(a.config, service, a.logger).Run(ctx)
}
