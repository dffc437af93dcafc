package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/cashflowgame/finance-service/internal/infrastructure/config"
	pgstore "github.com/cashflowgame/finance-service/internal/infrastructure/postgres"
	"github.com/cashflowgame/finance-service/internal/presentation/rest"
	pkgpostgres "github.com/cashflowgame/finance-service/pkg/postgres"
)

func init() {
	serveCmd.Flags().Bool("migrate", true, "apply pending migrations before serving (postgres store only)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve health, readiness and metrics endpoints",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	logger := a.logger

	logger.Info("starting finance-service",
		"http_port", a.cfg.HTTPPort,
		"store", a.cfg.StoreDriver,
		"kafka", a.cfg.Kafka.Enabled(),
		"redis", a.cfg.Redis.Enabled(),
	)

	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate && a.cfg.StoreDriver == config.StorePostgres {
		if err := pkgpostgres.RunMigrations(a.cfg.PostgresConfig().DSN(), pgstore.Migrations()); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("database schema up to date")
	}

	mux := http.NewServeMux()
	rest.NewHealthHandler(logger, a.cfg.ServiceName, a.checks, a.metrics.Handler).RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:              a.cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "port", a.cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error("server error", "error", serveErr)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("finance-service stopped")
	return serveErr
}
