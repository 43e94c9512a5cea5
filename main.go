package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/msomdec/library-catalog/internal/config"
	"github.com/msomdec/library-catalog/internal/domain"
	"github.com/msomdec/library-catalog/internal/handler"
	"github.com/msomdec/library-catalog/internal/repository/sqlite"
	"github.com/msomdec/library-catalog/internal/repository/sqlite/migrations"
	"github.com/msomdec/library-catalog/internal/service"
)

func main() {
	root := &cobra.Command{
		Use:           "library-catalog",
		Short:         "Library catalog and loan service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Migrate, seed and serve the HTTP API",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply pending migrations and seed data, then exit",
			RunE:  runMigrate,
		},
	)

	if err := root.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level slog.Level) {
	logOpts := &slog.HandlerOptions{Level: level}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)
}

type app struct {
	cfg      *config.Config
	db       *sqlite.DB
	services handler.Services
}

// bootstrap loads config, opens and migrates the database and seeds the
// admin account and sample books.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	setupLogger(cfg.LogLevel)

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied", "path", cfg.DatabasePath)

	s := newServices(db, cfg)

	// Seed the admin account and sample catalog (idempotent).
	if err := s.Auth.EnsureAdmin(ctx, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed admin: %w", err)
	}
	if err := s.Catalog.SeedSampleBooks(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed books: %w", err)
	}

	return &app{cfg: cfg, db: db, services: s}, nil
}

func newServices(db domain.Database, cfg *config.Config) handler.Services {
	return handler.Services{
		Auth:    service.NewAuthService(db.Users(), cfg.JWTSecret, cfg.JWTTTL, cfg.BcryptCost),
		Catalog: service.NewCatalogService(db.Books()),
		Loans:   service.NewLoanService(db.Loans()),
		Users:   service.NewUserService(db.Users()),
		Stats:   service.NewStatsService(db.Stats()),
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.db.Close()

	status, err := migrations.Status(ctx, a.db.SqlDB)
	if err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	for _, m := range status {
		fmt.Fprintf(cmd.OutOrStdout(), "%-40s applied=%t\n", m.Filename, m.Applied)
	}
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.db.Close()

	a.services.AuthLimiter = service.NewTokenBucket(a.cfg.AuthRateLimit, a.cfg.AuthRateBurst)
	defer a.services.AuthLimiter.Stop()

	srv := &http.Server{
		Addr:              a.cfg.ServerAddr(),
		Handler:           handler.NewRouter(a.services, handler.RouterConfig{
			CORSOrigins:       a.cfg.CORSOrigins,
			TrustProxyHeaders: a.cfg.TrustProxyHeaders,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
