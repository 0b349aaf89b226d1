package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/neomorfeo/calcmachine/internal/adapter/fsm"
	oteladapter "github.com/neomorfeo/calcmachine/internal/adapter/otel"
	riveradapter "github.com/neomorfeo/calcmachine/internal/adapter/river"
	"github.com/neomorfeo/calcmachine/internal/adapter/sqlite"
	"github.com/neomorfeo/calcmachine/internal/app"
	"github.com/neomorfeo/calcmachine/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "calcmachine: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := loadDotEnv(); err != nil {
		return err
	}
	cfg := configFromEnv()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Telemetry ---
	providers, err := oteladapter.Setup(ctx, oteladapter.ConfigFromEnv())
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Error("otel shutdown", zap.Error(err))
		}
	}()

	// --- Adapters (out) ---
	db, err := oteladapter.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	repo, err := sqlite.NewFromDB(db)
	if err != nil {
		db.Close()
		return fmt.Errorf("database: %w", err)
	}
	defer repo.Close()

	sessions := oteladapter.NewTracingSessionRepository(repo)
	computations := oteladapter.NewTracingComputationRepository(sqlite.NewComputationRepository(repo.DB()))

	riverClient, err := riveradapter.Setup(ctx, repo.DB(), computations, logger)
	if err != nil {
		return fmt.Errorf("river: %w", err)
	}
	// River stops through Stop below, not through signal cancellation.
	if err := riverClient.Start(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("river start: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := riverClient.Stop(stopCtx); err != nil {
			logger.Error("river stop", zap.Error(err))
		}
	}()

	publisher := oteladapter.NewTracingPublisher(riveradapter.NewPublisher(riverClient))
	tx := oteladapter.NewTracingTransactor(sqlite.NewTransactor(repo.DB()))

	engine, err := oteladapter.NewTracingEngine(fsm.New())
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	// --- Application ---
	svc := app.NewCalculatorService(sessions, computations, publisher, tx, engine, logger.Named("app"))

	// --- Adapters (in) ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(svc, logger.Named("http")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// --- Server ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("calcmachine listening",
			zap.String("addr", srv.Addr),
			zap.String("docs", "http://localhost:"+cfg.Port+"/docs"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	// Graceful shutdown.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}
