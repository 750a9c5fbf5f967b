package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bredex/accounts/auth"
	"github.com/bredex/accounts/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	accounts, closeStore, err := openRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	logger.Info("account store ready", "store", cfg.Store)

	tokens := auth.NewTokens([]byte(cfg.SigningKey), cfg.TokenTTL)
	svc, err := auth.NewService(accounts, tokens, auth.WithHashCost(cfg.HashCost), auth.WithLogger(logger))
	if err != nil {
		return err
	}

	if n, err := svc.Seed(ctx, cfg.SeedAccounts); err != nil {
		return err
	} else if len(cfg.SeedAccounts) > 0 {
		logger.Info("seed accounts applied", "created", n, "configured", len(cfg.SeedAccounts))
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           logRequests(logger, auth.NewRouter(svc, tokens, logger)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server shut down")
	return nil
}
