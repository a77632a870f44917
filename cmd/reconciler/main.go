package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/hoops-reconciler/internal/app"
	"github.com/riskibarqy/hoops-reconciler/internal/config"
	"github.com/riskibarqy/hoops-reconciler/internal/interfaces/cli"
	"github.com/riskibarqy/hoops-reconciler/internal/platform/logging"
	"github.com/riskibarqy/hoops-reconciler/internal/usecase"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger := logging.New(cfg.LogFormat, cfg.LogLevel).With(
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
	)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	command := cli.New(func(ctx context.Context) (*app.Container, error) {
		return app.New(ctx, cfg, logger)
	})
	runErr := command.Root().ExecuteContext(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := command.Close(shutdownCtx, cfg.ServiceName); err != nil {
		logger.Error("shutdown failed", "error", err)
	}

	if runErr != nil {
		fmt.Fprintln(os.Stderr, "error:", runErr)
		if errors.Is(runErr, usecase.ErrInvalidInput) {
			return 2
		}
		return 1
	}
	return 0
}
