package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/app"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/nav"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/shell"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	a := app.New(app.Options{
		Config: cfg,
		Logger: logger,
		OnNavigate: func(r nav.Route) {
			logger.Debug("navigate", zap.String("route", string(r)))
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("storefront starting",
		zap.String("api", cfg.APIBaseURL),
		zap.String("ai_mode", string(cfg.AIMode)),
	)

	if err := shell.New(a, os.Stdin, os.Stdout, logger).Run(ctx); err != nil {
		logger.Error("shell stopped", zap.Error(err))
		return
	}
	logger.Info("storefront stopped")
}
