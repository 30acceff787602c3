package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-user-crud/config"
	"github.com/oksasatya/go-user-crud/internal/container"
	"github.com/oksasatya/go-user-crud/internal/interface/console"
	"github.com/oksasatya/go-user-crud/pkg/helpers"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "user console: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	level := cfg.LogLevel
	if level == "" {
		// keep the prompt readable unless asked otherwise
		level = "warn"
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, level, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Error("failed to start application")
		return fmt.Errorf("start: %w", err)
	}
	defer c.Close()

	if err := console.NewUserConsole(c.Users, logger, os.Stdin, os.Stdout).Run(ctx); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
