package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/thenoetrevino/rumbo/internal/app"
	"github.com/thenoetrevino/rumbo/internal/config"
	"github.com/thenoetrevino/rumbo/internal/daemon"
	"github.com/thenoetrevino/rumbo/internal/logging"
)

func main() {
	// Set up signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancel()

	if err := logging.Init(); err != nil {
		slog.Error("failed to initialize logging", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	application, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to build application", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := application.Close(); err != nil {
			slog.Error("failed to close application", "error", err)
		}
	}()

	server := daemon.NewServer(cfg.HTTP.Listen, cfg.Sweep.Hour, cfg.Sweep.Minute, application.SweepService)

	slog.Info("rumbo daemon starting",
		"listen", cfg.HTTP.Listen,
		"sweep_at", slog.GroupValue(slog.Int("hour", cfg.Sweep.Hour), slog.Int("minute", cfg.Sweep.Minute)),
		"pid", os.Getpid(),
	)

	// Start the daemon (blocks until shutdown)
	if err := server.Start(ctx); err != nil {
		slog.Error("daemon error", "error", err)
		os.Exit(1)
	}

	slog.Info("rumbo daemon shutting down gracefully")
}
