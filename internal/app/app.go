// Package app wires the configured store, dispatcher and services into a
// single application container.
package app

import (
	"context"
	"fmt"

	"github.com/thenoetrevino/rumbo/internal/config"
	"github.com/thenoetrevino/rumbo/internal/notify"
	projectservice "github.com/thenoetrevino/rumbo/internal/services/project"
	"github.com/thenoetrevino/rumbo/internal/services/recon"
	"github.com/thenoetrevino/rumbo/internal/services/reminder"
	taskservice "github.com/thenoetrevino/rumbo/internal/services/task"
	"github.com/thenoetrevino/rumbo/internal/store"
)

// App holds all application services and provides dependency injection
type App struct {
	Store      store.Tabular
	Dispatcher notify.Dispatcher

	ReconService   recon.Service
	TaskService    taskservice.Service
	ProjectService projectservice.Service
	SweepService   reminder.Service

	closer func() error
}

// New builds the application container from configuration
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	var tab store.Tabular
	closer := func() error { return nil }

	switch cfg.Store.Driver {
	case "memory":
		tab = store.NewMemory()
	default:
		sqlite, err := store.OpenSQLite(ctx, cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
		tab = sqlite
		closer = sqlite.Close
	}

	var dispatcher notify.Dispatcher
	if cfg.Notify.Dispatcher == "smtp" {
		dispatcher = notify.NewSMTP(cfg.Notify.SMTPHost, cfg.Notify.SMTPPort, cfg.Notify.From)
	} else {
		dispatcher = notify.NewLog()
	}

	reconciler := recon.NewService(tab)

	return &App{
		Store:          tab,
		Dispatcher:     dispatcher,
		ReconService:   reconciler,
		TaskService:    taskservice.NewService(tab, reconciler, dispatcher),
		ProjectService: projectservice.NewService(tab),
		SweepService:   reminder.NewService(tab, dispatcher),
		closer:         closer,
	}, nil
}

// Close releases store resources
func (a *App) Close() error {
	return a.closer()
}
