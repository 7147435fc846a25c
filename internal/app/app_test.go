package app

import (
	"context"
	"testing"

	"github.com/thenoetrevino/rumbo/internal/config"
)

func TestNewWithMemoryStore(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Driver = "memory"

	application, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	}()

	if application.TaskService == nil || application.ProjectService == nil ||
		application.ReconService == nil || application.SweepService == nil {
		t.Error("services not wired")
	}
}

func TestNewWithSQLiteStore(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Driver = "sqlite"
	cfg.Store.Path = t.TempDir() + "/tracker.db"

	application, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := application.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
