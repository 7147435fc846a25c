package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/thenoetrevino/rumbo/internal/app"
	"github.com/thenoetrevino/rumbo/internal/config"
	"github.com/thenoetrevino/rumbo/internal/logging"
)

const usage = `usage: rumbo <command> [args]

commands:
  sweep                run a due-date reminder sweep now
  recalc <project-id>  recalculate derived status and progress for a project
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := logging.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	application, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build application: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := application.Close(); err != nil {
			slog.Error("failed to close application", "error", err)
		}
	}()

	switch os.Args[1] {
	case "sweep":
		report, err := application.SweepService.Sweep(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sweep failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("sweep %s: %d reminders sent, %d dispatch failures\n",
			report.Outcome, report.RemindersSent, report.DispatchFailures)
		if report.DispatchFailures > 0 {
			os.Exit(1)
		}
	case "recalc":
		if len(os.Args) < 3 {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		result, err := application.ReconService.RecalcProjectStatus(ctx, os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "recalc failed: %v\n", err)
			os.Exit(1)
		}
		if result == nil {
			fmt.Println("project not found, nothing to recalculate")
			return
		}
		fmt.Printf("project %q: status=%s progress=%d%%\n", result.ProjectName, result.Status, result.Progress)
		if result.JustCompleted {
			fmt.Println("project transitioned to completed")
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}
