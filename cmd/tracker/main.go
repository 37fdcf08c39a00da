// Package main is the entry point of the student grade tracker.
//
// The tracker is an interactive console program. It loads the persisted
// student snapshot once, lets the user enter, average, rank and chart a new
// batch of students, and on exit appends that batch to the snapshot.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/alem-hub/grade-tracker/config"
	"github.com/alem-hub/grade-tracker/internal/domain/student"
	"github.com/alem-hub/grade-tracker/internal/infrastructure/chart"
	"github.com/alem-hub/grade-tracker/internal/interface/console"
	"github.com/alem-hub/grade-tracker/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	// Ctrl+C or SIGTERM cancels the session; the controller still saves it.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdin, os.Stdout); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, in io.Reader, out io.Writer) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg).With(logger.SessionID(uuid.NewString()))
	log.Info("starting grade tracker",
		logger.String("env", string(cfg.App.Environment)),
		logger.Backend(string(cfg.Storage.Backend)),
	)

	catalog := student.NewSubjectCatalog(cfg.Grades.Subjects, cfg.Grades.Renames)
	if unused := catalog.UnusedRenames(); len(unused) > 0 {
		log.Warn("subject renames match no configured subject",
			logger.Any("renames", unused),
			logger.Any("subjects", catalog.Subjects),
		)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. SNAPSHOT STORE
	// ─────────────────────────────────────────────────────────────────────────
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}
	defer closeStore()

	persisted, err := loadSnapshot(ctx, store, cfg, out)
	if err != nil {
		return err
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. CONSOLE SESSION
	// ─────────────────────────────────────────────────────────────────────────
	renderer := chart.NewRenderer(chart.Options{
		Width:  cfg.Chart.Width,
		Height: cfg.Chart.Height,
		Dir:    cfg.Chart.Dir,
		Open:   cfg.Chart.Open,
	}, nil, log)

	ctrl := console.NewController(console.Options{
		In:            in,
		Out:           out,
		Store:         store,
		Chart:         renderer,
		Persisted:     persisted,
		Catalog:       catalog,
		Scores:        student.ScoreRange{Min: cfg.Grades.MinScore, Max: cfg.Grades.MaxScore},
		SaveTimeout:   cfg.Storage.Timeout,
		ShowChartPath: !cfg.Chart.Open,
		Color:         !cfg.Observability.NoColor && isTerminal(out),
		Logger:        log,
	})

	if err := ctrl.Run(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			return fmt.Errorf("session aborted: %w", err)
		}
		log.Info("received shutdown signal")
	}

	log.Info("grade tracker stopped", logger.Int("added", len(ctrl.Session())))
	return nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func setupLogger(cfg *config.Config) *logger.Logger {
	return logger.New(logger.Options{
		Output: os.Stderr,
		Level:  logger.ParseLevel(cfg.Observability.LogLevel),
		Format: logger.ParseFormat(cfg.Observability.LogFormat),
	}).With(logger.String("app", cfg.App.Name))
}

// loadSnapshot reads the persisted collection, announcing a missing snapshot.
// A corrupt snapshot is fatal so the next save cannot overwrite it.
func loadSnapshot(ctx context.Context, store student.SnapshotStore, cfg *config.Config, out io.Writer) ([]*student.Student, error) {
	loadCtx, cancel := context.WithTimeout(ctx, cfg.Storage.Timeout)
	defer cancel()

	snap, err := store.Load(loadCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", store.Location(), err)
	}
	if snap.Missing {
		view := console.NewPresenter(out, false)
		if cfg.Storage.Backend == config.BackendFile {
			view.SnapshotMissing(store.Location())
		} else {
			view.StoredSnapshotMissing(store.Location())
		}
	}
	return snap.Students, nil
}
