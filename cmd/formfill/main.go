package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/medbridge/claimflow/internal/common"
	"github.com/medbridge/claimflow/internal/formfill"
	"github.com/medbridge/claimflow/internal/ingest"
)

// formfill pushes staged record/PDF pairs through the insurance portal.
// With no argument it drains the upload directory once; "watch" keeps it
// running and reacts to new files as they land.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.ValidatePortal(); err != nil {
		logger.Error("invalid portal configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var queue *ingest.Queue
	if cfg.Dirs.QueueDB != "" {
		var err error
		queue, err = ingest.OpenQueue(cfg.Dirs.QueueDB, logger)
		if err != nil {
			logger.Error("failed to open work queue", "error", err)
			os.Exit(1)
		}
		defer queue.Close()
	}

	worker := formfill.NewWorker(cfg, queue, logger)

	mode := "once"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	switch mode {
	case "once":
		done, err := worker.Drain(ctx)
		if err != nil {
			logger.Error("worker failed", "error", err, "processed", done)
			os.Exit(1)
		}
		logger.Info("worker finished", "processed", done)
	case "watch":
		if err := watch(ctx, cfg, worker, logger); err != nil {
			logger.Error("watch failed", "error", err)
			os.Exit(1)
		}
	default:
		logger.Error("usage", "cmd", "formfill [once|watch]")
		os.Exit(2)
	}
}

// watch drains the upload directory whenever a new record lands. Events for
// the PDF half of a pair are coalesced by the watcher's debounce; the drain
// itself only acts when a JSON record is present.
func watch(ctx context.Context, cfg *common.Config, worker *formfill.Worker, logger *slog.Logger) error {
	if err := os.MkdirAll(cfg.Dirs.UploadDir, 0o755); err != nil {
		return err
	}
	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       []string{cfg.Dirs.UploadDir},
		InitialScan: true,
	})
	if err != nil {
		return err
	}

	logger.Info("watching upload directory", "dir", cfg.Dirs.UploadDir)
	for {
		select {
		case <-ctx.Done():
			return nil
		case werr, ok := <-errs:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", werr)
		case path, ok := <-events:
			if !ok {
				return nil
			}
			if !strings.EqualFold(filepath.Ext(path), ".json") {
				continue
			}
			done, err := worker.Drain(ctx)
			if err != nil {
				logger.Error("drain failed", "error", err, "processed", done)
				continue
			}
			if done > 0 {
				logger.Info("drained uploads", "processed", done)
			}
		}
	}
}
