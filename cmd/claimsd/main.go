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

	"github.com/medbridge/claimflow/internal/common"
	"github.com/medbridge/claimflow/internal/formfill"
	"github.com/medbridge/claimflow/internal/ingest"
	"github.com/medbridge/claimflow/internal/llm/openai"
	"github.com/medbridge/claimflow/internal/ocr"
	"github.com/medbridge/claimflow/internal/pipeline"
	"github.com/medbridge/claimflow/internal/repository"
	"github.com/medbridge/claimflow/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ocrClient := ocr.NewAzureClient(cfg.OCR, logger)
	llmClient := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	processor := pipeline.NewProcessor(ocrClient, llmClient, logger)

	srv := server.NewServer(cfg, processor, logger)

	if cfg.Database.DSN != "" {
		pool, err := repository.Open(ctx, cfg.Database, logger)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer repository.Close(pool, logger)
		if err := repository.EnsureSchema(ctx, pool); err != nil {
			logger.Error("failed to ensure schema", "error", err)
			os.Exit(1)
		}
		srv.WithClaims(repository.NewClaimRepository(pool, logger))
		logger.Info("claim store enabled")
	}

	var queue *ingest.Queue
	if cfg.Dirs.QueueDB != "" {
		var err error
		queue, err = ingest.OpenQueue(cfg.Dirs.QueueDB, logger)
		if err != nil {
			logger.Error("failed to open work queue", "error", err)
			os.Exit(1)
		}
		defer queue.Close()
		srv.WithQueue(queue)
		logger.Info("work queue enabled", "path", cfg.Dirs.QueueDB)
	}

	if err := cfg.ValidatePortal(); err == nil {
		worker := formfill.NewWorker(cfg, queue, logger)
		srv.WithUploadTrigger(func() {
			if _, err := worker.Drain(context.Background()); err != nil {
				logger.Error("upload worker failed", "error", err)
			}
		})
		logger.Info("portal worker attached", "panel_url", cfg.Portal.PanelURL)
	} else {
		logger.Info("portal worker disabled", "reason", err.Error())
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Router(),
		ReadTimeout:  time.Minute,
		WriteTimeout: 15 * time.Minute,
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
