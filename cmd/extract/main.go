package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/medbridge/claimflow/internal/common"
	"github.com/medbridge/claimflow/internal/llm/openai"
	"github.com/medbridge/claimflow/internal/ocr"
	"github.com/medbridge/claimflow/internal/pipeline"
)

// extract runs a single claim form through OCR and model extraction and
// writes the resulting JSON to stdout.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "extract <document-path>")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	ocrClient := ocr.NewAzureClient(cfg.OCR, logger)
	llmClient := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	processor := pipeline.NewProcessor(ocrClient, llmClient, logger)

	result, err := processor.ProcessDocument(ctx, path, filepath.Base(path))
	if err != nil {
		logger.Error("extraction failed", "path", path, "error", err)
		os.Exit(1)
	}

	var out any = result.Record()
	if len(result.Pages) > 1 {
		pages := make([]any, 0, len(result.Pages))
		for _, p := range result.Pages {
			pages = append(pages, p.Record)
		}
		out = map[string]any{
			"file_name":    result.FileName,
			"patient_name": result.PatientName,
			"page_count":   len(result.Pages),
			"pages":        pages,
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("encode failed", "error", err)
		os.Exit(1)
	}
}
