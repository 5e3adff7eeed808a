package formfill

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/medbridge/claimflow/internal/browser"
	"github.com/medbridge/claimflow/internal/claim"
	"github.com/medbridge/claimflow/internal/common"
	"github.com/medbridge/claimflow/internal/ingest"
	"github.com/medbridge/claimflow/internal/match"
)

// Worker drains staged record/PDF pairs from the upload directory and pushes
// each one through the portal. With a queue configured it claims work items
// in order; without one it falls back to the newest pair by modification
// time.
type Worker struct {
	Portal common.PortalConfig
	Dirs   common.DirConfig
	Queue  *ingest.Queue

	// NewDriver opens a fresh browser session per work item.
	NewDriver func(headless bool) (browser.Driver, error)
	Resolver  *match.Resolver
	Logger    *slog.Logger
}

func NewWorker(cfg *common.Config, queue *ingest.Queue, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		Portal: cfg.Portal,
		Dirs:   cfg.Dirs,
		Queue:  queue,
		NewDriver: func(headless bool) (browser.Driver, error) {
			return browser.NewPlaywright(headless)
		},
		Logger: logger,
	}
}

// Drain processes staged pairs until none remain or the context is canceled.
// It returns the number of pairs processed and the first hard error.
func (w *Worker) Drain(ctx context.Context) (int, error) {
	done := 0
	for {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		processed, err := w.ProcessNext(ctx)
		if err != nil {
			return done, err
		}
		if !processed {
			return done, nil
		}
		done++
	}
}

// ProcessNext claims one staged pair, fills the portal form, and archives the
// pair. It reports false when there is nothing to do.
func (w *Worker) ProcessNext(ctx context.Context) (bool, error) {
	var itemID int64
	var jsonPath, pdfPath string

	if w.Queue != nil {
		item, err := w.Queue.ClaimNext(ctx)
		if err != nil {
			return false, err
		}
		if item != nil {
			itemID = item.ID
			jsonPath, pdfPath = item.JSONPath, item.PDFPath
		}
	}
	if jsonPath == "" {
		var err error
		jsonPath, pdfPath, err = ingest.LatestPair(w.Dirs.UploadDir)
		if err != nil {
			return false, err
		}
		if jsonPath == "" {
			return false, nil
		}
	}

	w.Logger.Info("formfill.worker.start", "json", jsonPath, "pdf", pdfPath, "item_id", itemID)

	err := w.processPair(ctx, jsonPath, pdfPath)
	if w.Queue != nil && itemID != 0 {
		if err != nil {
			if qerr := w.Queue.MarkFailed(ctx, itemID, err.Error()); qerr != nil {
				w.Logger.Warn("formfill.worker.mark_failed_error", "item_id", itemID, "err", qerr)
			}
		} else if qerr := w.Queue.MarkDone(ctx, itemID); qerr != nil {
			w.Logger.Warn("formfill.worker.mark_done_error", "item_id", itemID, "err", qerr)
		}
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (w *Worker) processPair(ctx context.Context, jsonPath, pdfPath string) error {
	rec, err := LoadRecord(jsonPath)
	if err != nil {
		return err
	}
	payload := BuildPayload(rec, pdfPath)

	drv, err := w.NewDriver(w.Portal.Headless)
	if err != nil {
		return common.WrapError(err, "browser launch failed")
	}
	defer func() {
		if cerr := drv.Close(); cerr != nil {
			w.Logger.Warn("formfill.worker.browser_close_failed", "err", cerr)
		}
	}()

	orch := NewOrchestrator(drv, w.Portal, w.Resolver, w.Logger)
	if err := orch.Login(ctx); err != nil {
		return err
	}
	unresolved := orch.Run(ctx, payload)
	w.Logger.Info("formfill.worker.form_done",
		"patient", payload.FirstName+" "+payload.LastName, "unresolved", unresolved)

	if err := ingest.Archive([]string{jsonPath, pdfPath}, w.Dirs.ArchiveDir, w.Logger); err != nil {
		return common.WrapError(err, "archive failed")
	}
	return nil
}

// storedDocument accepts both on-disk shapes: a single extracted record, or
// the multi page wrapper whose first page carries the patient sections.
type storedDocument struct {
	claim.Record
	Pages []*claim.Record `json:"pages"`
}

// LoadRecord reads an extracted claim record from disk.
func LoadRecord(path string) (*claim.Record, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, common.WrapError(err, "read record file")
	}
	var doc storedDocument
	if err := json.Unmarshal(buf, &doc); err != nil {
		return nil, common.NewAppError("BAD_RECORD",
			fmt.Sprintf("record file %s is not valid JSON", path), err)
	}
	if len(doc.Pages) > 0 {
		return doc.Pages[0], nil
	}
	return &doc.Record, nil
}
