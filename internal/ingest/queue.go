package ingest

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/medbridge/claimflow/internal/common"
)

// Queue is a durable work-item store over a local sqlite file. It replaces
// pure mtime claiming when several pairs arrive faster than the worker
// drains them: every pair becomes a row, and items survive worker restarts.
type Queue struct {
	db     *sql.DB
	logger *slog.Logger
}

// WorkItem is one queued claim pair.
type WorkItem struct {
	ID       int64
	JSONPath string
	PDFPath  string
	State    string
	Attempts int
}

const (
	StateQueued     = "queued"
	StateProcessing = "processing"
	StateDone       = "done"
	StateFailed     = "failed"
)

// maxAttempts before an item is parked as failed.
const maxAttempts = 3

const queueSchema = `
CREATE TABLE IF NOT EXISTS work_items (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	json_path   TEXT NOT NULL,
	pdf_path    TEXT NOT NULL,
	state       TEXT NOT NULL DEFAULT 'queued',
	attempts    INTEGER NOT NULL DEFAULT 0,
	last_error  TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_work_items_state ON work_items(state, id);
`

func OpenQueue(path string, logger *slog.Logger) (*Queue, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, common.WrapError(err, "open queue db")
	}
	// sqlite allows one writer; the queue is single-process anyway
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(queueSchema); err != nil {
		_ = db.Close()
		return nil, common.WrapError(err, "migrate queue db")
	}
	return &Queue{db: db, logger: logger}, nil
}

func (q *Queue) Close() error {
	return q.db.Close()
}

// Enqueue records a new pair.
func (q *Queue) Enqueue(ctx context.Context, jsonPath, pdfPath string) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO work_items (json_path, pdf_path) VALUES (?, ?)`, jsonPath, pdfPath)
	if err != nil {
		return 0, common.WrapError(err, "enqueue work item")
	}
	id, _ := res.LastInsertId()
	q.logger.Info("ingest.queue.enqueued", "id", id, "json", jsonPath, "pdf", pdfPath)
	return id, nil
}

// ClaimNext marks the oldest queued item as processing and returns it.
// Returns nil when the queue is empty.
func (q *Queue) ClaimNext(ctx context.Context) (*WorkItem, error) {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.WrapError(err, "begin claim tx")
	}
	defer func() { _ = tx.Rollback() }()

	var item WorkItem
	row := tx.QueryRowContext(ctx,
		`SELECT id, json_path, pdf_path, state, attempts
		 FROM work_items WHERE state = ? ORDER BY id LIMIT 1`, StateQueued)
	if err := row.Scan(&item.ID, &item.JSONPath, &item.PDFPath, &item.State, &item.Attempts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, common.WrapError(err, "scan work item")
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE work_items SET state = ?, attempts = attempts + 1, updated_at = ? WHERE id = ?`,
		StateProcessing, time.Now().UTC(), item.ID); err != nil {
		return nil, common.WrapError(err, "claim work item")
	}
	if err := tx.Commit(); err != nil {
		return nil, common.WrapError(err, "commit claim")
	}

	item.State = StateProcessing
	item.Attempts++
	q.logger.Info("ingest.queue.claimed", "id", item.ID, "attempts", item.Attempts)
	return &item, nil
}

// MarkDone finishes an item successfully.
func (q *Queue) MarkDone(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE work_items SET state = ?, updated_at = ? WHERE id = ?`,
		StateDone, time.Now().UTC(), id)
	if err != nil {
		return common.WrapError(err, "mark work item done")
	}
	return nil
}

// MarkFailed records the error. Items under the attempt cap go back to
// queued for another try; the rest are parked as failed.
func (q *Queue) MarkFailed(ctx context.Context, id int64, cause string) error {
	var attempts int
	row := q.db.QueryRowContext(ctx, `SELECT attempts FROM work_items WHERE id = ?`, id)
	if err := row.Scan(&attempts); err != nil {
		return common.WrapError(err, "load work item attempts")
	}

	state := StateQueued
	if attempts >= maxAttempts {
		state = StateFailed
	}
	_, err := q.db.ExecContext(ctx,
		`UPDATE work_items SET state = ?, last_error = ?, updated_at = ? WHERE id = ?`,
		state, cause, time.Now().UTC(), id)
	if err != nil {
		return common.WrapError(err, "mark work item failed")
	}
	q.logger.Warn("ingest.queue.failed", "id", id, "attempts", attempts, "state", state, "cause", cause)
	return nil
}

// Pending counts items still waiting or in flight.
func (q *Queue) Pending(ctx context.Context) (int, error) {
	var n int
	row := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM work_items WHERE state IN (?, ?)`, StateQueued, StateProcessing)
	if err := row.Scan(&n); err != nil {
		return 0, common.WrapError(err, "count pending")
	}
	return n, nil
}
