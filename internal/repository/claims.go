package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medbridge/claimflow/internal/claim"
	"github.com/medbridge/claimflow/internal/common"
)

const claimsSchema = `
CREATE TABLE IF NOT EXISTS claims (
	id             UUID PRIMARY KEY,
	file_name      TEXT NOT NULL,
	record         JSONB NOT NULL,
	raw_model_json JSONB,
	pdf_path       TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL DEFAULT 'extracted',
	unresolved     INTEGER NOT NULL DEFAULT 0,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	uploaded_at    TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_claims_status ON claims(status, created_at);
`

// StoredClaim is a persisted extraction result.
type StoredClaim struct {
	ID         uuid.UUID
	FileName   string
	Record     *claim.Record
	PDFPath    string
	Status     string
	Unresolved int
	CreatedAt  time.Time
	UploadedAt *time.Time
}

// Claim lifecycle states.
const (
	StatusExtracted = "extracted"
	StatusUploaded  = "uploaded"
	StatusFailed    = "failed"
)

type ClaimRepository interface {
	Insert(ctx context.Context, rec *claim.Record, rawModelJSON []byte, pdfPath string) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*StoredClaim, error)
	ListRecent(ctx context.Context, limit int) ([]*StoredClaim, error)
	MarkUploaded(ctx context.Context, id uuid.UUID, unresolved int) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
}

type claimRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewClaimRepository(pool *pgxpool.Pool, logger *slog.Logger) ClaimRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &claimRepository{pool: pool, logger: logger}
}

// EnsureSchema creates the claims table when missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, claimsSchema); err != nil {
		return common.WrapError(err, "ensure claims schema")
	}
	return nil
}

func (r *claimRepository) Insert(ctx context.Context, rec *claim.Record, rawModelJSON []byte, pdfPath string) (uuid.UUID, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return uuid.Nil, common.WrapError(err, "marshal record")
	}

	id := uuid.New()
	_, err = r.pool.Exec(ctx,
		`INSERT INTO claims (id, file_name, record, raw_model_json, pdf_path)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, rec.FileName, body, rawModelJSON, pdfPath)
	if err != nil {
		r.logger.Error("repository.claims.insert_failed", "file_name", rec.FileName, "error", err)
		return uuid.Nil, common.WrapError(err, "insert claim")
	}

	r.logger.Info("repository.claims.inserted", "id", id, "file_name", rec.FileName)
	return id, nil
}

func (r *claimRepository) GetByID(ctx context.Context, id uuid.UUID) (*StoredClaim, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, file_name, record, pdf_path, status, unresolved, created_at, uploaded_at
		 FROM claims WHERE id = $1`, id)
	return scanClaim(row)
}

func (r *claimRepository) ListRecent(ctx context.Context, limit int) ([]*StoredClaim, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, file_name, record, pdf_path, status, unresolved, created_at, uploaded_at
		 FROM claims ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, common.WrapError(err, "list claims")
	}
	defer rows.Close()

	var out []*StoredClaim
	for rows.Next() {
		sc, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (r *claimRepository) MarkUploaded(ctx context.Context, id uuid.UUID, unresolved int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE claims SET status = $1, unresolved = $2, uploaded_at = now() WHERE id = $3`,
		StatusUploaded, unresolved, id)
	if err != nil {
		return common.WrapError(err, "mark claim uploaded")
	}
	return nil
}

func (r *claimRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE claims SET status = $1 WHERE id = $2`, StatusFailed, id)
	if err != nil {
		return common.WrapError(err, "mark claim failed")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClaim(row rowScanner) (*StoredClaim, error) {
	var (
		sc   StoredClaim
		body []byte
	)
	if err := row.Scan(&sc.ID, &sc.FileName, &body, &sc.PDFPath, &sc.Status,
		&sc.Unresolved, &sc.CreatedAt, &sc.UploadedAt); err != nil {
		return nil, common.WrapError(err, "scan claim")
	}
	var rec claim.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, common.WrapError(err, "decode claim record")
	}
	sc.Record = &rec
	return &sc, nil
}
