// Package pipeline runs a claim form through the full extraction chain:
// OCR, text normalization, model extraction, table decoding, and assembly
// into a validated claim record.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medbridge/claimflow/constants"
	"github.com/medbridge/claimflow/internal/claim"
	"github.com/medbridge/claimflow/internal/common"
	"github.com/medbridge/claimflow/internal/llm"
	"github.com/medbridge/claimflow/internal/ocr"
	"github.com/medbridge/claimflow/internal/ocrtext"
	"github.com/medbridge/claimflow/internal/tableparse"
)

// PageResult holds everything produced for a single document page.
type PageResult struct {
	Index          int
	NormalizedText string
	Record         *claim.Record
	RawModel       []byte
}

// DocumentResult is the outcome of processing one uploaded file.
type DocumentResult struct {
	FileName    string
	PatientName string
	Pages       []PageResult
	OCRDuration time.Duration
}

// Record returns the first page's record, which carries the patient and
// insured sections on multi page forms.
func (d *DocumentResult) Record() *claim.Record {
	if len(d.Pages) == 0 {
		return nil
	}
	return d.Pages[0].Record
}

// Processor wires the OCR client and the model extractor into a single
// per-document run.
type Processor struct {
	OCR       ocr.TextExtractor
	Extractor llm.RecordExtractor
	Segmenter *tableparse.Segmenter
	Decoder   *tableparse.Decoder
	Logger    *slog.Logger
}

func NewProcessor(ocrClient ocr.TextExtractor, extractor llm.RecordExtractor, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		OCR:       ocrClient,
		Extractor: extractor,
		Segmenter: tableparse.NewSegmenter(logger),
		Decoder:   tableparse.NewDecoder(logger),
		Logger:    logger,
	}
}

// ProcessDocument OCRs the file at path, extracts a record per page, and
// overlays the deterministic table and payer parse on top of each model
// baseline. originalName is the client-supplied file name kept in the
// output records.
func (p *Processor) ProcessDocument(ctx context.Context, path, originalName string) (*DocumentResult, error) {
	start := time.Now()
	p.Logger.Info("pipeline.document.start", "path", path, "original_name", originalName)

	ocrResult, err := p.OCR.Extract(ctx, path)
	if err != nil {
		return nil, common.WrapError(err, "text extraction failed")
	}
	if len(ocrResult.Pages) == 0 {
		return nil, common.NewAppError("EMPTY_DOCUMENT", "no readable pages in document", nil)
	}

	result := &DocumentResult{
		FileName:    originalName,
		OCRDuration: ocrResult.Duration,
	}
	for i, page := range ocrResult.Pages {
		pageResult, err := p.processPage(ctx, page, originalName, i, len(ocrResult.Pages))
		if err != nil {
			return nil, common.WrapError(err, fmt.Sprintf("page %d extraction failed", i+1))
		}
		result.Pages = append(result.Pages, *pageResult)
	}
	result.PatientName = PatientBaseName(result.Record())

	p.Logger.Info("pipeline.document.done",
		"original_name", originalName,
		"pages", len(result.Pages),
		"patient_name", result.PatientName,
		"duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

func (p *Processor) processPage(ctx context.Context, page ocr.Page, originalName string, index, total int) (*PageResult, error) {
	normalized := ocrtext.Normalize(page.Text())

	rec, raw, err := p.Extractor.ExtractRecord(ctx, llm.ExtractRequest{
		OCRText:   normalized,
		FileName:  originalName,
		PageIndex: index,
		PageCount: total,
	})
	if err != nil {
		return nil, err
	}

	lines := strings.Split(normalized, "\n")
	seg := p.Segmenter.Extract(lines)
	services := p.Decoder.Decode(seg)
	payerInfo := tableparse.ExtractPayerInfo(lines)

	rec = claim.Assemble(rec, payerInfo, services, p.Logger)
	if rec.FileName == "" {
		rec.FileName = originalName
	}
	if rec.DocumentType == "" {
		rec.DocumentType = constants.MapExtToFormat(filepath.Ext(originalName))
	}
	if err := claim.ValidateRecord(rec); err != nil {
		return nil, common.WrapError(err, "assembled record failed validation")
	}

	p.Logger.Info("pipeline.page.done",
		"page", index+1, "services", len(services), "payer_info", payerInfo != "")
	return &PageResult{
		Index:          index,
		NormalizedText: normalized,
		Record:         rec,
		RawModel:       raw,
	}, nil
}

// PatientBaseName derives a filesystem-safe base name for a record's output
// files from the insured name. Names with three or more words shorten to two
// initials plus the last word, shorter names just swap spaces for
// underscores, and a record without an insured name gets a random token.
func PatientBaseName(rec *claim.Record) string {
	var insured string
	if rec != nil && rec.Contents.Insured != nil {
		insured = strings.TrimSpace(rec.Contents.Insured.InsuredName)
	}
	if insured == "" {
		return uuid.New().String()[:8]
	}
	parts := strings.Fields(insured)
	if len(parts) >= 3 {
		return fmt.Sprintf("%c_%c_%s", firstRune(parts[0]), firstRune(parts[1]), parts[len(parts)-1])
	}
	return strings.Join(parts, "_")
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return '_'
}
