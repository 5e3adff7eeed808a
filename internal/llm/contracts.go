package llm

import (
	"context"

	"github.com/medbridge/claimflow/internal/claim"
)

// ExtractRequest carries one page of normalized OCR text to the model.
type ExtractRequest struct {
	OCRText  string
	FileName string

	// PageIndex and PageCount give the model positional context when a
	// document spans several pages.
	PageIndex int
	PageCount int
}

// RecordExtractor is the interface the pipeline depends on. Implementations
// return the parsed record plus the raw JSON the model produced, so callers
// can persist the untouched output for auditing.
type RecordExtractor interface {
	ExtractRecord(ctx context.Context, req ExtractRequest) (*claim.Record, []byte, error)
}
