package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medbridge/claimflow/internal/claim"
	"github.com/medbridge/claimflow/internal/llm"
	"github.com/medbridge/claimflow/internal/ocr"
)

type fakeOCR struct {
	result ocr.Result
	err    error
}

func (f *fakeOCR) Extract(ctx context.Context, path string) (ocr.Result, error) {
	return f.result, f.err
}

type fakeExtractor struct {
	insuredName string
	requests    []llm.ExtractRequest
}

func (f *fakeExtractor) ExtractRecord(ctx context.Context, req llm.ExtractRequest) (*claim.Record, []byte, error) {
	f.requests = append(f.requests, req)
	rec := &claim.Record{
		Contents: claim.FormContent{
			Insured: &claim.InsuredInfo{InsuredName: f.insuredName},
		},
	}
	return rec, []byte(`{"file_name":""}`), nil
}

func TestProcessDocumentSinglePage(t *testing.T) {
	ocrClient := &fakeOCR{result: ocr.Result{
		Pages: []ocr.Page{{Lines: []string{
			"UCAF 2.0",
			"Insured Name: Ahmed Ali Al Ghamdi",
			"Payer: approved as per policy terms",
		}}},
		Duration: 3 * time.Second,
	}}
	extractor := &fakeExtractor{insuredName: "Ahmed Ali Al Ghamdi"}
	p := NewProcessor(ocrClient, extractor, nil)

	result, err := p.ProcessDocument(context.Background(), "/tmp/scan.pdf", "scan.pdf")
	require.NoError(t, err)
	require.Len(t, result.Pages, 1)

	assert.Equal(t, "scan.pdf", result.FileName)
	assert.Equal(t, "A_A_Ghamdi", result.PatientName)
	assert.Equal(t, 3*time.Second, result.OCRDuration)

	rec := result.Record()
	require.NotNil(t, rec)
	assert.Equal(t, "scan.pdf", rec.FileName)
	require.NotNil(t, rec.Contents.PayerInfo)
	assert.Equal(t, "approved as per policy terms", rec.Contents.PayerInfo.Comments)

	require.Len(t, extractor.requests, 1)
	assert.Contains(t, extractor.requests[0].OCRText, "Ahmed Ali Al Ghamdi")
	assert.Equal(t, 1, extractor.requests[0].PageCount)
}

func TestProcessDocumentMultiPage(t *testing.T) {
	ocrClient := &fakeOCR{result: ocr.Result{
		Pages: []ocr.Page{
			{Lines: []string{"page one text"}},
			{Lines: []string{"page two text"}},
		},
	}}
	extractor := &fakeExtractor{insuredName: "Sara Nasser"}
	p := NewProcessor(ocrClient, extractor, nil)

	result, err := p.ProcessDocument(context.Background(), "/tmp/scan.pdf", "scan.pdf")
	require.NoError(t, err)
	require.Len(t, result.Pages, 2)
	assert.Equal(t, "Sara_Nasser", result.PatientName)

	require.Len(t, extractor.requests, 2)
	assert.Equal(t, 0, extractor.requests[0].PageIndex)
	assert.Equal(t, 1, extractor.requests[1].PageIndex)
	assert.Equal(t, 2, extractor.requests[1].PageCount)
}

func TestProcessDocumentEmpty(t *testing.T) {
	p := NewProcessor(&fakeOCR{}, &fakeExtractor{}, nil)
	_, err := p.ProcessDocument(context.Background(), "/tmp/blank.pdf", "blank.pdf")
	assert.Error(t, err)
}

func TestPatientBaseName(t *testing.T) {
	name := func(insured string) string {
		return PatientBaseName(&claim.Record{Contents: claim.FormContent{
			Insured: &claim.InsuredInfo{InsuredName: insured},
		}})
	}

	assert.Equal(t, "A_A_Ghamdi", name("Ahmed Ali Al Ghamdi"))
	assert.Equal(t, "M_H_Otaibi", name("Mohammed Hassan Otaibi"))
	assert.Equal(t, "Sara_Nasser", name("Sara Nasser"))
	assert.Equal(t, "Fahad", name("Fahad"))

	anon := PatientBaseName(nil)
	assert.Len(t, anon, 8)
	anon = PatientBaseName(&claim.Record{})
	assert.Len(t, anon, 8)
}
