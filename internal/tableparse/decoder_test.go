package tableparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFormatAChunks(t *testing.T) {
	lines := []string{
		"(73510-00-00) Hip X-ray",
		"Imaging",
		"1",
		"150.50",
		"150.50",
		"Approved",
		"(110) contrast media",
		"(85025-00-00) CBC panel",
		"Lab",
		"2",
		"40",
	}
	records := decodeFormatA(lines)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "73510-00-00", first.Code)
	assert.Equal(t, "Hip X-ray", first.Description)
	assert.Equal(t, "Imaging", first.Type)
	assert.Equal(t, "Approved", first.Status)
	require.NotNil(t, first.ReqQty)
	assert.Equal(t, 1.0, *first.ReqQty)
	require.NotNil(t, first.ReqCost)
	assert.Equal(t, 150.50, *first.ReqCost)
	require.NotNil(t, first.GrossAmount)
	assert.Equal(t, 150.50, *first.GrossAmount)
	assert.Equal(t, []string{"110"}, first.AdditionalCodes)
	assert.Contains(t, first.Description, "contrast media")

	second := records[1]
	assert.Equal(t, "85025-00-00", second.Code)
	assert.Equal(t, "Lab", second.Type)
	require.NotNil(t, second.ReqCost)
	assert.Equal(t, 40.0, *second.ReqCost)
}

func TestDecodeFormatAPositionalNumbers(t *testing.T) {
	lines := []string{
		"(123-45) thing",
		"1", "2", "3", "4", "5", "6",
	}
	records := decodeFormatA(lines)
	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, 1.0, *r.ReqQty)
	assert.Equal(t, 2.0, *r.ReqCost)
	assert.Equal(t, 3.0, *r.GrossAmount)
	assert.Equal(t, 4.0, *r.AppQty)
	assert.Equal(t, 5.0, *r.AppCost)
	assert.Equal(t, 6.0, *r.AppGross)
}

func TestDecodeFormatANoisePhraseTruncation(t *testing.T) {
	lines := []string{
		"(123-45) MRI brain with",
		"(99) contrast Providers Approval Signature",
	}
	records := decodeFormatA(lines)
	require.Len(t, records, 1)
	assert.Equal(t, "MRI brain with contrast", records[0].Description)
	assert.Equal(t, []string{"99"}, records[0].AdditionalCodes)
}

func TestDecodeFormatADropsUnmatchedLines(t *testing.T) {
	lines := []string{
		"(123-45) CT chest",
		"Providers Approval and Coding Staff must review",
		"1",
		"200",
	}
	records := decodeFormatA(lines)
	require.Len(t, records, 1)
	assert.Equal(t, "CT chest", records[0].Description)
	require.NotNil(t, records[0].ReqQty)
	assert.Equal(t, 1.0, *records[0].ReqQty)
}

func TestDecodeHeaderBlock(t *testing.T) {
	lines := []string{
		"[(Code) Service]",
		"[Type]",
		"[Req.Qty]",
		"[Req.Cost]",
		"[Gross amount]",
		"[App.Qty]",
		"[App.Cost]",
		"[App.Gross]",
		"[Note]",
		"[(73510) Hip X-ray]",
		"[Imaging]",
		"[1]",
		"[150.50]",
		"[150.50]",
		"[1]",
		"[120]",
		"[120]",
		"[approved]",
	}
	records := decodeHeaderBlock(lines)
	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, "73510", r.Code)
	assert.Equal(t, "Hip X-ray", r.Description)
	assert.Equal(t, "Imaging", r.Type)
	require.NotNil(t, r.ReqCost)
	assert.Equal(t, 150.50, *r.ReqCost)
	require.NotNil(t, r.AppGross)
	assert.Equal(t, 120.0, *r.AppGross)
	assert.Equal(t, "approved", r.Note)
}

func TestDecodeHeaderBlockRowWithoutCodeDiscarded(t *testing.T) {
	lines := []string{
		"[(Code) Service]", "[Type]", "[Note]",
		"[stray header bleed]", "[Imaging]", "[n1]",
		"[(2) CBC panel]", "[Lab]", "[n2]",
	}
	records := decodeHeaderBlock(lines)
	require.Len(t, records, 1)
	assert.Equal(t, "2", records[0].Code)
}

func TestDecodeHeaderBlockAllRowsWithoutCode(t *testing.T) {
	lines := []string{
		"[(Code) Service]", "[Type]", "[Note]",
		"[imaging]", "[Imaging]", "[n1]",
	}
	assert.Nil(t, decodeHeaderBlock(lines))
}

func TestDecodeHeaderBlockShortRowDiscarded(t *testing.T) {
	lines := []string{
		"[(Code) Service]", "[Type]", "[Note]",
		"[(1) a]", "[Imaging]", "[n1]",
		"[(2) b]", "[Lab]",
	}
	records := decodeHeaderBlock(lines)
	require.Len(t, records, 1)
	assert.Equal(t, "1", records[0].Code)
}

func TestDecodeFormatB(t *testing.T) {
	lines := []string{
		"Code",
		"Non Standard Code",
		"Description/Service",
		"Type",
		"Requested Quantity",
		"Requested Cost",
		"Approved Quantity",
		"Approved Cost",
		"Status",
		"12345",
		"NS-9",
		"CT head",
		"Imaging",
		"1",
		"300",
		"1",
		"250",
		"Approved",
		"67890",
		"NS-10",
		"Chest X-ray",
		"Imaging",
		"1",
		"100",
		"1",
		"100",
		"Approved",
	}
	records := decodeFormatB(lines)
	require.Len(t, records, 2)
	assert.Equal(t, "12345", records[0].Code)
	assert.Equal(t, "NS-9", records[0].NonStandardCode)
	assert.Equal(t, "CT head", records[0].Description)
	require.NotNil(t, records[0].ReqCost)
	assert.Equal(t, 300.0, *records[0].ReqCost)
	assert.Equal(t, "Approved", records[0].Status)
	assert.Equal(t, "67890", records[1].Code)
}

func TestDecodeFormatBNonCoercibleNumericSkipped(t *testing.T) {
	lines := []string{
		"Code",
		"Requested Cost",
		"Status",
		"111",
		"N/A",
		"Approved",
	}
	records := decodeFormatB(lines)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].ReqCost)
	assert.Equal(t, "Approved", records[0].Status)
}

func TestDecoderFallbackChain(t *testing.T) {
	// FORMAT_A tagged segment that only the FORMAT_B decoder can read
	lines := []string{
		"Code",
		"Description/Service",
		"Status",
		"555",
		"Ultrasound abdomen",
		"Approved",
	}
	records := NewDecoder(nil).Decode(Segment{Lines: lines, Format: FormatA})
	require.Len(t, records, 1)
	assert.Equal(t, "555", records[0].Code)
}

func TestDecoderEmptySegment(t *testing.T) {
	records := NewDecoder(nil).Decode(Segment{Lines: []string{"nothing", "useful"}, Format: FormatA})
	assert.Empty(t, records)
}

func TestExtractPayerInfo(t *testing.T) {
	lines := []string{
		"Patient Name: X",
		"Payer: Bupa Arabia",
		"Please note the requested services require review",
		"unrelated line",
	}
	got := ExtractPayerInfo(lines)
	assert.Contains(t, got, "Bupa Arabia")
	assert.Contains(t, got, "Please note")
	assert.NotContains(t, got, "unrelated")
}

func TestExtractPayerInfoEmpty(t *testing.T) {
	assert.Equal(t, "", ExtractPayerInfo([]string{"nothing relevant"}))
}

// A scan where the header run survives OCR but the first cell of the data row
// is stray text. The header-block pass must yield nothing so chunk grouping
// can recover the real service line.
func TestExtractServicesFallsThroughToChunkGrouping(t *testing.T) {
	lines := []string{
		"[Name: John Smith]",
		"(code) service",
		"Type",
		"Req.Qty",
		"Req.Cost",
		"Gross Amount",
		"App.Qty",
		"App.Cost",
		"App.Gross",
		"Note",
		"imaging",
		"2",
		"(90911-00-00) MRI Brain",
		"Imaging",
		"2",
		"500",
		"1000",
		"2",
		"500",
		"1000",
		"none",
	}
	records := ExtractServices(lines, nil)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "90911-00-00", r.Code)
	assert.Equal(t, "MRI Brain", r.Description)
	assert.Equal(t, "Imaging", r.Type)
	require.NotNil(t, r.ReqQty)
	assert.Equal(t, 2.0, *r.ReqQty)
	require.NotNil(t, r.ReqCost)
	assert.Equal(t, 500.0, *r.ReqCost)
	require.NotNil(t, r.GrossAmount)
	assert.Equal(t, 1000.0, *r.GrossAmount)
	require.NotNil(t, r.AppQty)
	assert.Equal(t, 2.0, *r.AppQty)
	require.NotNil(t, r.AppCost)
	assert.Equal(t, 500.0, *r.AppCost)
	require.NotNil(t, r.AppGross)
	assert.Equal(t, 1000.0, *r.AppGross)
}

func TestDecodeFormatBTotalQuantityAndBareCostHeaders(t *testing.T) {
	lines := []string{
		"Code",
		"Description/Service",
		"Type",
		"Total Quantity",
		"Cost",
		"Status",
		"12345",
		"CT head",
		"Imaging",
		"3",
		"250",
		"Approved",
	}
	records := decodeFormatB(lines)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "12345", r.Code)
	assert.Equal(t, "CT head", r.Description)
	require.NotNil(t, r.ReqQty)
	assert.Equal(t, 3.0, *r.ReqQty)
	require.NotNil(t, r.ReqCost)
	assert.Equal(t, 250.0, *r.ReqCost)
	assert.Equal(t, "Approved", r.Status)
}
