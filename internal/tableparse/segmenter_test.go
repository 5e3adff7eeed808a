package tableparse

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegmenterFormatAHeader(t *testing.T) {
	lines := []string{
		"Patient Name: John",
		"(CODE) SERVICE DESCRIPTION",
		"(73510-00-00) Hip X-ray",
		"Req. Qty",
		"1",
	}
	seg := NewSegmenter(nil).Extract(lines)
	assert.Equal(t, FormatA, seg.Format)
	assert.Contains(t, seg.Lines, "(CODE) SERVICE DESCRIPTION")
	// left padding keeps preceding context
	assert.Contains(t, seg.Lines, "Patient Name: John")
}

func TestSegmenterFormatB(t *testing.T) {
	lines := []string{
		"header",
		"Code",
		"Non Standard Code",
		"Description/Service",
		"Approved Quantity",
		"Approved Cost",
		"12345",
	}
	seg := NewSegmenter(nil).Extract(lines)
	assert.Equal(t, FormatB, seg.Format)
}

func TestSegmenterEndMarkerStopsScan(t *testing.T) {
	lines := []string{
		"(code) service",
		"(123-45) thing",
		"No data to be shown",
		"trailing text that should be excluded",
	}
	seg := NewSegmenter(nil).Extract(lines)
	assert.NotContains(t, seg.Lines, "trailing text that should be excluded")
}

func TestSegmenterEndMarkerBeyondWindowCap(t *testing.T) {
	lines := []string{"(code) service", "(123-45) thing"}
	for i := 0; i < 35; i++ {
		lines = append(lines, fmt.Sprintf("row %d", i))
	}
	lines = append(lines, "row 35 wanted", "No data to be shown", "excluded trailer")

	seg := NewSegmenter(nil).Extract(lines)
	assert.Equal(t, FormatA, seg.Format)
	assert.Contains(t, seg.Lines, "row 34")
	assert.Contains(t, seg.Lines, "row 35 wanted")
	assert.NotContains(t, seg.Lines, "No data to be shown")
	assert.NotContains(t, seg.Lines, "excluded trailer")
}

func TestSegmenterTieDefaultsFormatA(t *testing.T) {
	seg := NewSegmenter(nil).Extract([]string{"nothing", "here"})
	assert.Equal(t, FormatA, seg.Format)
}

func TestSegmenterCenteredWindowFallback(t *testing.T) {
	var lines []string
	for i := 0; i < 50; i++ {
		lines = append(lines, fmt.Sprintf("line %d", i))
	}
	seg := NewSegmenter(nil).Extract(lines)
	assert.Equal(t, FormatA, seg.Format)
	assert.Len(t, seg.Lines, 30)
}

func TestSegmenterShortDocWholeBody(t *testing.T) {
	lines := []string{"a", "b", "c"}
	seg := NewSegmenter(nil).Extract(lines)
	assert.Equal(t, lines, seg.Lines)
}
