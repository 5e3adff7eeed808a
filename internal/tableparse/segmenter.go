package tableparse

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/medbridge/claimflow/constants"
)

// codePairRe matches a parenthesized service code of the form "(123-45 ...)".
var codePairRe = regexp.MustCompile(`\(\d+[^)]*-\d+[^)]*\)`)

// Segment is the slice of lines believed to contain the service table plus
// the layout it was scored as.
type Segment struct {
	Lines  []string
	Format TableFormat
}

// Segmenter scores document lines against both known table layouts and cuts
// out the window most likely to hold the table.
type Segmenter struct {
	Logger *slog.Logger
}

func NewSegmenter(logger *slog.Logger) *Segmenter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Segmenter{Logger: logger}
}

// Extract locates the service-table segment within normalized OCR lines.
// Lines are scored against both layouts; the higher score wins and ties fall
// back to FORMAT_A. The returned window runs from five lines before the
// detected start to the first end marker, or to thirty lines after the start
// when no marker is present.
func (s *Segmenter) Extract(lines []string) Segment {
	scoreA, scoreB := 0, 0
	startA, startB := -1, -1
	endIdx := -1

	for i, raw := range lines {
		line := strings.ToLower(strings.TrimSpace(raw))

		if startA >= 0 || startB >= 0 {
			for _, marker := range constants.TableEndMarkers {
				if strings.Contains(line, marker) {
					endIdx = i
					break
				}
			}
			if endIdx >= 0 {
				break
			}
		}

		switch {
		case strings.Contains(line, "(code)") && strings.Contains(line, "service"):
			scoreA += 5
			if startA < 0 {
				startA = i
			}
		case codePairRe.MatchString(line):
			scoreA += 3
			if startA < 0 {
				startA = i
			}
		case strings.Contains(line, "req.") || strings.Contains(line, "app."):
			scoreA += 2
		case strings.Contains(line, "gross") && strings.Contains(line, "amount"):
			scoreA += 2
		}

		switch {
		case line == "code" || strings.HasPrefix(line, "code "):
			scoreB += 3
			if startB < 0 {
				startB = i
			}
		case strings.Contains(line, "non standard code"):
			scoreB += 4
			if startB < 0 {
				startB = i
			}
		case strings.Contains(line, "description/service"):
			scoreB += 3
		case strings.Contains(line, "approved quantity") || strings.Contains(line, "approved cost"):
			scoreB += 2
		}
	}

	format := FormatA
	start := startA
	switch {
	case scoreB > scoreA:
		format = FormatB
		start = startB
	case scoreA == scoreB:
		// undecidable by header score; a parenthesized code anywhere means
		// the code-and-description layout
		format = FormatA
	}
	if start < 0 {
		if startA >= 0 {
			start = startA
		} else {
			start = startB
		}
	}

	s.Logger.Debug("tableparse.segment.scored",
		"format", string(format), "scoreA", scoreA, "scoreB", scoreB, "start", start)

	if start >= 0 {
		// An explicit end marker bounds the window wherever it sits; the
		// thirty-line cap applies only when no marker was found.
		end := start + 30
		if endIdx > start {
			end = endIdx
		}
		if end > len(lines) {
			end = len(lines)
		}
		safeStart := start - 5
		if safeStart < 0 {
			safeStart = 0
		}
		return Segment{Lines: lines[safeStart:end], Format: format}
	}

	if len(lines) > 10 {
		mid := len(lines) / 2
		lo := mid - 15
		if lo < 0 {
			lo = 0
		}
		hi := lo + 30
		if hi > len(lines) {
			hi = len(lines)
		}
		return Segment{Lines: lines[lo:hi], Format: FormatA}
	}
	return Segment{Lines: lines, Format: FormatA}
}
