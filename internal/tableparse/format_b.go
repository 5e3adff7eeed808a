package tableparse

import (
	"regexp"
	"strings"
)

// formatBAliases maps header substrings to canonical field names. Lookup is
// by containment, first match wins.
var formatBAliases = []struct {
	substr string
	field  string
}{
	{"non standard", "nonStandardCode"},
	{"non-standard", "nonStandardCode"},
	{"description", "description"},
	{"service", "description"},
	{"type", "type"},
	{"requested quantity", "reqQty"},
	{"total quantity", "reqQty"},
	{"requested cost", "reqCost"},
	{"req. qty", "reqQty"},
	{"req. cost", "reqCost"},
	{"gross", "grossAmount"},
	{"approved quantity", "appQty"},
	{"approved cost", "appCost"},
	{"approved gross", "appGross"},
	// bare "cost" last among the cost columns so the requested and
	// approved variants claim their headers first
	{"cost", "reqCost"},
	{"status", "status"},
	{"note", "note"},
	{"code", "code"},
}

// defaultFormatBHeaders is the fallback column layout when no header run is
// found in the segment.
var defaultFormatBHeaders = []string{
	"code", "nonStandardCode", "description", "type",
	"reqQty", "reqCost", "appQty", "appCost", "status",
}

// formatBNumericLineRe matches a value that starts a new record: leading
// digits with no letters anywhere after them.
var formatBNumericLineRe = regexp.MustCompile(`^\d+[^a-zA-Z]*$`)

func formatBField(header string) (string, bool) {
	h := strings.ToLower(header)
	for _, a := range formatBAliases {
		if strings.Contains(h, a.substr) {
			return a.field, true
		}
	}
	return "", false
}

// decodeFormatB reads the cell-per-line table layout. Headers come first,
// one per line, ending at a "status" or "approved cost" column; values follow
// and are assigned to columns cyclically. A standalone numeric line seen at
// column zero, or after the row is full, is a record boundary and becomes the
// next record's code.
func decodeFormatB(lines []string) []ServiceRecord {
	headers, dataStart := formatBHeaders(lines)
	if len(headers) == 0 {
		return nil
	}

	var records []ServiceRecord
	var cur *ServiceRecord
	idx := 0

	flush := func() {
		if cur != nil && cur.Code != "" {
			cur.Description = truncateDescription(cur.Description)
			records = append(records, *cur)
		}
		cur = nil
	}

	for _, raw := range lines[dataStart:] {
		val := cellToken(raw)
		if val == "" {
			continue
		}
		if formatBNumericLineRe.MatchString(val) && (idx == 0 || idx >= len(headers)) {
			flush()
			cur = &ServiceRecord{Code: val}
			idx = 1
			continue
		}
		if cur == nil {
			continue
		}
		if idx >= len(headers) {
			idx = 0
		}
		field := headers[idx]
		if isNumericField(field) {
			if n := parseNumber(val); n != nil {
				cur.setField(field, "", n)
			}
		} else {
			cur.setField(field, val, nil)
		}
		idx++
	}
	flush()
	return records
}

// formatBHeaders extracts the header column list and the index of the first
// data line. Without a recognizable header run it falls back to a fixed
// nine-column layout starting at the first numeric line.
func formatBHeaders(lines []string) ([]string, int) {
	var headers []string
	started := false
	for i, raw := range lines {
		line := strings.ToLower(cellToken(raw))
		if line == "" {
			continue
		}
		isHeader := strings.Contains(line, "code") ||
			strings.Contains(line, "description") ||
			strings.Contains(line, "type")
		if !started {
			if !isHeader {
				continue
			}
			started = true
		}
		field, ok := formatBField(line)
		if !ok {
			// header run broken before a terminal column; treat as no headers
			break
		}
		headers = append(headers, field)
		if strings.Contains(line, "status") {
			return headers, i + 1
		}
		if strings.Contains(line, "approved cost") {
			// the status column, when present, directly follows approved cost
			if i+1 < len(lines) && strings.Contains(strings.ToLower(cellToken(lines[i+1])), "status") {
				headers = append(headers, "status")
				i++
			}
			return headers, i + 1
		}
	}

	for i, raw := range lines {
		if formatBNumericLineRe.MatchString(cellToken(raw)) {
			return defaultFormatBHeaders, i
		}
	}
	return nil, 0
}
