package tableparse

import (
	"regexp"
	"strconv"
	"strings"
)

// headerAliases maps cleaned header tokens to canonical field names.
var headerAliases = map[string]string{
	"(code) service": "codeService",
	"(code)service":  "codeService",
	"code service":   "codeService",
	"codeservice":    "codeService",
	"req.qty":        "reqQty",
	"req qty":        "reqQty",
	"req.quantity":   "reqQty",
	"req.cost":       "reqCost",
	"req cost":       "reqCost",
	"gross amount":   "grossAmount",
	"gross":          "grossAmount",
	"app.qty":        "appQty",
	"app qty":        "appQty",
	"approved qty":   "appQty",
	"approved quantity": "appQty",
	"app.cost":          "appCost",
	"app cost":          "appCost",
	"approved cost":     "appCost",
	"app.gross":         "appGross",
	"app gross":         "appGross",
	"type":              "type",
	"note":              "note",
}

var codeServiceRe = regexp.MustCompile(`\(([^)]+)\)\s*(.*)`)

// cleanToken strips OCR bracket noise from a line and lowercases it for
// header matching.
func cleanToken(line string) string {
	return strings.ToLower(cellToken(line))
}

// cellToken strips bracket noise but preserves case for data cells.
func cellToken(line string) string {
	s := strings.NewReplacer("[", "", "]", "", "'", "", `"`, "", ",", " ").Replace(line)
	return strings.Join(strings.Fields(s), " ")
}

// decodeHeaderBlock handles documents where the table header tokens appear as
// consecutive lines followed by all cell values in row-major order. The
// header run ends at the "note" column; everything after is data, chunked
// into rows of the header width. A short trailing chunk is dropped.
func decodeHeaderBlock(lines []string) []ServiceRecord {
	var headers []string
	var cells []string
	headersDone := false

	for _, raw := range lines {
		tok := cleanToken(raw)
		if tok == "" {
			continue
		}
		if !headersDone {
			if field, ok := headerAliases[tok]; ok {
				headers = append(headers, field)
				if field == "note" {
					headersDone = true
				}
				continue
			}
			if len(headers) > 0 {
				// a non-header token inside the header run means this is
				// not a header-block layout
				return nil
			}
			continue
		}
		cells = append(cells, cellToken(raw))
	}

	if !headersDone || len(headers) == 0 || len(cells) < len(headers) {
		return nil
	}

	var records []ServiceRecord
	for i := 0; i+len(headers) <= len(cells); i += len(headers) {
		row := cells[i : i+len(headers)]
		var rec ServiceRecord
		for j, field := range headers {
			val := strings.TrimSpace(row[j])
			switch {
			case field == "codeService":
				if m := codeServiceRe.FindStringSubmatch(val); m != nil {
					rec.Code = m[1]
					rec.Description = strings.TrimSpace(m[2])
				} else {
					rec.Description = val
				}
			case isNumericField(field):
				rec.setField(field, "", parseNumber(val))
			default:
				rec.setField(field, val, nil)
			}
		}
		// A row without a service code is header bleed or stray cell text,
		// not a service line.
		if rec.Code == "" {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// parseNumber parses a cell value as a float, returning nil when the text is
// not numeric.
func parseNumber(s string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &f
}
