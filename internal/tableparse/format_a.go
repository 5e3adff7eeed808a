package tableparse

import (
	"regexp"
	"strings"

	"github.com/medbridge/claimflow/constants"
)

var (
	// primary service code, e.g. "(73510-00-00)"
	primaryCodeRe = regexp.MustCompile(`\((\d+[^)]*-\d+[^)]*)\)`)
	// secondary bare numeric code, e.g. "(110)"
	secondaryCodeRe = regexp.MustCompile(`\((\d+)\)`)
	numericLineRe   = regexp.MustCompile(`^\d+\.?\d*$`)
)

// decodeFormatA groups segment lines into per-service chunks. A line carrying
// a parenthesized hyphenated code starts a new chunk; within a chunk, bare
// numeric lines fill the quantity and cost columns positionally and known
// type and status words fill their fields. Description text grows only from
// the code line itself and from additional-code lines; unmatched lines are
// dropped so neighboring form text cannot bleed into the description.
func decodeFormatA(lines []string) []ServiceRecord {
	var records []ServiceRecord
	var cur *ServiceRecord
	numIdx := 0

	flush := func() {
		if cur != nil {
			cur.Description = truncateDescription(cur.Description)
			records = append(records, *cur)
			cur = nil
		}
	}

	for _, raw := range lines {
		line := cellToken(raw)
		if line == "" {
			continue
		}

		if m := primaryCodeRe.FindStringSubmatchIndex(line); m != nil {
			flush()
			cur = &ServiceRecord{Code: line[m[2]:m[3]]}
			numIdx = 0
			if desc := strings.TrimSpace(line[m[1]:]); desc != "" {
				cur.Description = desc
			}
			continue
		}
		if cur == nil {
			continue
		}

		switch {
		case containsWord(constants.ServiceTypes, line):
			cur.Type = line
		case containsWord(constants.ServiceStatuses, line):
			cur.Status = line
		case numericLineRe.MatchString(line):
			if numIdx < len(fieldOrder) {
				field := fieldOrder[numIdx]
				if isNumericField(field) {
					cur.setField(field, "", parseNumber(line))
				} else {
					cur.setField(field, line, nil)
				}
				numIdx++
			}
		case secondaryCodeRe.MatchString(line) && !strings.Contains(line, cur.Code):
			m := secondaryCodeRe.FindStringSubmatch(line)
			cur.AdditionalCodes = append(cur.AdditionalCodes, m[1])
			rest := strings.TrimSpace(secondaryCodeRe.ReplaceAllString(line, ""))
			if rest != "" && !strings.Contains(cur.Description, rest) {
				appendDescription(cur, rest)
			}
		}
	}
	flush()
	return records
}

func appendDescription(rec *ServiceRecord, text string) {
	if rec.Description == "" {
		rec.Description = text
		return
	}
	rec.Description += " " + text
}

// truncateDescription cuts a description at the earliest boilerplate phrase
// that bled in from a neighboring form cell.
func truncateDescription(desc string) string {
	cut := len(desc)
	for _, phrase := range constants.DescriptionNoisePhrases {
		if i := strings.Index(desc, phrase); i >= 0 && i < cut {
			cut = i
		}
	}
	return strings.TrimSpace(desc[:cut])
}

func containsWord(set []string, s string) bool {
	for _, w := range set {
		if strings.EqualFold(w, s) {
			return true
		}
	}
	return false
}
