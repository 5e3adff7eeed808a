package tableparse

import (
	"strings"

	"github.com/medbridge/claimflow/constants"
)

// ExtractPayerInfo collects payer commentary from the whole document, not
// just the table segment. Lines with an explicit "payer:" label contribute
// the text after the colon; lines carrying known approval boilerplate
// contribute verbatim. Contributions keep document order and join with single
// spaces. An empty result means no payer comment, not a failure.
func ExtractPayerInfo(lines []string) string {
	var parts []string
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		lower := strings.ToLower(line)
		if i := strings.Index(lower, "payer:"); i >= 0 {
			if after := strings.TrimSpace(line[i+len("payer:"):]); after != "" {
				parts = append(parts, after)
			}
			continue
		}
		for _, phrase := range constants.PayerMarkerPhrases {
			if strings.Contains(lower, phrase) {
				parts = append(parts, line)
				break
			}
		}
	}
	return strings.Join(parts, " ")
}
