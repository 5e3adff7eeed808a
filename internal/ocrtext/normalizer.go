// Package ocrtext normalizes raw OCR line output from scanned claim forms
// before any structural parsing happens. The vision service emits one string
// per visual line, top to bottom; lines that cover a labeled form cell arrive
// wrapped in square brackets with stray quotes and commas from the word
// grouping step.
package ocrtext

import (
	"regexp"
	"strings"

	"github.com/medbridge/claimflow/constants"
)

var (
	parenRe     = regexp.MustCompile(`\((.*?)\)`)
	boolTokenRe = regexp.MustCompile(`(?i)\b(true|false)\b`)

	// key token followed by whitespace and a non-colon character
	keyTokenRe = regexp.MustCompile(`\b(` + strings.Join(constants.KeyTokens, "|") + `)\s+([^:\s])`)
	// key token dangling at end of line
	keyTokenEOLRe = regexp.MustCompile(`\b(` + strings.Join(constants.KeyTokens, "|") + `)\s+$`)

	checkboxYesNoRes = buildCheckboxRes()
)

func buildCheckboxRes() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(constants.CheckboxFields))
	for _, f := range constants.CheckboxFields {
		res[f] = regexp.MustCompile(`(?i)\b` + f + `:?\s+(Yes|No)\b`)
	}
	return res
}

// Normalize applies the full preprocessing chain: bracket-aware quote/comma
// cleanup, checkbox rewriting, and key-value formatting. It never fails;
// malformed input passes through with best-effort cleanup.
func Normalize(rawText string) string {
	text := CleanLines(rawText)
	text = RewriteCheckboxes(text)
	return FormatKeyValues(text)
}

// CleanLines removes single quotes and commas from OCR text while preserving
// other punctuation. Inside bracketed lines only the interior is touched.
func CleanLines(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") && len(line) >= 2 {
			inner := line[1 : len(line)-1]
			inner = strings.ReplaceAll(inner, "'", "")
			inner = strings.ReplaceAll(inner, ",", " ")
			cleaned = append(cleaned, "["+inner+"]")
		} else {
			s := strings.ReplaceAll(line, "'", "")
			cleaned = append(cleaned, strings.ReplaceAll(s, ",", " "))
		}
	}
	return strings.Join(cleaned, "\n")
}

// RewriteCheckboxes rewrites checkbox notation to canonical "field: true/false".
// Explicit Yes/No wins; otherwise a parenthesized mark within three words of a
// known checkbox field is interpreted (empty = unticked, one char = ticked).
// Parenthesized content next to non-checkbox fields is preserved verbatim.
func RewriteCheckboxes(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, rewriteCheckboxLine(line))
	}
	return strings.Join(out, "\n")
}

func rewriteCheckboxLine(line string) string {
	for _, field := range constants.CheckboxFields {
		re := checkboxYesNoRes[field]
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		val := "false"
		if strings.EqualFold(m[1], "yes") {
			val = "true"
		}
		return strings.Replace(line, m[0], field+": "+val, 1)
	}

	// parenthesis-based marks, interpreted in place
	var b strings.Builder
	last := 0
	for _, loc := range parenRe.FindAllStringSubmatchIndex(line, -1) {
		b.WriteString(line[last:loc[0]])
		content := strings.TrimSpace(line[loc[2]:loc[3]])
		if isCheckboxContext(line[:loc[0]]) {
			switch {
			case content == "":
				b.WriteString("false")
			case len([]rune(content)) == 1:
				b.WriteString("true")
			default:
				b.WriteString("(" + content + ")")
			}
		} else {
			b.WriteString("(" + content + ")")
		}
		last = loc[1]
	}
	b.WriteString(line[last:])
	return b.String()
}

// isCheckboxContext reports whether any of the last three words before a
// parenthesis names a checkbox field.
func isCheckboxContext(prefix string) bool {
	words := strings.Fields(prefix)
	if len(words) > 3 {
		words = words[len(words)-3:]
	}
	for _, w := range words {
		for _, field := range constants.CheckboxFields {
			if strings.EqualFold(w, field) {
				return true
			}
		}
	}
	return false
}

// FormatKeyValues makes key-value separation consistent inside bracketed
// lines: missing colons after known label tokens are inserted, "X & Y" pairs
// are split onto separate lines, and boolean tokens are lowercased.
func FormatKeyValues(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			if strings.Contains(line, "PHARMACY-") || strings.Contains(line, "PHARMACY -") {
				line = strings.ReplaceAll(line, "PHARMACY-", "PHARMACY:")
			}
			line = keyTokenRe.ReplaceAllString(line, "$1: $2")
			line = keyTokenEOLRe.ReplaceAllString(line, "$1: ")
			if strings.Contains(line, " & ") {
				line = strings.ReplaceAll(line, " & ", "\n")
			}
			line = boolTokenRe.ReplaceAllStringFunc(line, strings.ToLower)
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
