package match

import "strings"

// ExtractKeyWords reduces an insurance-company or service name to its
// distinguishing words: parentheses become spaces, a leading "Al" Arabic
// article is split off, camelCase boundaries are broken apart, and generic
// terms are dropped.
func (c Config) ExtractKeyWords(value string) string {
	if value == "" {
		return ""
	}
	value = strings.TrimSpace(strings.NewReplacer("(", " ", ")", " ").Replace(value))

	if len(value) > 2 && strings.HasPrefix(strings.ToLower(value), "al") {
		value = "Al " + strings.TrimLeft(value[2:], " ")
	}

	value = splitCamelCase(value)

	var kept []string
	for _, word := range strings.Fields(value) {
		if _, generic := c.StopWords[strings.ToLower(word)]; !generic {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}

// splitCamelCase inserts spaces at lower-to-upper boundaries and before the
// last capital of an all-caps run followed by lowercase ("XRayUnit" becomes
// "X Ray Unit").
func splitCamelCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && isUpper(r) {
			prev := runes[i-1]
			next := rune(0)
			if i < len(runes)-1 {
				next = runes[i+1]
			}
			if isLower(prev) || (isUpper(prev) && i < len(runes)-1 && isLower(next)) {
				b.WriteByte(' ')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
