package match

import "strings"

// cleanCarrierOption strips the "N - M - " numeric prefix carrier options
// carry in the portal list. Three or more hyphen parts keep everything from
// the third onward; exactly two keep the second; anything else is returned
// unchanged.
func cleanCarrierOption(option string) string {
	parts := strings.Split(option, "-")
	switch {
	case len(parts) >= 3:
		return strings.TrimSpace(strings.Join(parts[2:], "-"))
	case len(parts) == 2:
		return strings.TrimSpace(parts[1])
	default:
		return option
	}
}

// cleanGenericOption strips list punctuation for fuzzy comparison.
func cleanGenericOption(option string) string {
	s := strings.NewReplacer("-", " ", ",", " ", "(", " ", ")", " ").Replace(option)
	return strings.Join(strings.Fields(s), " ")
}

// cleanOptions applies the kind-specific cleaner to every option, keeping
// index alignment with the raw list.
func cleanOptions(kind Kind, options []string) []string {
	cleaned := make([]string, len(options))
	for i, opt := range options {
		if kind == KindCarrier || kind == KindCarrierType {
			cleaned[i] = cleanCarrierOption(opt)
		} else {
			cleaned[i] = cleanGenericOption(opt)
		}
	}
	return cleaned
}

// stripPunct removes separator characters and collapses whitespace; used on
// probe values before word-level comparison.
func stripPunct(s string) string {
	s = strings.NewReplacer("-", " ", "(", " ", ")", " ", ".", " ", ",", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
