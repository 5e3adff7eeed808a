package match

import (
	"regexp"
	"strings"
)

var parenPhraseRe = regexp.MustCompile(`\((.*?)\)`)

// BuildChunks produces the probe strings tried against a dropdown, most
// discriminating first. Chunks are contiguous n-grams of the key words up to
// maxSize. Two-word chunks lead, then three-word, with chunks derived from
// any parenthesized sub-phrase of the original value ahead of the rest at
// each size. Single words go last since they over-match, again with
// parenthesized words first.
func (c Config) BuildChunks(kind Kind, originalValue string) []string {
	keyInput := c.ExtractKeyWords(originalValue)
	keyWords := strings.Fields(keyInput)
	maxSize := c.maxChunkSize(kind)

	parenChunks := map[string]struct{}{}
	parenWords := map[string]struct{}{}
	for _, m := range parenPhraseRe.FindAllStringSubmatch(originalValue, -1) {
		words := strings.Fields(c.ExtractKeyWords(m[1]))
		for size := 1; size <= len(words); size++ {
			for i := 0; i+size <= len(words); i++ {
				chunk := strings.Join(words[i:i+size], " ")
				parenChunks[chunk] = struct{}{}
				if size == 1 {
					parenWords[chunk] = struct{}{}
				}
			}
		}
	}

	bySize := map[int][]string{}
	for size := 1; size <= maxSize; size++ {
		for i := 0; i+size <= len(keyWords); i++ {
			chunk := strings.Join(keyWords[i:i+size], " ")
			bySize[size] = append(bySize[size], chunk)
		}
	}

	var ordered []string
	appendSplit := func(chunks []string, isParen func(string) bool) {
		var rest []string
		for _, ch := range chunks {
			if isParen(ch) {
				ordered = append(ordered, ch)
			} else {
				rest = append(rest, ch)
			}
		}
		ordered = append(ordered, rest...)
	}
	inParen := func(ch string) bool { _, ok := parenChunks[ch]; return ok }

	for _, size := range []int{2, 3} {
		if size <= maxSize {
			appendSplit(bySize[size], inParen)
		}
	}

	// single words at the very end, parenthesized ones first
	inParenWord := func(ch string) bool { _, ok := parenWords[ch]; return ok }
	appendSplit(bySize[1], inParenWord)

	return ordered
}
