package match

import (
	"context"
	"regexp"
	"strings"
)

// acronymTerms maps modality acronyms to the phrases that imply them. A
// service description containing any phrase short-circuits to the first
// option carrying the acronym.
var acronymTerms = []struct {
	acronym string
	terms   []string
}{
	{"CT", []string{"computerised", "computerized", "computed tomography", "computed"}},
	{"MR", []string{"magnetic resonance"}},
	{"US", []string{"ultrasound"}},
}

var (
	serviceNoiseRe = regexp.MustCompile(`(?i)\b(refer to other hospital|for|with|and)\b`)
	parenSplitRe   = regexp.MustCompile(`\((.*?)\)\s*(.*)`)
)

// acronymFor returns the modality acronym implied by a description, if any.
func acronymFor(value string) string {
	lower := strings.ToLower(value)
	for _, m := range acronymTerms {
		for _, t := range m.terms {
			if strings.Contains(lower, t) {
				return m.acronym
			}
		}
	}
	return ""
}

// cleanServiceValue reduces a decoded service description to the words worth
// probing with. Hyphenated values keep only the last segment, preferring any
// text after a parenthesized code.
func (c Config) cleanServiceValue(value string) string {
	cleaned := stripPunct(c.ExtractKeyWords(value))
	cleaned = strings.Join(strings.Fields(serviceNoiseRe.ReplaceAllString(cleaned, " ")), " ")

	if strings.Contains(value, "-") {
		parts := strings.Split(value, "-")
		last := strings.TrimSpace(parts[len(parts)-1])
		if m := parenSplitRe.FindStringSubmatch(last); m != nil {
			if after := strings.TrimSpace(m[2]); after != "" {
				cleaned = stripPunct(after)
			} else if isAlnumCode(m[1]) {
				cleaned = stripPunct(strings.TrimSpace(strings.SplitN(last, "(", 2)[0]))
			}
		} else {
			cleaned = stripPunct(last)
		}
	}
	return cleaned
}

func isAlnumCode(s string) bool {
	s = strings.ReplaceAll(strings.TrimSpace(s), ".", "")
	if s == "" {
		return false
	}
	for _, r := range s {
		ok := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !ok {
			return false
		}
	}
	return true
}

// ResolveServiceDesc resolves the service-procedure dropdown. An acronym
// fast path is tried before the general chunk algorithm: if the description
// implies CT, MR, or US, the list is opened directly and the first option
// containing that acronym is taken.
func (r *Resolver) ResolveServiceDesc(ctx context.Context, value string, ctl Control) Resolution {
	if value == "" {
		r.logger.Warn("match.service_desc.empty_value")
		return unresolved()
	}

	cleanedValue := r.cfg.cleanServiceValue(value)
	r.logger.Info("match.service_desc.start", "value", value, "cleaned", cleanedValue)

	if acr := acronymFor(value); acr != "" {
		if res, ok := r.selectByAcronym(ctx, ctl, acr); ok {
			return res
		}
		r.logger.Warn("match.service_desc.acronym_miss", "acronym", acr)
	}

	chunks := buildServiceChunks(cleanedValue, r.cfg.ChunkSize)
	if len(chunks) == 0 {
		return r.typeAndEnter(ctx, ctl, cleanedValue)
	}
	options, _ := r.probeChunks(ctx, KindServiceDesc, ctl, chunks)
	if len(options) == 0 {
		return r.typeAndEnter(ctx, ctl, cleanedValue)
	}

	cleaned := make([]string, len(options))
	for i, opt := range options {
		name := opt
		if j := strings.Index(opt, "-"); j >= 0 {
			name = opt[j+1:]
		}
		cleaned[i] = stripPunct(strings.TrimSpace(name))
	}

	bestIdx, bestScore, bestChunk := bestChunkMatch(chunks, cleaned)
	dcIdx, dcScore := bestOption(cleanedValue, cleaned)
	r.logger.Info("match.service_desc.scores",
		"best_chunk", bestChunk, "best_score", bestScore, "double_check_score", dcScore)

	if bestScore < r.cfg.MatchThreshold && dcScore < r.cfg.MatchThreshold {
		return r.typeAndEnter(ctx, ctl, cleanedValue)
	}

	chosenIdx := bestIdx
	chosenScore := bestScore
	if dcScore >= r.cfg.DoubleCheckThreshold && (dcScore > bestScore || bestScore < r.cfg.MatchThreshold) {
		chosenIdx = dcIdx
		chosenScore = dcScore
	}
	rawChoice := options[chosenIdx]

	typeValue := rawChoice
	if j := strings.Index(rawChoice, "-"); j >= 0 {
		typeValue = strings.TrimSpace(rawChoice[j+1:])
	}
	return r.selectByArrows(ctx, ctl, rawChoice, typeValue, bestChunk, chosenScore)
}

// selectByAcronym opens the list and picks the first option containing the
// acronym. Reports false when no option carries it.
func (r *Resolver) selectByAcronym(ctx context.Context, ctl Control, acronym string) (Resolution, bool) {
	if err := ctl.OpenList(ctx); err != nil {
		return unresolved(), false
	}
	ctl.Sleep(ctx, r.cfg.TypeEnterWait)

	options, err := ctl.VisibleOptions(ctx)
	if err != nil || len(options) == 0 {
		return unresolved(), false
	}
	lower := strings.ToLower(acronym)
	for i, opt := range options {
		if !strings.Contains(strings.ToLower(opt), lower) {
			continue
		}
		for n := 0; n < i; n++ {
			if err := ctl.PressArrowDown(ctx); err != nil {
				return unresolved(), false
			}
			ctl.Sleep(ctx, r.cfg.ArrowStepWait)
		}
		if err := ctl.PressEnter(ctx); err != nil {
			return unresolved(), false
		}
		ctl.Sleep(ctx, r.cfg.TypeEnterWait)
		r.logger.Info("match.service_desc.acronym_selected", "acronym", acronym, "option", opt)
		return selected(opt, acronym, 0), true
	}
	return unresolved(), false
}

// buildServiceChunks orders plain n-grams by size preference without the
// parenthesis prioritization carrier names need.
func buildServiceChunks(cleanedValue string, maxSize int) []string {
	words := strings.Fields(cleanedValue)
	bySize := map[int][]string{}
	for size := 1; size <= maxSize; size++ {
		for i := 0; i+size <= len(words); i++ {
			bySize[size] = append(bySize[size], strings.Join(words[i:i+size], " "))
		}
	}
	var ordered []string
	for _, size := range []int{2, 3, 1} {
		if size <= maxSize {
			ordered = append(ordered, bySize[size]...)
		}
	}
	return ordered
}
