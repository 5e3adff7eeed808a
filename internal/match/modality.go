package match

import (
	"context"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// ResolveModality matches a modality value by counting matched words rather
// than scoring whole strings. Each input word that fuzzes above the word
// threshold against any option word counts once; the option with the most
// matched words wins, ties going to the first encountered.
func (r *Resolver) ResolveModality(ctx context.Context, value string, ctl Control) Resolution {
	if value == "" {
		r.logger.Warn("match.modality.empty_value")
		return unresolved()
	}

	cleanedValue := stripPunct(r.cfg.ExtractKeyWords(value))
	inputWords := strings.Fields(cleanedValue)
	r.logger.Info("match.modality.start", "value", value, "cleaned", cleanedValue)

	if err := ctl.OpenList(ctx); err != nil {
		r.logger.Error("match.modality.open_failed", "error", err)
		return r.typeAndEnter(ctx, ctl, value)
	}
	ctl.Sleep(ctx, r.cfg.TypeEnterWait)

	options, err := ctl.VisibleOptions(ctx)
	if err != nil || len(options) == 0 {
		return r.typeAndEnter(ctx, ctl, value)
	}

	bestIdx, bestMatches := -1, 0
	for i, opt := range options {
		// the list shows "NAME - detail"; only the name part is the modality
		name := stripPunct(strings.TrimSpace(strings.SplitN(opt, "-", 2)[0]))
		optWords := strings.Fields(name)
		matches := 0
		for _, iw := range inputWords {
			for _, ow := range optWords {
				if fuzzy.Ratio(strings.ToLower(iw), strings.ToLower(ow)) >= r.cfg.WordMatchThreshold {
					matches++
					break
				}
			}
		}
		if matches > bestMatches {
			bestIdx, bestMatches = i, matches
		}
	}

	if bestIdx < 0 {
		r.logger.Warn("match.modality.no_word_matches", "cleaned", cleanedValue)
		return r.typeAndEnter(ctx, ctl, value)
	}

	target := options[bestIdx]
	r.logger.Info("match.modality.best", "option", target, "word_matches", bestMatches)

	// walk the open list to the target
	if err := ctl.Focus(ctx); err != nil {
		return r.typeAndEnterBest(ctx, ctl, target)
	}
	ctl.Sleep(ctx, r.cfg.ArrowStepWait)
	for i := 0; i <= bestIdx; i++ {
		if err := ctl.PressArrowDown(ctx); err != nil {
			return r.typeAndEnterBest(ctx, ctl, target)
		}
		ctl.Sleep(ctx, r.cfg.ArrowStepWait)
	}
	if err := ctl.PressEnter(ctx); err != nil {
		return r.typeAndEnterBest(ctx, ctl, target)
	}
	ctl.Sleep(ctx, r.cfg.TypeEnterWait)
	return selected(target, "", bestMatches)
}

// typeAndEnterBest types a known-good option text when keyboard navigation
// to it failed.
func (r *Resolver) typeAndEnterBest(ctx context.Context, ctl Control, option string) Resolution {
	if err := ctl.TypeText(ctx, option); err != nil {
		return unresolved()
	}
	ctl.Sleep(ctx, r.cfg.TypeEnterWait)
	if err := ctl.PressEnter(ctx); err != nil {
		return unresolved()
	}
	ctl.Sleep(ctx, r.cfg.TypeEnterWait)
	return typed(option)
}
