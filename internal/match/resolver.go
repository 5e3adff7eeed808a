package match

import (
	"context"
	"log/slog"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Resolver drives dropdown resolution for every kind. It never returns an
// error: UI failures degrade to a type-and-submit fallback, and total failure
// is reported as an unresolved outcome for the orchestrator to log.
type Resolver struct {
	cfg    Config
	logger *slog.Logger
}

func NewResolver(cfg Config, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{cfg: cfg, logger: logger}
}

// Resolve matches value against the live option list of ctl.
func (r *Resolver) Resolve(ctx context.Context, kind Kind, value string, ctl Control) Resolution {
	if value == "" {
		r.logger.Warn("match.resolve.empty_value", "kind", string(kind))
		return unresolved()
	}

	switch kind {
	case KindReferring:
		return r.resolveReferring(ctx, value, ctl)
	case KindModality:
		return r.ResolveModality(ctx, value, ctl)
	case KindServiceDesc:
		return r.ResolveServiceDesc(ctx, value, ctl)
	}

	keyInput := r.cfg.ExtractKeyWords(value)
	r.logger.Info("match.resolve.start", "kind", string(kind), "value", value, "key_input", keyInput)

	if err := ctl.Focus(ctx); err != nil {
		r.logger.Error("match.resolve.focus_failed", "kind", string(kind), "error", err)
		return r.typeAndEnter(ctx, ctl, keyInput)
	}
	ctl.Sleep(ctx, r.cfg.focusWait(kind))

	chunks := r.cfg.BuildChunks(kind, value)
	options, okChunk := r.probeChunks(ctx, kind, ctl, chunks)
	if len(options) == 0 {
		return r.typeAndEnter(ctx, ctl, keyInput)
	}

	cleaned := cleanOptions(kind, options)
	bestIdx, bestScore, bestChunk := bestChunkMatch(chunks, cleaned)
	r.logger.Info("match.resolve.best_chunk", "kind", string(kind),
		"chunk", bestChunk, "option", cleaned[safeIdx(bestIdx)], "score", bestScore, "probe", okChunk)

	if bestScore < r.cfg.MatchThreshold {
		r.logger.Warn("match.resolve.below_threshold", "kind", string(kind), "best_score", bestScore)
		return r.typeAndEnter(ctx, ctl, keyInput)
	}

	dcIdx, dcScore := bestOption(keyInput, cleaned)
	r.logger.Info("match.resolve.double_check", "kind", string(kind),
		"option", cleaned[safeIdx(dcIdx)], "score", dcScore)

	chosenIdx := bestIdx
	chosenScore := bestScore
	if dcScore >= r.cfg.DoubleCheckThreshold && (dcScore > bestScore || bestScore < r.cfg.MatchThreshold) {
		chosenIdx = dcIdx
		chosenScore = dcScore
	}
	rawChoice := options[chosenIdx]

	if kind == KindCarrier || kind == KindCarrierType {
		return r.selectByArrows(ctx, ctl, rawChoice, cleanCarrierOption(rawChoice), bestChunk, chosenScore)
	}

	// other kinds refill with the option text as listed and submit directly
	typeValue := rawChoice
	if err := ctl.TypeText(ctx, typeValue); err != nil {
		return r.typeAndEnter(ctx, ctl, keyInput)
	}
	ctl.Sleep(ctx, r.cfg.ChunkTypeWait)
	if err := ctl.PressEnter(ctx); err != nil {
		return r.typeAndEnter(ctx, ctl, keyInput)
	}
	ctl.Sleep(ctx, r.cfg.SelectConfirmWait)
	return typed(typeValue)
}

// probeChunks types chunks until one makes the option list appear. It
// returns the visible options and the chunk that produced them.
func (r *Resolver) probeChunks(ctx context.Context, kind Kind, ctl Control, chunks []string) ([]string, string) {
	for _, chunk := range chunks {
		if err := ctl.TypeText(ctx, chunk); err != nil {
			r.logger.Error("match.probe.type_failed", "kind", string(kind), "chunk", chunk, "error", err)
			continue
		}
		ctl.Sleep(ctx, r.cfg.ChunkTypeWait)
		options, err := ctl.VisibleOptions(ctx)
		if err != nil {
			r.logger.Error("match.probe.options_failed", "kind", string(kind), "chunk", chunk, "error", err)
			continue
		}
		if len(options) > 0 {
			return options, chunk
		}
		r.logger.Debug("match.probe.no_list", "kind", string(kind), "chunk", chunk)
	}
	return nil, ""
}

// selectByArrows retypes the cleaned text to refilter the list, then walks to
// the target option with ArrowDown presses. The list can reorder on every
// keystroke, which is why selection is keyboard-driven against a fresh fetch.
func (r *Resolver) selectByArrows(ctx context.Context, ctl Control, rawChoice, typeValue, chunk string, score int) Resolution {
	if err := ctl.TypeText(ctx, typeValue); err != nil {
		return r.typeAndEnter(ctx, ctl, typeValue)
	}
	ctl.Sleep(ctx, r.cfg.ChunkTypeWait)

	refreshed, err := ctl.VisibleOptions(ctx)
	if err != nil {
		return r.typeAndEnter(ctx, ctl, typeValue)
	}
	target := -1
	for i, opt := range refreshed {
		if opt == rawChoice {
			target = i
			break
		}
	}
	if target < 0 {
		r.logger.Warn("match.select.option_vanished", "option", rawChoice)
		if err := ctl.TypeText(ctx, typeValue); err != nil {
			return unresolved()
		}
		ctl.Sleep(ctx, r.cfg.ChunkTypeWait)
		if err := ctl.PressEnter(ctx); err != nil {
			return unresolved()
		}
		ctl.Sleep(ctx, r.cfg.SelectConfirmWait)
		return typed(typeValue)
	}

	if err := ctl.Focus(ctx); err != nil {
		return unresolved()
	}
	ctl.Sleep(ctx, r.cfg.ArrowStepWait)
	for i := 0; i <= target; i++ {
		if err := ctl.PressArrowDown(ctx); err != nil {
			return unresolved()
		}
		ctl.Sleep(ctx, r.cfg.ArrowStepWait)
	}
	if err := ctl.PressEnter(ctx); err != nil {
		return unresolved()
	}
	ctl.Sleep(ctx, r.cfg.SelectConfirmWait)
	r.logger.Info("match.select.done", "option", rawChoice, "index", target, "score", score)
	return selected(rawChoice, chunk, score)
}

// resolveReferring ignores the value and takes the first option the portal
// offers, which is always the logged-in facility.
func (r *Resolver) resolveReferring(ctx context.Context, value string, ctl Control) Resolution {
	if err := ctl.Focus(ctx); err != nil {
		return unresolved()
	}
	ctl.Sleep(ctx, r.cfg.ArrowStepWait)
	if err := ctl.PressArrowDown(ctx); err != nil {
		return unresolved()
	}
	ctl.Sleep(ctx, r.cfg.ArrowStepWait)
	if err := ctl.PressEnter(ctx); err != nil {
		return unresolved()
	}
	ctl.Sleep(ctx, r.cfg.TypeEnterWait)

	options, err := ctl.VisibleOptions(ctx)
	if err != nil || len(options) == 0 {
		return typed(value)
	}
	return selected(options[0], "", 0)
}

// TypeAndSubmit types the value into the control and confirms with Enter,
// with no list matching. Callers use it for combo boxes whose values are
// already exact, like gender codes or fixed statuses.
func (r *Resolver) TypeAndSubmit(ctx context.Context, ctl Control, value string) Resolution {
	return r.typeAndEnter(ctx, ctl, value)
}

// typeAndEnter is the last-resort strategy: clear, type the raw value,
// submit, Tab out.
func (r *Resolver) typeAndEnter(ctx context.Context, ctl Control, value string) Resolution {
	if value == "" {
		return unresolved()
	}
	if err := ctl.Focus(ctx); err != nil {
		r.logger.Error("match.type_enter.focus_failed", "value", value, "error", err)
		return unresolved()
	}
	ctl.Sleep(ctx, r.cfg.TypeEnterWait)
	if err := ctl.TypeText(ctx, value); err != nil {
		r.logger.Error("match.type_enter.type_failed", "value", value, "error", err)
		return unresolved()
	}
	ctl.Sleep(ctx, r.cfg.TypeEnterWait)
	if err := ctl.PressEnter(ctx); err != nil {
		return unresolved()
	}
	ctl.Sleep(ctx, r.cfg.ArrowStepWait)
	if err := ctl.PressTab(ctx); err != nil {
		return unresolved()
	}
	ctl.Sleep(ctx, r.cfg.TypeEnterWait)
	r.logger.Info("match.type_enter.done", "value", value)
	return typed(value)
}

// bestChunkMatch scores every chunk against every cleaned option and returns
// the single best triple.
func bestChunkMatch(chunks, cleaned []string) (idx, score int, chunk string) {
	idx = -1
	for _, ch := range chunks {
		i, s := bestOption(ch, cleaned)
		if s > score {
			idx, score, chunk = i, s, ch
		}
	}
	if idx < 0 {
		idx = 0
	}
	return idx, score, chunk
}

// bestOption returns the index and token-sort score of the closest candidate.
func bestOption(query string, candidates []string) (int, int) {
	bestIdx, bestScore := 0, 0
	for i, cand := range candidates {
		if s := fuzzy.TokenSortRatio(query, cand); s > bestScore {
			bestIdx, bestScore = i, s
		}
	}
	return bestIdx, bestScore
}

func safeIdx(i int) int {
	if i < 0 {
		return 0
	}
	return i
}
