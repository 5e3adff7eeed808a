// Package match resolves free-text field values against live autocomplete
// dropdowns. Values extracted from scanned forms rarely match the portal's
// option text exactly, so the resolver probes the list with word n-gram
// chunks and scores candidates with token-sort fuzzy ratios before driving a
// keyboard selection.
package match

import "time"

// Kind selects the resolution profile for a dropdown. Each kind controls
// chunk sizing, option cleaning, and settle waits.
type Kind string

const (
	KindCarrierType Kind = "carrier_type"
	KindCarrier     Kind = "carrier"
	KindVisitType   Kind = "visit_type"
	KindReferring   Kind = "referring"
	KindModality    Kind = "modality"
	KindServiceDesc Kind = "service_desc"
	KindGeneric     Kind = "generic"
)

// Config carries every tunable the resolver uses. The thresholds and waits
// were settled empirically against the live portal; treat them as fixed
// rather than derived. The zero value is not usable, call DefaultConfig.
type Config struct {
	// MatchThreshold is the minimum token-sort score for a chunk match to
	// be trusted.
	MatchThreshold int
	// DoubleCheckThreshold is the minimum score for the full key-word
	// string to override the best chunk match.
	DoubleCheckThreshold int
	// WordMatchThreshold is the per-word ratio above which a modality word
	// counts as matched.
	WordMatchThreshold int

	// StopWords are dropped during key-word extraction.
	StopWords map[string]struct{}

	// ChunkSizeCarrier caps n-gram size for carrier-like kinds; ChunkSize
	// applies to everything else.
	ChunkSizeCarrier int
	ChunkSize        int

	// UI settle waits. The portal re-renders its list on every keystroke
	// and gives no completion signal, so all waits are fixed durations.
	FocusWaitCarrier time.Duration
	FocusWaitOther   time.Duration
	ChunkTypeWait    time.Duration
	ArrowStepWait    time.Duration
	SelectConfirmWait time.Duration
	TypeEnterWait    time.Duration
}

// DefaultConfig returns the production tuning.
func DefaultConfig() Config {
	return Config{
		MatchThreshold:       60,
		DoubleCheckThreshold: 50,
		WordMatchThreshold:   90,
		StopWords: map[string]struct{}{
			"the": {}, "and": {}, "company": {}, "reinsurance": {},
			"cooperative": {}, "complex": {}, "insurance": {},
		},
		ChunkSizeCarrier:  2,
		ChunkSize:         3,
		FocusWaitCarrier:  1 * time.Second,
		FocusWaitOther:    2 * time.Second,
		ChunkTypeWait:     2 * time.Second,
		ArrowStepWait:     500 * time.Millisecond,
		SelectConfirmWait: 2 * time.Second,
		TypeEnterWait:     time.Second,
	}
}

// maxChunkSize returns the n-gram cap for a kind.
func (c Config) maxChunkSize(kind Kind) int {
	if kind == KindCarrier || kind == KindCarrierType {
		return c.ChunkSizeCarrier
	}
	return c.ChunkSize
}

// focusWait returns the initial focus settle time for a kind.
func (c Config) focusWait(kind Kind) time.Duration {
	if kind == KindCarrier || kind == KindCarrierType {
		return c.FocusWaitCarrier
	}
	return c.FocusWaitOther
}
