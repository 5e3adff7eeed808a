package match

// Outcome says how a resolution attempt ended.
type Outcome int

const (
	// OutcomeUnresolved means no option could be matched or typed; the
	// field is left for a human to fix.
	OutcomeUnresolved Outcome = iota
	// OutcomeSelected means an option from the live list was picked.
	OutcomeSelected
	// OutcomeTyped means the value was typed and submitted without a
	// confirmed list selection.
	OutcomeTyped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSelected:
		return "selected"
	case OutcomeTyped:
		return "typed"
	default:
		return "unresolved"
	}
}

// Resolution is the result of one dropdown resolution attempt. Value is the
// text that ended up in the field, empty only when unresolved.
type Resolution struct {
	Outcome Outcome
	Value   string
	// Chunk is the probe that produced the winning match, when one did.
	Chunk string
	// Score is the fuzzy score of the winning match, 0 for fallbacks.
	Score int
}

func selected(value, chunk string, score int) Resolution {
	return Resolution{Outcome: OutcomeSelected, Value: value, Chunk: chunk, Score: score}
}

func typed(value string) Resolution {
	return Resolution{Outcome: OutcomeTyped, Value: value}
}

func unresolved() Resolution {
	return Resolution{Outcome: OutcomeUnresolved}
}
