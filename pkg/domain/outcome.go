package domain

// OutcomeKind classifies the result of running a platform extractor.
type OutcomeKind string

const (
	// OutcomeSuccess means at least the extractor ran to completion.
	OutcomeSuccess OutcomeKind = "success"
	// OutcomeEmpty means the input had the right shape but no usable content.
	OutcomeEmpty OutcomeKind = "empty"
	// OutcomeInvalid means the input was not what the extractor expects
	// (not an archive, missing anchor files).
	OutcomeInvalid OutcomeKind = "invalid"
	// OutcomeMalformed means the input matched the expected shape but
	// could not be decoded.
	OutcomeMalformed OutcomeKind = "malformed"
)

// Outcome is the tagged result of an extraction attempt. Recoverable
// failures are values here, never panics: the wizard's transition table
// consumes the kind directly.
type Outcome struct {
	Kind    OutcomeKind
	Results []ExtractionResult
	Reason  string // diagnostic, for the session log; not user-facing copy
}

// Success wraps extractor results. A success with only empty tables is
// downgraded to OutcomeEmpty, which is the sole retry gate: a mix of
// empty and non-empty tables still counts as success.
func Success(results ...ExtractionResult) Outcome {
	for _, r := range results {
		if !r.Empty() {
			return Outcome{Kind: OutcomeSuccess, Results: results}
		}
	}
	return Outcome{Kind: OutcomeEmpty, Results: results}
}

// EmptyData marks a structurally valid input with no usable content.
func EmptyData() Outcome {
	return Outcome{Kind: OutcomeEmpty}
}

// Invalid marks an input-format failure (not-a-zip, missing anchors).
func Invalid(reason string) Outcome {
	return Outcome{Kind: OutcomeInvalid, Reason: reason}
}

// Malformed marks an input that matched the expected shape but could
// not be decoded.
func Malformed(reason string) Outcome {
	return Outcome{Kind: OutcomeMalformed, Reason: reason}
}

// Usable reports whether the outcome carries at least one non-empty table.
func (o Outcome) Usable() bool {
	if o.Kind != OutcomeSuccess {
		return false
	}
	for _, r := range o.Results {
		if !r.Empty() {
			return true
		}
	}
	return false
}
