package model

// Status classifies the oracle's judgment of a single quotation.
// No other values are accepted anywhere in the pipeline; unrecognized
// values from the oracle are coerced or dropped at the adapter boundary.
type Status string

const (
	StatusAccurate      Status = "ACCURATE"      // Quote matches the claimed source
	StatusParaphrased   Status = "PARAPHRASED"   // Faithful restatement, not verbatim
	StatusMisattributed Status = "MISATTRIBUTED" // Quote exists but the attribution is wrong
	StatusUnverifiable  Status = "UNVERIFIABLE"  // Cannot be confirmed against any source
)

// IsValid reports whether s is one of the four accepted statuses
func (s Status) IsValid() bool {
	switch s {
	case StatusAccurate, StatusParaphrased, StatusMisattributed, StatusUnverifiable:
		return true
	}
	return false
}

// VerificationItem is one structured judgment about a single
// quotation/attribution. Items are immutable once appended to a result set;
// they are only ever appended, in chunk-processing order.
type VerificationItem struct {
	Location      string `json:"location"`       // Free-text position (e.g. "Page 5, Para 2"), oracle-supplied
	QuoteText     string `json:"quote_text"`     // The quoted or paraphrased span
	ClaimedSource string `json:"claimed_source"` // Author/work attributed in the text ("unspecified" when absent)
	Status        Status `json:"status"`
	Notes         string `json:"notes"` // Free-text rationale
}

// Chunk is a contiguous, bounded slice of the manuscript. StartIndex is the
// byte offset of Text's first character within the original document.
type Chunk struct {
	Text       string
	StartIndex int
}

// AnalysisStats holds per-status counts derived from a result set. Always
// recomputed from the full item list, never patched incrementally.
type AnalysisStats struct {
	Accurate      int `json:"accurate"`
	Paraphrased   int `json:"paraphrased"`
	Misattributed int `json:"misattributed"`
	Unverifiable  int `json:"unverifiable"`
	Total         int `json:"total"`
}

// Progress reports completed chunks out of the fixed total for one run
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}
