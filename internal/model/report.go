package model

import "time"

// Report is the complete verification report for one manuscript
type Report struct {
	Source     string    `json:"source"`      // Manuscript path or name
	VerifiedAt time.Time `json:"verified_at"` // When the run finished
	Provider   string    `json:"provider,omitempty"`
	Model      string    `json:"model,omitempty"`

	ChunkCount int `json:"chunk_count"` // Fixed at segmentation time
	ChunksDone int `json:"chunks_done"` // Chunks actually completed

	Items []VerificationItem `json:"items"`
	Stats AnalysisStats      `json:"stats"`

	// Incomplete marks a run that aborted partway; Items then holds the
	// partial result set accumulated before the failing chunk.
	Incomplete bool   `json:"incomplete,omitempty"`
	RunError   string `json:"run_error,omitempty"`
}
