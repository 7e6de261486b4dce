package reconcile

import "time"

// Outcome is the per-piece result of a sync pass.
type Outcome string

const (
	OutcomeSynced  Outcome = "SYNCED"
	OutcomeSkipped Outcome = "SKIPPED"
	OutcomeFailed  Outcome = "FAILED"
)

// PieceResult records what a pass did for one piece that was missing its
// listed version. Versions holds the versions inserted by this pass.
type PieceResult struct {
	Name     string   `json:"name"`
	Outcome  Outcome  `json:"outcome"`
	Versions []string `json:"versions,omitempty"`
	Reason   string   `json:"reason,omitempty"`
}

// Report describes one sync pass. Err is set when listing the source failed
// and the pass was aborted; per-piece failures live in Results.
type Report struct {
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt time.Time     `json:"finishedAt"`
	Listed     int           `json:"listed"`
	Err        error         `json:"-"`
	Results    []PieceResult `json:"results"`
}

// Count returns the number of results with the given outcome.
func (r Report) Count(outcome Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

// Inserted returns the total number of versions inserted by the pass.
func (r Report) Inserted() int {
	n := 0
	for _, res := range r.Results {
		n += len(res.Versions)
	}
	return n
}

func (r Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
