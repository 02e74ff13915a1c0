package models

import "time"

// GoodServiceSeverity is TfL's "Good Service" severity code. Lower values
// mean worse disruption; values at or above it mean the line is officially
// fine.
const GoodServiceSeverity = 10

// StatusSnapshot is one timestamped sample of the official line status.
// The snapshot log is append-only; rows are never mutated.
type StatusSnapshot struct {
	CheckedAt         time.Time `json:"checked_at"`
	StatusSeverity    int       `json:"status_severity"`
	StatusDescription string    `json:"status_description"`
	Reason            string    `json:"reason,omitempty"`
}

func (s StatusSnapshot) IsGoodService() bool {
	return s.StatusSeverity >= GoodServiceSeverity
}

// Relevance classifies the snapshot's reason against the monitored branch.
func (s StatusSnapshot) Relevance() BranchRelevance {
	return ClassifyReason(s.Reason)
}

// ResolvedStatus is the status attached to an incident. Historical means it
// came from the snapshot log at the incident's time; otherwise it is the
// live status used as a best-effort fallback.
type ResolvedStatus struct {
	StatusSnapshot
	Historical bool `json:"historical"`
}
