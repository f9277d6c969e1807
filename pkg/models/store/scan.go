package store

import "time"

// ScanRecord is the persisted summary row for one scan run.
type ScanRecord struct {
	ID         string
	Target     string
	StartedAt  time.Time
	DurationMs int64
	Score      float64
	Grade      string
}

// FindingRecord is one persisted finding. Seq preserves catalog order.
type FindingRecord struct {
	ScanID    string
	Seq       int
	RuleID    string
	RuleTitle string
	Severity  string
	Weight    float64
	Status    string
	Note      string
	Evidence  []EvidenceRecord
}

type EvidenceRecord struct {
	Path      string `json:"path"`
	StartLine int    `json:"start_line,omitempty"`
	EndLine   int    `json:"end_line,omitempty"`
}
