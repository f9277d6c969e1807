package api

import "time"

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

type Status string

const (
	StatusPass    Status = "pass"
	StatusPartial Status = "partial"
	StatusFail    Status = "fail"
	StatusUnknown Status = "unknown"
)

type Rule struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Severity    Severity `json:"severity"`
	Category    string   `json:"category,omitempty"`
	Remediation string   `json:"remediation,omitempty"`
}

type Evidence struct {
	Path      string `json:"path"`
	StartLine int    `json:"start_line,omitempty"`
	EndLine   int    `json:"end_line,omitempty"`
}

type Finding struct {
	RuleID      string     `json:"rule_id"`
	RuleTitle   string     `json:"rule_title"`
	Severity    Severity   `json:"severity"`
	Status      Status     `json:"status"`
	Evidence    []Evidence `json:"evidence,omitempty"`
	Note        string     `json:"note,omitempty"`
	Remediation string     `json:"remediation,omitempty"`
}

type ScanReport struct {
	ID        string         `json:"id"`
	Target    string         `json:"target"`
	StartedAt time.Time      `json:"started_at"`
	Duration  string         `json:"duration"`
	Score     float64        `json:"score"`
	Grade     string         `json:"grade"`
	Summary   map[string]int `json:"summary"`
	Findings  []Finding      `json:"findings"`
}

// ScanRequest asks the server to run a scan against a local path.
type ScanRequest struct {
	Path string `json:"path"`
}

// ScanSummary is the history-listing view of a stored scan.
type ScanSummary struct {
	ID        string    `json:"id"`
	Target    string    `json:"target"`
	StartedAt time.Time `json:"started_at"`
	Score     float64   `json:"score"`
	Grade     string    `json:"grade"`
}
