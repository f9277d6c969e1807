package domain

import "time"

// Grade buckets an overall scan outcome.
type Grade string

const (
	GradeCritical  Grade = "critical"
	GradeAtRisk    Grade = "at-risk"
	GradeNeedsWork Grade = "needs-work"
	GradeCompliant Grade = "compliant"
)

// ScanReport is the result of one scan run: exactly one finding per
// cataloged rule, in catalog order, plus the derived score and grade.
// The report owns its findings; it is discarded after rendering or
// persisting.
type ScanReport struct {
	ID        string
	Target    string
	StartedAt time.Time
	Duration  time.Duration
	Findings  []Finding
	Score     float64
	Grade     Grade
	// Summary holds status tallies (pass/partial/fail/unknown counts).
	Summary map[string]int
}
