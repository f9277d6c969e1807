package domain

type Status string

const (
	StatusPass    Status = "pass"
	StatusPartial Status = "partial"
	StatusFail    Status = "fail"
	// StatusUnknown marks a rule whose predicate could not be evaluated.
	// The scan continues; the failure is recorded in the finding note.
	StatusUnknown Status = "unknown"
)

// IsValid reports whether s is a recognized finding status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPass, StatusPartial, StatusFail, StatusUnknown:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// Evidence points at the location that triggered a finding.
// EndLine may be 0 when the evidence is a whole file.
type Evidence struct {
	Path      string
	StartLine int
	EndLine   int
}

// Finding is the outcome of evaluating one rule against one target.
// Severity and Weight are denormalized from the rule so that scoring
// and rendering stay pure functions over the finding set. Findings are
// created once per rule per scan and never mutated.
type Finding struct {
	RuleID      string
	RuleTitle   string
	Severity    Severity
	Weight      float64
	Status      Status
	Evidence    []Evidence
	Note        string
	Remediation string
	Effort      int
}
