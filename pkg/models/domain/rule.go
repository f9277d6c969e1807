package domain

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// IsValid reports whether s is a recognized severity level.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// Rank returns a numeric rank for sorting. Critical=4, High=3, Medium=2, Low=1.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// DefaultWeight returns the scoring weight used when a rule does not
// declare its own. Higher severities dominate the compliance score.
func (s Severity) DefaultWeight() float64 {
	switch s {
	case SeverityCritical:
		return 40
	case SeverityHigh:
		return 25
	case SeverityMedium:
		return 15
	case SeverityLow:
		return 5
	default:
		return 0
	}
}

func (s Severity) String() string {
	return string(s)
}

// PredicateSpec describes the detection logic of a rule: a kind
// (file_present, file_pattern, content_regex, expression) plus
// kind-specific parameters. Interpretation happens at catalog build time.
type PredicateSpec struct {
	Kind   string
	Params map[string]any
}

// Rule is a single compliance check. Rules are immutable once the
// catalog is built.
type Rule struct {
	ID          string
	Title       string
	Description string
	Severity    Severity
	Category    string
	Remediation string
	// Effort is an ordinal remediation effort rank (1 = quick fix),
	// used to order the remediation roadmap.
	Effort int
	// Weight overrides the severity default when > 0.
	Weight    float64
	Predicate PredicateSpec
}

// EffectiveWeight returns the rule weight, falling back to the
// severity default.
func (r Rule) EffectiveWeight() float64 {
	if r.Weight > 0 {
		return r.Weight
	}
	return r.Severity.DefaultWeight()
}
