// Package score turns a finding set into a compliance percentage.
// Everything here is a pure function of its inputs so the scoring
// formula itself can be regression tested.
package score

import (
	"math"

	"github.com/sec-tools/policy-atlas/pkg/models/domain"
)

// Credit returns the fraction of a rule's weight earned by a status.
// Unknown earns nothing: an unevaluable check must drag the score
// down, not vanish from it.
func Credit(s domain.Status) float64 {
	switch s {
	case domain.StatusPass:
		return 1.0
	case domain.StatusPartial:
		return 0.5
	default:
		return 0.0
	}
}

// Score computes the weighted compliance percentage in [0,100].
// An empty finding set scores 100: nothing was checked, nothing failed.
func Score(findings []domain.Finding) float64 {
	var earned, total float64
	for _, f := range findings {
		w := f.Weight
		if w <= 0 {
			w = f.Severity.DefaultWeight()
		}
		total += w
		earned += Credit(f.Status) * w
	}
	if total == 0 {
		return 100
	}

	pct := 100 * earned / total
	// round to one decimal for stable presentation
	return math.Round(pct*10) / 10
}

const (
	atRiskThreshold    = 60
	compliantThreshold = 85
)

// Grade buckets the run. Any critical failure dominates regardless of
// the numeric score.
func Grade(score float64, findings []domain.Finding) domain.Grade {
	highFail := false
	for _, f := range findings {
		if f.Status != domain.StatusFail {
			continue
		}
		switch f.Severity {
		case domain.SeverityCritical:
			return domain.GradeCritical
		case domain.SeverityHigh:
			highFail = true
		}
	}

	switch {
	case highFail || score < atRiskThreshold:
		return domain.GradeAtRisk
	case score < compliantThreshold:
		return domain.GradeNeedsWork
	default:
		return domain.GradeCompliant
	}
}

// Summarize tallies findings by status.
func Summarize(findings []domain.Finding) map[string]int {
	summary := map[string]int{
		string(domain.StatusPass):    0,
		string(domain.StatusPartial): 0,
		string(domain.StatusFail):    0,
		string(domain.StatusUnknown): 0,
	}
	for _, f := range findings {
		summary[string(f.Status)]++
	}
	return summary
}
