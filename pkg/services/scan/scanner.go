package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sec-tools/policy-atlas/pkg/models/domain"
	"github.com/sec-tools/policy-atlas/pkg/services/catalog"
	"github.com/sec-tools/policy-atlas/pkg/services/predicate"
	"github.com/sec-tools/policy-atlas/pkg/services/score"
)

// Scanner evaluates a rule catalog against a target and produces a
// scan report: exactly one finding per rule, in catalog order.
type Scanner struct {
	entries []catalog.Entry
	targets Registry
}

// New creates a scanner over the given catalog entries. Entries are
// taken as-is so callers control ordering and severity filtering.
func New(entries []catalog.Entry, targets Registry) *Scanner {
	return &Scanner{entries: entries, targets: targets}
}

// Scan opens the target and evaluates every rule against it. A rule
// whose predicate errors or panics degrades to an unknown finding; only
// an unreadable target aborts the scan.
func (s *Scanner) Scan(ctx context.Context, ref string) (domain.ScanReport, error) {
	logger := zerolog.Ctx(ctx)

	target, err := s.targets.Open(ref)
	if err != nil {
		return domain.ScanReport{}, err
	}

	started := time.Now()
	findings := make([]domain.Finding, 0, len(s.entries))
	for _, entry := range s.entries {
		finding := s.evaluate(ctx, entry, target)
		if finding.Status == domain.StatusUnknown {
			logger.Warn().
				Str("rule", entry.Rule.ID).
				Str("note", finding.Note).
				Msg("rule evaluation degraded to unknown")
		}
		findings = append(findings, finding)
	}

	total := score.Score(findings)
	report := domain.ScanReport{
		ID:        uuid.NewString(),
		Target:    target.Ref(),
		StartedAt: started,
		Duration:  time.Since(started),
		Findings:  findings,
		Score:     total,
		Grade:     score.Grade(total, findings),
		Summary:   score.Summarize(findings),
	}

	logger.Info().
		Str("scan_id", report.ID).
		Str("target", report.Target).
		Float64("score", report.Score).
		Str("grade", string(report.Grade)).
		Msg("scan completed")

	return report, nil
}

// evaluate runs one predicate with partial-failure isolation: errors
// and panics become unknown findings instead of aborting the scan.
func (s *Scanner) evaluate(ctx context.Context, entry catalog.Entry, target predicate.Target) (finding domain.Finding) {
	defer func() {
		if r := recover(); r != nil {
			finding = newFinding(entry.Rule, predicate.Result{
				Status: domain.StatusUnknown,
				Note:   fmt.Sprintf("predicate panicked: %v", r),
			})
		}
	}()

	result, err := entry.Predicate.Evaluate(ctx, target)
	if err != nil {
		return newFinding(entry.Rule, predicate.Result{
			Status: domain.StatusUnknown,
			Note:   fmt.Sprintf("predicate error: %v", err),
		})
	}
	if !result.Status.IsValid() {
		return newFinding(entry.Rule, predicate.Result{
			Status: domain.StatusUnknown,
			Note:   fmt.Sprintf("predicate returned invalid status %q", result.Status),
		})
	}
	return newFinding(entry.Rule, result)
}

func newFinding(rule domain.Rule, result predicate.Result) domain.Finding {
	return domain.Finding{
		RuleID:      rule.ID,
		RuleTitle:   rule.Title,
		Severity:    rule.Severity,
		Weight:      rule.EffectiveWeight(),
		Status:      result.Status,
		Evidence:    result.Evidence,
		Note:        result.Note,
		Remediation: rule.Remediation,
		Effort:      rule.Effort,
	}
}
