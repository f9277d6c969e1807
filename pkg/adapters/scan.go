package adapters

import (
	"time"

	"github.com/sec-tools/policy-atlas/pkg/models/api"
	"github.com/sec-tools/policy-atlas/pkg/models/domain"
	"github.com/sec-tools/policy-atlas/pkg/models/store"
)

func MapSeverityDomainToApi(s domain.Severity) api.Severity {
	switch s {
	case domain.SeverityCritical:
		return api.SeverityCritical
	case domain.SeverityHigh:
		return api.SeverityHigh
	case domain.SeverityMedium:
		return api.SeverityMedium
	default:
		return api.SeverityLow
	}
}

func MapStatusDomainToApi(s domain.Status) api.Status {
	switch s {
	case domain.StatusPass:
		return api.StatusPass
	case domain.StatusPartial:
		return api.StatusPartial
	case domain.StatusFail:
		return api.StatusFail
	default:
		return api.StatusUnknown
	}
}

func MapRuleDomainToApi(r domain.Rule) api.Rule {
	return api.Rule{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Severity:    MapSeverityDomainToApi(r.Severity),
		Category:    r.Category,
		Remediation: r.Remediation,
	}
}

func MapFindingDomainToApi(f domain.Finding) api.Finding {
	evidence := make([]api.Evidence, 0, len(f.Evidence))
	for _, e := range f.Evidence {
		evidence = append(evidence, api.Evidence{
			Path:      e.Path,
			StartLine: e.StartLine,
			EndLine:   e.EndLine,
		})
	}
	return api.Finding{
		RuleID:      f.RuleID,
		RuleTitle:   f.RuleTitle,
		Severity:    MapSeverityDomainToApi(f.Severity),
		Status:      MapStatusDomainToApi(f.Status),
		Evidence:    evidence,
		Note:        f.Note,
		Remediation: f.Remediation,
	}
}

func MapScanReportDomainToApi(r domain.ScanReport) api.ScanReport {
	res := api.ScanReport{
		ID:        r.ID,
		Target:    r.Target,
		StartedAt: r.StartedAt,
		Duration:  r.Duration.String(),
		Score:     r.Score,
		Grade:     string(r.Grade),
		Summary:   map[string]int{},
		Findings:  make([]api.Finding, 0, len(r.Findings)),
	}
	for k, v := range r.Summary {
		res.Summary[k] = v
	}
	for _, f := range r.Findings {
		res.Findings = append(res.Findings, MapFindingDomainToApi(f))
	}
	return res
}

func MapScanReportDomainToStore(r domain.ScanReport) (store.ScanRecord, []store.FindingRecord) {
	rec := store.ScanRecord{
		ID:         r.ID,
		Target:     r.Target,
		StartedAt:  r.StartedAt,
		DurationMs: r.Duration.Milliseconds(),
		Score:      r.Score,
		Grade:      string(r.Grade),
	}
	findings := make([]store.FindingRecord, 0, len(r.Findings))
	for i, f := range r.Findings {
		evidence := make([]store.EvidenceRecord, 0, len(f.Evidence))
		for _, e := range f.Evidence {
			evidence = append(evidence, store.EvidenceRecord{
				Path:      e.Path,
				StartLine: e.StartLine,
				EndLine:   e.EndLine,
			})
		}
		findings = append(findings, store.FindingRecord{
			ScanID:    r.ID,
			Seq:       i,
			RuleID:    f.RuleID,
			RuleTitle: f.RuleTitle,
			Severity:  string(f.Severity),
			Weight:    f.Weight,
			Status:    string(f.Status),
			Note:      f.Note,
			Evidence:  evidence,
		})
	}
	return rec, findings
}

func MapScanRecordStoreToApi(rec store.ScanRecord) api.ScanSummary {
	return api.ScanSummary{
		ID:        rec.ID,
		Target:    rec.Target,
		StartedAt: rec.StartedAt,
		Score:     rec.Score,
		Grade:     rec.Grade,
	}
}

func MapFindingRecordStoreToApi(f store.FindingRecord) api.Finding {
	evidence := make([]api.Evidence, 0, len(f.Evidence))
	for _, e := range f.Evidence {
		evidence = append(evidence, api.Evidence{
			Path:      e.Path,
			StartLine: e.StartLine,
			EndLine:   e.EndLine,
		})
	}
	return api.Finding{
		RuleID:    f.RuleID,
		RuleTitle: f.RuleTitle,
		Severity:  api.Severity(f.Severity),
		Status:    api.Status(f.Status),
		Evidence:  evidence,
		Note:      f.Note,
	}
}

// MapStoredScanToApi rebuilds the report view of a persisted scan.
// Summary tallies are recomputed from the stored findings.
func MapStoredScanToApi(rec store.ScanRecord, findings []store.FindingRecord) api.ScanReport {
	res := api.ScanReport{
		ID:        rec.ID,
		Target:    rec.Target,
		StartedAt: rec.StartedAt,
		Duration:  (time.Duration(rec.DurationMs) * time.Millisecond).String(),
		Score:     rec.Score,
		Grade:     rec.Grade,
		Summary:   map[string]int{"pass": 0, "partial": 0, "fail": 0, "unknown": 0},
		Findings:  make([]api.Finding, 0, len(findings)),
	}
	for _, f := range findings {
		res.Summary[f.Status]++
		res.Findings = append(res.Findings, MapFindingRecordStoreToApi(f))
	}
	return res
}
