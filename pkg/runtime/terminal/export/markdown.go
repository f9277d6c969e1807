package export

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/sec-tools/policy-atlas/pkg/models/domain"
)

// MarkdownReporter renders a scan report as a markdown document with
// findings grouped by severity and a remediation roadmap.
type MarkdownReporter struct {
	writer io.Writer
}

func NewMarkdownReporter(writer io.Writer) *MarkdownReporter {
	return &MarkdownReporter{writer: writer}
}

type severityBucket struct {
	Severity domain.Severity
	Findings []domain.Finding
}

type roadmapItem struct {
	Rank        int
	Finding     domain.Finding
	Remediation string
}

type markdownView struct {
	Report  *domain.ScanReport
	Buckets []severityBucket
	Roadmap []roadmapItem
}

const markdownTemplate = `# Compliance Report

| | |
|---|---|
| Scan | {{.Report.ID}} |
| Target | {{.Report.Target}} |
| Started | {{.Report.StartedAt.Format "2006-01-02 15:04:05 MST"}} |
| Duration | {{.Report.Duration}} |
| Score | {{printf "%.1f" .Report.Score}}% |
| Grade | {{.Report.Grade | toString | upper}} |

## Summary

| Status | Count |
|---|---|
| Pass | {{index .Report.Summary "pass"}} |
| Partial | {{index .Report.Summary "partial"}} |
| Fail | {{index .Report.Summary "fail"}} |
| Unknown | {{index .Report.Summary "unknown"}} |
{{range .Buckets}}
## {{.Severity | toString | title}}

| Rule | Status | Note |
|---|---|---|
{{- range .Findings}}
| {{.RuleTitle}} | {{.Status}} | {{.Note | default "-"}} |
{{- end}}
{{end}}
## Remediation Roadmap
{{if .Roadmap}}{{range .Roadmap}}
{{.Rank}}. **{{.Finding.RuleTitle}}** ({{.Finding.Severity}}, effort {{.Finding.Effort}}): {{.Remediation}}
{{- range .Finding.Evidence}}
   - ` + "`{{.Path}}{{if gt .StartLine 0}}:{{.StartLine}}{{end}}`" + `
{{- end}}
{{end}}{{else}}
No remediation required.
{{end}}`

func (m *MarkdownReporter) Handle(report *domain.ScanReport) error {
	t, err := template.New("markdown").Funcs(sprig.TxtFuncMap()).Parse(markdownTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	view := markdownView{
		Report:  report,
		Buckets: bucketBySeverity(report.Findings),
		Roadmap: buildRoadmap(report.Findings),
	}

	var sb strings.Builder
	if err := t.Execute(&sb, view); err != nil {
		return err
	}
	_, err = io.WriteString(m.writer, sb.String())
	return err
}

func bucketBySeverity(findings []domain.Finding) []severityBucket {
	order := []domain.Severity{
		domain.SeverityCritical,
		domain.SeverityHigh,
		domain.SeverityMedium,
		domain.SeverityLow,
	}
	byLevel := make(map[domain.Severity][]domain.Finding)
	for _, f := range findings {
		byLevel[f.Severity] = append(byLevel[f.Severity], f)
	}

	buckets := make([]severityBucket, 0, len(order))
	for _, sev := range order {
		if len(byLevel[sev]) == 0 {
			continue
		}
		buckets = append(buckets, severityBucket{Severity: sev, Findings: byLevel[sev]})
	}
	return buckets
}

// buildRoadmap lists every check that needs attention, most severe
// first and cheapest fix first within a severity level.
func buildRoadmap(findings []domain.Finding) []roadmapItem {
	items := make([]roadmapItem, 0)
	for _, f := range findings {
		if f.Status == domain.StatusPass {
			continue
		}
		remediation := f.Remediation
		if remediation == "" {
			remediation = "Review this check manually."
		}
		items = append(items, roadmapItem{Finding: f, Remediation: remediation})
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Finding, items[j].Finding
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() > b.Severity.Rank()
		}
		if a.Effort != b.Effort {
			return a.Effort < b.Effort
		}
		return a.RuleID < b.RuleID
	})

	for i := range items {
		items[i].Rank = i + 1
	}
	return items
}
