package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/sec-tools/policy-atlas/pkg/models/domain"
)

type TableConfig struct {
	RuleWidth     int
	SeverityWidth int
	StatusWidth   int
	NoteWidth     int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		RuleWidth:     32,
		SeverityWidth: 10,
		StatusWidth:   9,
		NoteWidth:     60,
	}
}

// Reporter renders scan reports as a fixed-width terminal table.
// Pure formatting: all output goes to the supplied writer.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(report *domain.ScanReport) error {
	funcMap := sprig.TxtFuncMap()
	funcMap["formatRow"] = func(rule, severity, status, note string) string {
		return fmt.Sprintf("| %-*s | %-*s | %-*s | %-*s |",
			c.config.RuleWidth, truncate(rule, c.config.RuleWidth),
			c.config.SeverityWidth, severity,
			c.config.StatusWidth, status,
			c.config.NoteWidth, truncate(note, c.config.NoteWidth))
	}
	funcMap["separator"] = func() string {
		return fmt.Sprintf("+%s+%s+%s+%s+",
			strings.Repeat("-", c.config.RuleWidth+2),
			strings.Repeat("-", c.config.SeverityWidth+2),
			strings.Repeat("-", c.config.StatusWidth+2),
			strings.Repeat("-", c.config.NoteWidth+2))
	}
	funcMap["evidenceNote"] = evidenceNote

	tmpl := `
Compliance Scan {{.ID}}
Target: {{.Target}}
Started: {{.StartedAt.Format "2006-01-02 15:04:05"}} ({{.Duration}})
Score: {{printf "%.1f" .Score}}% ({{.Grade | toString | upper}})
Checks: {{.Summary.pass}} pass / {{.Summary.partial}} partial / {{.Summary.fail}} fail / {{.Summary.unknown}} unknown

{{separator}}
{{formatRow "Rule" "Severity" "Status" "Note"}}
{{separator}}
{{range .Findings}}{{formatRow .RuleTitle (.Severity | toString) (.Status | toString) (evidenceNote .)}}
{{end}}{{separator}}
`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, templateReport(report))
}

// templateReport rewraps the report so the summary map is addressable
// by key inside the template.
type reportView struct {
	ID        string
	Target    string
	StartedAt interface{ Format(string) string }
	Duration  string
	Score     float64
	Grade     domain.Grade
	Summary   summaryView
	Findings  []domain.Finding
}

type summaryView map[string]int

func templateReport(report *domain.ScanReport) reportView {
	return reportView{
		ID:        report.ID,
		Target:    report.Target,
		StartedAt: report.StartedAt,
		Duration:  report.Duration.String(),
		Score:     report.Score,
		Grade:     report.Grade,
		Summary:   report.Summary,
		Findings:  report.Findings,
	}
}

func evidenceNote(f domain.Finding) string {
	switch {
	case f.Note != "" && len(f.Evidence) > 0:
		return fmt.Sprintf("%s (%s)", f.Note, formatEvidence(f.Evidence[0]))
	case f.Note != "":
		return f.Note
	case len(f.Evidence) > 0:
		return formatEvidence(f.Evidence[0])
	default:
		return ""
	}
}

func formatEvidence(e domain.Evidence) string {
	if e.StartLine > 0 {
		return fmt.Sprintf("%s:%d", e.Path, e.StartLine)
	}
	return e.Path
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}
