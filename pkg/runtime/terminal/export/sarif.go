package export

import (
	"encoding/json"
	"io"

	"github.com/sec-tools/policy-atlas/pkg/models/domain"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string            `json:"id"`
	Name             string            `json:"name,omitempty"`
	ShortDescription *sarifMessage     `json:"shortDescription,omitempty"`
	Help             *sarifMessage     `json:"help,omitempty"`
	Properties       map[string]string `json:"properties,omitempty"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine,omitempty"`
}

// SarifReporter emits SARIF 2.1.0 so scan results plug into code
// scanning backends that ingest the format.
type SarifReporter struct {
	writer io.Writer
}

func NewSarifReporter(writer io.Writer) *SarifReporter {
	return &SarifReporter{writer: writer}
}

func (s *SarifReporter) Handle(report *domain.ScanReport) error {
	rules := make([]sarifRule, 0, len(report.Findings))
	results := make([]sarifResult, 0, len(report.Findings))

	for _, f := range report.Findings {
		rule := sarifRule{
			ID:   f.RuleID,
			Name: f.RuleTitle,
			Properties: map[string]string{
				"severity": string(f.Severity),
			},
		}
		if f.Remediation != "" {
			rule.Help = &sarifMessage{Text: f.Remediation}
		}
		rules = append(rules, rule)

		if f.Status == domain.StatusPass {
			continue
		}
		results = append(results, sarifResult{
			RuleID:    f.RuleID,
			Level:     sarifLevel(f.Severity, f.Status),
			Message:   sarifMessage{Text: resultMessage(f)},
			Locations: sarifLocations(f.Evidence),
		})
	}

	log := sarifLog{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:  "policy-atlas",
				Rules: rules,
			}},
			Results: results,
		}},
	}

	enc := json.NewEncoder(s.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}

func sarifLevel(severity domain.Severity, status domain.Status) string {
	if status == domain.StatusUnknown {
		return "none"
	}
	switch severity {
	case domain.SeverityCritical, domain.SeverityHigh:
		return "error"
	case domain.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

func resultMessage(f domain.Finding) string {
	if f.Note != "" {
		return f.RuleTitle + ": " + f.Note
	}
	return f.RuleTitle
}

func sarifLocations(evidence []domain.Evidence) []sarifLocation {
	locations := make([]sarifLocation, 0, len(evidence))
	for _, e := range evidence {
		loc := sarifLocation{
			PhysicalLocation: sarifPhysicalLocation{
				ArtifactLocation: sarifArtifactLocation{URI: e.Path},
			},
		}
		if e.StartLine > 0 {
			loc.PhysicalLocation.Region = &sarifRegion{
				StartLine: e.StartLine,
				EndLine:   e.EndLine,
			}
		}
		locations = append(locations, loc)
	}
	return locations
}
