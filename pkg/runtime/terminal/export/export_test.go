package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sec-tools/policy-atlas/pkg/models/domain"
)

func sampleReport() *domain.ScanReport {
	return &domain.ScanReport{
		ID:        "scan-42",
		Target:    "/srv/repos/backend",
		StartedAt: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		Duration:  250 * time.Millisecond,
		Score:     62.5,
		Grade:     domain.GradeAtRisk,
		Summary:   map[string]int{"pass": 1, "partial": 1, "fail": 2, "unknown": 0},
		Findings: []domain.Finding{
			{
				RuleID: "secrets-in-iac-params", RuleTitle: "No static secrets",
				Severity: domain.SeverityCritical, Weight: 40, Status: domain.StatusFail,
				Note:        "forbidden content found",
				Remediation: "Move secrets to a managed vault.",
				Effort:      3,
				Evidence:    []domain.Evidence{{Path: "infra/main.bicep", StartLine: 12, EndLine: 12}},
			},
			{
				RuleID: "keyless-auth-preferred", RuleTitle: "Keyless auth preferred",
				Severity: domain.SeverityHigh, Weight: 25, Status: domain.StatusPartial,
				Note:        "allowed exceptions matched",
				Remediation: "Switch remaining clients to workload identity.",
				Effort:      2,
			},
			{
				RuleID: "readme-present", RuleTitle: "README exists",
				Severity: domain.SeverityLow, Weight: 5, Status: domain.StatusFail,
				Note:        "missing: README*",
				Remediation: "Add a README describing the project.",
				Effort:      1,
			},
			{
				RuleID: "license-present", RuleTitle: "License exists",
				Severity: domain.SeverityLow, Weight: 5, Status: domain.StatusPass,
			},
		},
	}
}

func TestReporter_Handle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf).Handle(sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "Compliance Scan scan-42")
	assert.Contains(t, out, "Target: /srv/repos/backend")
	assert.Contains(t, out, "Score: 62.5% (AT-RISK)")
	assert.Contains(t, out, "1 pass / 1 partial / 2 fail / 0 unknown")
	assert.Contains(t, out, "No static secrets")
	assert.Contains(t, out, "infra/main.bicep:12")

	t.Run("findings keep catalog order", func(t *testing.T) {
		assert.Less(t,
			strings.Index(out, "No static secrets"),
			strings.Index(out, "README exists"))
	})
}

func TestMarkdownReporter_Handle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewMarkdownReporter(&buf).Handle(sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "# Compliance Report")
	assert.Contains(t, out, "## Critical")
	assert.Contains(t, out, "## High")
	assert.Contains(t, out, "## Low")
	assert.NotContains(t, out, "## Medium")
	assert.Contains(t, out, "## Remediation Roadmap")

	t.Run("roadmap ordered by severity then effort", func(t *testing.T) {
		first := strings.Index(out, "1. **No static secrets**")
		second := strings.Index(out, "2. **Keyless auth preferred**")
		third := strings.Index(out, "3. **README exists**")
		require.GreaterOrEqual(t, first, 0)
		require.Greater(t, second, first)
		require.Greater(t, third, second)
	})

	t.Run("passing rules stay out of the roadmap", func(t *testing.T) {
		roadmap := out[strings.Index(out, "## Remediation Roadmap"):]
		assert.NotContains(t, roadmap, "License exists")
	})
}

func TestMarkdownReporter_EmptyRoadmap(t *testing.T) {
	report := sampleReport()
	for i := range report.Findings {
		report.Findings[i].Status = domain.StatusPass
	}

	var buf bytes.Buffer
	require.NoError(t, NewMarkdownReporter(&buf).Handle(report))
	assert.Contains(t, buf.String(), "No remediation required.")
}

func TestSarifReporter_Handle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSarifReporter(&buf).Handle(sampleReport()))

	var log map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &log))
	assert.Equal(t, "2.1.0", log["version"])

	runs := log["runs"].([]any)
	require.Len(t, runs, 1)
	run := runs[0].(map[string]any)

	driver := run["tool"].(map[string]any)["driver"].(map[string]any)
	assert.Equal(t, "policy-atlas", driver["name"])
	assert.Len(t, driver["rules"].([]any), 4)

	results := run["results"].([]any)
	require.Len(t, results, 3)

	t.Run("severity maps to level", func(t *testing.T) {
		levels := map[string]string{}
		for _, r := range results {
			res := r.(map[string]any)
			levels[res["ruleId"].(string)] = res["level"].(string)
		}
		assert.Equal(t, "error", levels["secrets-in-iac-params"])
		assert.Equal(t, "error", levels["keyless-auth-preferred"])
		assert.Equal(t, "note", levels["readme-present"])
	})

	t.Run("evidence becomes a location", func(t *testing.T) {
		res := results[0].(map[string]any)
		locations := res["locations"].([]any)
		require.Len(t, locations, 1)
		physical := locations[0].(map[string]any)["physicalLocation"].(map[string]any)
		artifact := physical["artifactLocation"].(map[string]any)
		assert.Equal(t, "infra/main.bicep", artifact["uri"])
		region := physical["region"].(map[string]any)
		assert.Equal(t, float64(12), region["startLine"])
	})
}

func TestJsonReporter_Handle(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJsonReporter(&buf).Handle(sampleReport()))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
	assert.Equal(t, "scan-42", payload["id"])
	assert.Equal(t, 62.5, payload["score"])
	assert.Equal(t, "at-risk", payload["grade"])
	assert.Len(t, payload["findings"].([]any), 4)
}

func TestFor(t *testing.T) {
	var buf bytes.Buffer

	for _, format := range []string{FormatTable, FormatJson, FormatMarkdown, FormatSarif, ""} {
		h, err := For(format, &buf)
		require.NoError(t, err, format)
		assert.NotNil(t, h)
	}

	_, err := For("xml", &buf)
	assert.Error(t, err)
}
