package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sec-tools/policy-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Profiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.ini")
	content := `
[backend]
target = /srv/repos/backend
catalogs = rules/extra.yaml, rules/team.yaml
severity_floor = medium
format = markdown

[infra]
target = /srv/repos/infra
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	registry, err := NewRegistry(path)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("lists profiles", func(t *testing.T) {
		profiles, err := registry.GetProfiles(ctx)
		require.NoError(t, err)
		require.Len(t, profiles, 2)

		names := []string{profiles[0].Name, profiles[1].Name}
		assert.ElementsMatch(t, []string{"backend", "infra"}, names)
	})

	t.Run("resolves one profile", func(t *testing.T) {
		profile, err := registry.GetProfile(ctx, "backend")
		require.NoError(t, err)
		assert.Equal(t, "/srv/repos/backend", profile.Target)
		assert.Equal(t, []string{"rules/extra.yaml", "rules/team.yaml"}, profile.Catalogs)
		assert.Equal(t, domain.SeverityMedium, profile.SeverityFloor)
		assert.Equal(t, "markdown", profile.Format)
	})

	t.Run("unknown profile", func(t *testing.T) {
		_, err := registry.GetProfile(ctx, "absent")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewRegistry(filepath.Join(t.TempDir(), "absent.ini"))
		assert.Error(t, err)
	})
}

func TestLoadSettings(t *testing.T) {
	t.Run("parses yaml settings", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yaml")
		content := `
severity_weights:
  critical: 50
  high: 30
rule_weights:
  readme-present: 1
ignore_patterns:
  - "docs/"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		settings, err := LoadSettings(path)
		require.NoError(t, err)
		assert.Equal(t, 50.0, settings.SeverityWeights["critical"])
		assert.Equal(t, 1.0, settings.RuleWeights["readme-present"])
		assert.Equal(t, []string{"docs/"}, settings.IgnorePatterns)
	})

	t.Run("rejects unknown severity", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yaml")
		require.NoError(t, os.WriteFile(path, []byte("severity_weights:\n  dire: 99\n"), 0o644))

		_, err := LoadSettings(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}

func TestSettings_ApplyWeights(t *testing.T) {
	settings := &Settings{
		SeverityWeights: map[string]float64{"critical": 50},
		RuleWeights:     map[string]float64{"special": 7},
	}

	rules := []domain.Rule{
		{ID: "crit", Severity: domain.SeverityCritical},
		{ID: "special", Severity: domain.SeverityCritical},
		{ID: "plain", Severity: domain.SeverityLow},
	}

	out := settings.ApplyWeights(rules)
	assert.Equal(t, 50.0, out[0].Weight)
	assert.Equal(t, 7.0, out[1].Weight, "rule override beats severity override")
	assert.Equal(t, 0.0, out[2].Weight)

	// input untouched
	assert.Equal(t, 0.0, rules[0].Weight)
}
