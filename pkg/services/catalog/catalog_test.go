package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sec-tools/policy-atlas/pkg/models/domain"
	"github.com/sec-tools/policy-atlas/pkg/services/predicate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRule(id string) domain.Rule {
	return domain.Rule{
		ID:       id,
		Title:    "test rule",
		Severity: domain.SeverityMedium,
		Predicate: domain.PredicateSpec{
			Kind:   predicate.KindFilePresent,
			Params: map[string]any{"paths": []string{"README.md"}},
		},
	}
}

func TestNew_Validation(t *testing.T) {
	t.Run("valid rules build in order", func(t *testing.T) {
		cat, err := New([]domain.Rule{validRule("a"), validRule("b"), validRule("c")})
		require.NoError(t, err)
		assert.Equal(t, 3, cat.Len())

		rules := cat.Rules()
		assert.Equal(t, []string{"a", "b", "c"}, []string{rules[0].ID, rules[1].ID, rules[2].ID})
	})

	t.Run("missing id", func(t *testing.T) {
		rule := validRule("")
		_, err := New([]domain.Rule{rule})
		assert.ErrorIs(t, err, domain.ErrInvalidRule)
	})

	t.Run("missing title", func(t *testing.T) {
		rule := validRule("a")
		rule.Title = ""
		_, err := New([]domain.Rule{rule})
		assert.ErrorIs(t, err, domain.ErrInvalidRule)
	})

	t.Run("unknown severity", func(t *testing.T) {
		rule := validRule("a")
		rule.Severity = "catastrophic"
		_, err := New([]domain.Rule{rule})
		assert.ErrorIs(t, err, domain.ErrInvalidRule)
	})

	t.Run("duplicate ids", func(t *testing.T) {
		_, err := New([]domain.Rule{validRule("a"), validRule("a")})
		assert.ErrorIs(t, err, domain.ErrInvalidRule)
		assert.Contains(t, err.Error(), "duplicate")
	})

	t.Run("unknown predicate kind", func(t *testing.T) {
		rule := validRule("a")
		rule.Predicate.Kind = "divination"
		_, err := New([]domain.Rule{rule})
		assert.ErrorIs(t, err, domain.ErrInvalidRule)
	})

	t.Run("uncompilable regex", func(t *testing.T) {
		rule := validRule("a")
		rule.Predicate = domain.PredicateSpec{
			Kind:   predicate.KindContentRegex,
			Params: map[string]any{"pattern": "(["},
		}
		_, err := New([]domain.Rule{rule})
		assert.ErrorIs(t, err, domain.ErrInvalidRule)
	})

	t.Run("negative weight", func(t *testing.T) {
		rule := validRule("a")
		rule.Weight = -1
		_, err := New([]domain.Rule{rule})
		assert.ErrorIs(t, err, domain.ErrInvalidRule)
	})
}

func TestDefault(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)
	assert.Equal(t, len(BuiltinRules()), cat.Len())

	for _, e := range cat.Entries() {
		assert.NotNil(t, e.Predicate, "rule %s has no predicate", e.Rule.ID)
		assert.True(t, e.Rule.Severity.IsValid())
	}
}

func TestLoadFiles(t *testing.T) {
	t.Run("parses rules in file order", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		content := `
rules:
  - id: custom-check
    title: Custom check
    severity: high
    category: custom
    effort: 2
    predicate:
      kind: content_regex
      pattern: "TODO"
      files: ["*.go"]
  - id: second-check
    title: Second check
    severity: low
    predicate:
      kind: file_present
      paths: ["Makefile"]
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		rules, err := LoadFiles(path)
		require.NoError(t, err)
		require.Len(t, rules, 2)

		assert.Equal(t, "custom-check", rules[0].ID)
		assert.Equal(t, domain.SeverityHigh, rules[0].Severity)
		assert.Equal(t, "content_regex", rules[0].Predicate.Kind)
		assert.Equal(t, "TODO", rules[0].Predicate.Params["pattern"])

		// loaded rules build into a working catalog
		_, err = New(rules)
		require.NoError(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFiles(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("rules: ["), 0o644))

		_, err := LoadFiles(path)
		assert.Error(t, err)
	})

	t.Run("malformed rule surfaces at build, not load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		content := `
rules:
  - id: bad-severity
    title: Bad severity
    severity: shrug
    predicate:
      kind: file_present
      paths: ["x"]
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		rules, err := LoadFiles(path)
		require.NoError(t, err)

		_, err = New(rules)
		assert.ErrorIs(t, err, domain.ErrInvalidRule)
	})
}

func TestFilterSeverity(t *testing.T) {
	low := validRule("low-rule")
	low.Severity = domain.SeverityLow
	crit := validRule("crit-rule")
	crit.Severity = domain.SeverityCritical

	filtered := FilterSeverity([]domain.Rule{low, crit}, domain.SeverityHigh)
	require.Len(t, filtered, 1)
	assert.Equal(t, "crit-rule", filtered[0].ID)

	assert.Len(t, FilterSeverity([]domain.Rule{low, crit}, ""), 2)
}
