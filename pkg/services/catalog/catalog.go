package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sec-tools/policy-atlas/pkg/models/domain"
	"github.com/sec-tools/policy-atlas/pkg/services/predicate"
)

// Entry pairs a rule with its compiled predicate.
type Entry struct {
	Rule      domain.Rule
	Predicate predicate.Predicate
}

// Catalog is the ordered, immutable set of checks a scan evaluates.
// Catalog order is significant: findings come out in the same order.
type Catalog struct {
	entries []Entry
}

// New validates the rules and compiles their predicates. Any malformed
// rule fails the whole build with domain.ErrInvalidRule; nothing is
// silently defaulted.
func New(rules []domain.Rule) (*Catalog, error) {
	seen := make(map[string]struct{}, len(rules))
	entries := make([]Entry, 0, len(rules))

	for _, rule := range rules {
		if err := validate(rule); err != nil {
			return nil, err
		}
		if _, dup := seen[rule.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate rule id %q", domain.ErrInvalidRule, rule.ID)
		}
		seen[rule.ID] = struct{}{}

		pred, err := predicate.Build(rule.Predicate)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %q: %v", domain.ErrInvalidRule, rule.ID, err)
		}
		entries = append(entries, Entry{Rule: rule, Predicate: pred})
	}

	return &Catalog{entries: entries}, nil
}

// Default builds the catalog of builtin rules.
func Default() (*Catalog, error) {
	return New(BuiltinRules())
}

func validate(rule domain.Rule) error {
	if rule.ID == "" {
		return fmt.Errorf("%w: missing rule id", domain.ErrInvalidRule)
	}
	if rule.Title == "" {
		return fmt.Errorf("%w: rule %q: missing title", domain.ErrInvalidRule, rule.ID)
	}
	if !rule.Severity.IsValid() {
		return fmt.Errorf("%w: rule %q: unknown severity %q", domain.ErrInvalidRule, rule.ID, rule.Severity)
	}
	if rule.Weight < 0 {
		return fmt.Errorf("%w: rule %q: negative weight", domain.ErrInvalidRule, rule.ID)
	}
	if rule.Predicate.Kind == "" {
		return fmt.Errorf("%w: rule %q: missing predicate kind", domain.ErrInvalidRule, rule.ID)
	}
	return nil
}

func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Catalog) Rules() []domain.Rule {
	out := make([]domain.Rule, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.Rule)
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

type yamlRule struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Severity    string         `yaml:"severity"`
	Category    string         `yaml:"category"`
	Remediation string         `yaml:"remediation"`
	Effort      int            `yaml:"effort"`
	Weight      float64        `yaml:"weight"`
	Predicate   map[string]any `yaml:"predicate"`
}

type yamlCatalog struct {
	Rules []yamlRule `yaml:"rules"`
}

// LoadFiles parses rule definitions from YAML catalog files, in order.
// Validation happens later in New; this only fails on unreadable or
// structurally broken files.
func LoadFiles(paths ...string) ([]domain.Rule, error) {
	var rules []domain.Rule
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}

		var doc yamlCatalog
		if err := yaml.Unmarshal(content, &doc); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}

		for _, yr := range doc.Rules {
			rules = append(rules, mapYamlRule(yr))
		}
	}
	return rules, nil
}

func mapYamlRule(yr yamlRule) domain.Rule {
	spec := domain.PredicateSpec{Params: map[string]any{}}
	for k, v := range yr.Predicate {
		if k == "kind" {
			if kind, ok := v.(string); ok {
				spec.Kind = kind
			}
			continue
		}
		spec.Params[k] = v
	}

	return domain.Rule{
		ID:          yr.ID,
		Title:       yr.Title,
		Description: yr.Description,
		Severity:    domain.Severity(yr.Severity),
		Category:    yr.Category,
		Remediation: yr.Remediation,
		Effort:      yr.Effort,
		Weight:      yr.Weight,
		Predicate:   spec,
	}
}

// FilterSeverity drops rules below the given severity floor.
func FilterSeverity(rules []domain.Rule, floor domain.Severity) []domain.Rule {
	if floor == "" {
		return rules
	}
	out := make([]domain.Rule, 0, len(rules))
	for _, r := range rules {
		if r.Severity.Rank() >= floor.Rank() {
			out = append(out, r)
		}
	}
	return out
}
