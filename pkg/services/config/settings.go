package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/sec-tools/policy-atlas/pkg/models/domain"
)

// Settings tunes scanning and scoring without touching rule catalogs.
type Settings struct {
	// SeverityWeights overrides the default per-severity weights.
	SeverityWeights map[string]float64 `mapstructure:"severity_weights"`
	// RuleWeights overrides the weight of individual rules by id.
	RuleWeights map[string]float64 `mapstructure:"rule_weights"`
	// IgnorePatterns extends the walker's ignore list.
	IgnorePatterns []string `mapstructure:"ignore_patterns"`
}

func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	for sev := range settings.SeverityWeights {
		if !domain.Severity(sev).IsValid() {
			return nil, fmt.Errorf("unknown severity %q in severity_weights", sev)
		}
	}
	return &settings, nil
}

// ApplyWeights stamps configured weight overrides onto rules, most
// specific wins: rule override > severity override > rule default.
func (s *Settings) ApplyWeights(rules []domain.Rule) []domain.Rule {
	out := make([]domain.Rule, len(rules))
	copy(out, rules)
	for i := range out {
		if w, ok := s.SeverityWeights[string(out[i].Severity)]; ok {
			out[i].Weight = w
		}
		if w, ok := s.RuleWeights[out[i].ID]; ok {
			out[i].Weight = w
		}
	}
	return out
}
