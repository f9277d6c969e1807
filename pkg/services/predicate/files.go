package predicate

import (
	"context"
	"fmt"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/sec-tools/policy-atlas/pkg/models/domain"
)

// filePresent requires a set of path patterns to exist in the target.
// All patterns matched -> pass, some -> partial, none -> fail.
type filePresent struct {
	patterns []string
	matchers []*ignore.GitIgnore
}

func buildFilePresent(params map[string]any) (Predicate, error) {
	patterns, err := stringSliceParam(params, "paths", true)
	if err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("%q parameter must not be empty", "paths")
	}

	matchers := make([]*ignore.GitIgnore, 0, len(patterns))
	for _, p := range patterns {
		if strings.TrimSpace(p) == "" {
			return nil, fmt.Errorf("blank path pattern")
		}
		matchers = append(matchers, ignore.CompileIgnoreLines(p))
	}

	return &filePresent{patterns: patterns, matchers: matchers}, nil
}

func (p *filePresent) Kind() string { return KindFilePresent }

func (p *filePresent) Evaluate(_ context.Context, target Target) (Result, error) {
	files := target.Files()

	var missing []string
	var evidence []domain.Evidence
	for i, pattern := range p.patterns {
		found := ""
		for _, f := range files {
			if p.matchers[i].MatchesPath(f) {
				found = f
				break
			}
		}
		if found == "" {
			missing = append(missing, pattern)
			continue
		}
		evidence = append(evidence, domain.Evidence{Path: found})
	}

	switch {
	case len(missing) == 0:
		return Result{Status: domain.StatusPass, Evidence: evidence}, nil
	case len(missing) == len(p.patterns):
		return Result{
			Status: domain.StatusFail,
			Note:   fmt.Sprintf("missing: %s", strings.Join(missing, ", ")),
		}, nil
	default:
		return Result{
			Status:   domain.StatusPartial,
			Evidence: evidence,
			Note:     fmt.Sprintf("missing: %s", strings.Join(missing, ", ")),
		}, nil
	}
}

// filePattern forbids paths matching any of its patterns.
type filePattern struct {
	patterns []string
	matcher  *ignore.GitIgnore
}

func buildFilePattern(params map[string]any) (Predicate, error) {
	patterns, err := stringSliceParam(params, "patterns", true)
	if err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		return nil, fmt.Errorf("%q parameter must not be empty", "patterns")
	}
	for _, p := range patterns {
		if strings.TrimSpace(p) == "" {
			return nil, fmt.Errorf("blank forbidden pattern")
		}
	}

	return &filePattern{
		patterns: patterns,
		matcher:  ignore.CompileIgnoreLines(patterns...),
	}, nil
}

func (p *filePattern) Kind() string { return KindFilePattern }

func (p *filePattern) Evaluate(_ context.Context, target Target) (Result, error) {
	var evidence []domain.Evidence
	for _, f := range target.Files() {
		if p.matcher.MatchesPath(f) {
			evidence = append(evidence, domain.Evidence{Path: f})
		}
	}

	if len(evidence) > 0 {
		return Result{
			Status:   domain.StatusFail,
			Evidence: evidence,
			Note:     fmt.Sprintf("%d forbidden path(s) present", len(evidence)),
		}, nil
	}
	return Result{Status: domain.StatusPass}, nil
}
