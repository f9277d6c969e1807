package predicate

import (
	"context"
	"fmt"

	"github.com/sec-tools/policy-atlas/pkg/models/domain"
)

// Target is a read-only snapshot of the repository under evaluation.
// Rules are independent and never mutate the target, so a single
// snapshot is shared by every predicate in a scan.
type Target interface {
	// Ref identifies the target (path or archive name).
	Ref() string
	// Files returns all relative file paths, sorted, using forward slashes.
	Files() []string
	// Read returns the contents of one file by its relative path.
	Read(path string) ([]byte, error)
}

// Result is the raw outcome of one predicate evaluation. The scanner
// wraps it into a domain.Finding.
type Result struct {
	Status   domain.Status
	Evidence []domain.Evidence
	Note     string
}

// Predicate is one kind of detection logic. Evaluation errors degrade
// the rule's finding to unknown; they never abort the scan.
type Predicate interface {
	Kind() string
	Evaluate(ctx context.Context, target Target) (Result, error)
}

const (
	KindFilePresent  = "file_present"
	KindFilePattern  = "file_pattern"
	KindContentRegex = "content_regex"
	KindExpression   = "expression"
)

// Build compiles a predicate spec into an executable predicate.
// All parameter validation happens here so that malformed rules fail
// at catalog build time, not mid-scan.
func Build(spec domain.PredicateSpec) (Predicate, error) {
	switch spec.Kind {
	case KindFilePresent:
		return buildFilePresent(spec.Params)
	case KindFilePattern:
		return buildFilePattern(spec.Params)
	case KindContentRegex:
		return buildContentRegex(spec.Params)
	case KindExpression:
		return buildExpression(spec.Params)
	default:
		return nil, fmt.Errorf("unknown predicate kind %q", spec.Kind)
	}
}

func stringParam(params map[string]any, key string, required bool) (string, error) {
	raw, ok := params[key]
	if !ok {
		if required {
			return "", fmt.Errorf("missing %q parameter", key)
		}
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%q parameter must be a string", key)
	}
	return s, nil
}

func stringSliceParam(params map[string]any, key string, required bool) ([]string, error) {
	raw, ok := params[key]
	if !ok {
		if required {
			return nil, fmt.Errorf("missing %q parameter", key)
		}
		return nil, nil
	}

	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%q parameter must be a list of strings", key)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%q parameter must be a list of strings", key)
	}
}
