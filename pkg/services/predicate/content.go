package predicate

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/sec-tools/policy-atlas/pkg/models/domain"
)

const (
	modeForbid  = "forbid"
	modeRequire = "require"
)

// contentRegex scans file contents for a pattern. In forbid mode a
// match is a violation; in require mode the absence of any match is.
// Matches confined to allow-listed paths downgrade a forbid failure
// to partial.
type contentRegex struct {
	pattern *regexp.Regexp
	mode    string
	include *ignore.GitIgnore
	allow   *ignore.GitIgnore
}

func buildContentRegex(params map[string]any) (Predicate, error) {
	raw, err := stringParam(params, "pattern", true)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(raw)
	if err != nil {
		return nil, fmt.Errorf("compile pattern: %w", err)
	}

	mode, err := stringParam(params, "mode", false)
	if err != nil {
		return nil, err
	}
	if mode == "" {
		mode = modeForbid
	}
	if mode != modeForbid && mode != modeRequire {
		return nil, fmt.Errorf("mode must be %q or %q, got %q", modeForbid, modeRequire, mode)
	}

	includes, err := stringSliceParam(params, "files", false)
	if err != nil {
		return nil, err
	}
	allows, err := stringSliceParam(params, "allow", false)
	if err != nil {
		return nil, err
	}

	p := &contentRegex{pattern: re, mode: mode}
	if len(includes) > 0 {
		p.include = ignore.CompileIgnoreLines(includes...)
	}
	if len(allows) > 0 {
		p.allow = ignore.CompileIgnoreLines(allows...)
	}
	return p, nil
}

func (p *contentRegex) Kind() string { return KindContentRegex }

func (p *contentRegex) Evaluate(ctx context.Context, target Target) (Result, error) {
	var evidence []domain.Evidence
	allAllowed := true

	for _, f := range target.Files() {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if p.include != nil && !p.include.MatchesPath(f) {
			continue
		}

		content, err := target.Read(f)
		if err != nil {
			return Result{}, fmt.Errorf("read %s: %w", f, err)
		}
		if isBinary(content) {
			continue
		}

		for _, line := range matchLines(p.pattern, content) {
			evidence = append(evidence, domain.Evidence{Path: f, StartLine: line, EndLine: line})
			if p.allow == nil || !p.allow.MatchesPath(f) {
				allAllowed = false
			}
		}
	}

	if p.mode == modeRequire {
		if len(evidence) == 0 {
			return Result{Status: domain.StatusFail, Note: "required pattern not found"}, nil
		}
		return Result{Status: domain.StatusPass, Evidence: evidence}, nil
	}

	switch {
	case len(evidence) == 0:
		return Result{Status: domain.StatusPass}, nil
	case allAllowed && p.allow != nil:
		return Result{
			Status:   domain.StatusPartial,
			Evidence: evidence,
			Note:     "matches confined to allow-listed paths",
		}, nil
	default:
		return Result{
			Status:   domain.StatusFail,
			Evidence: evidence,
			Note:     fmt.Sprintf("%d forbidden match(es)", len(evidence)),
		}, nil
	}
}

// matchLines returns the 1-based line numbers containing a match.
func matchLines(re *regexp.Regexp, content []byte) []int {
	var lines []int
	for i, line := range strings.Split(string(content), "\n") {
		if re.MatchString(line) {
			lines = append(lines, i+1)
		}
	}
	return lines
}

func isBinary(content []byte) bool {
	return bytes.IndexByte(content, 0) >= 0
}
