package predicate

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/sec-tools/policy-atlas/pkg/models/domain"
)

// expression evaluates a CEL boolean expression over target facts.
// Variables: files (list of relative paths), file_count.
type expression struct {
	source  string
	program cel.Program
}

func buildExpression(params map[string]any) (Predicate, error) {
	source, err := stringParam(params, "expr", true)
	if err != nil {
		return nil, err
	}

	env, err := cel.NewEnv(
		cel.Variable("files", cel.ListType(cel.StringType)),
		cel.Variable("file_count", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("create cel environment: %w", err)
	}

	ast, issues := env.Compile(source)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile expression: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("expression must evaluate to bool, got %s", ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build cel program: %w", err)
	}

	return &expression{source: source, program: program}, nil
}

func (p *expression) Kind() string { return KindExpression }

func (p *expression) Evaluate(_ context.Context, target Target) (Result, error) {
	files := target.Files()
	out, _, err := p.program.Eval(map[string]any{
		"files":      files,
		"file_count": len(files),
	})
	if err != nil {
		return Result{}, fmt.Errorf("evaluate expression: %w", err)
	}

	pass, ok := out.Value().(bool)
	if !ok {
		return Result{}, fmt.Errorf("expression returned %T, want bool", out.Value())
	}

	if pass {
		return Result{Status: domain.StatusPass}, nil
	}
	return Result{
		Status: domain.StatusFail,
		Note:   fmt.Sprintf("expression %q is false", p.source),
	}, nil
}
