package catalog

import (
	"github.com/sec-tools/policy-atlas/pkg/models/domain"
	"github.com/sec-tools/policy-atlas/pkg/services/predicate"
)

// BuiltinRules returns the default governance rule set. The checks
// cover static secrets, keyless authentication, infrastructure layout,
// RBAC scoping, logging hygiene, and baseline repository hygiene.
func BuiltinRules() []domain.Rule {
	return []domain.Rule{
		{
			ID:          "secrets-in-iac-params",
			Title:       "No static secrets in infrastructure parameters",
			Description: "Infrastructure templates must not carry API keys, account keys, or passwords as parameters or literals.",
			Severity:    domain.SeverityCritical,
			Category:    "secrets",
			Remediation: "Replace static keys with managed-identity authentication and move unavoidable secrets to a vault reference.",
			Effort:      3,
			Predicate: domain.PredicateSpec{
				Kind: predicate.KindContentRegex,
				Params: map[string]any{
					"pattern": `(?i)(api[_-]?key|account[_-]?key|shared[_-]?access[_-]?key|password)\s*[:=]\s*['"][^'"]+['"]`,
					"files":   []string{"*.bicep", "*.tf", "*.json", "*.yaml", "*.yml"},
					"allow":   []string{"testdata/", "**/testdata/"},
				},
			},
		},
		{
			ID:          "no-committed-credential-files",
			Title:       "No credential files in the repository",
			Description: "Private keys, env files, and certificate bundles must never be committed.",
			Severity:    domain.SeverityCritical,
			Category:    "secrets",
			Remediation: "Remove the files, rotate the exposed credentials, and add the patterns to .gitignore.",
			Effort:      2,
			Predicate: domain.PredicateSpec{
				Kind: predicate.KindFilePattern,
				Params: map[string]any{
					"patterns": []string{".env", "*.pem", "*.pfx", "*.p12", "id_rsa", "id_dsa"},
				},
			},
		},
		{
			ID:          "rbac-no-wildcard-actions",
			Title:       "RBAC role definitions avoid wildcard actions",
			Description: "Custom role definitions granting \"*\" actions violate least privilege.",
			Severity:    domain.SeverityCritical,
			Category:    "rbac",
			Remediation: "Enumerate the specific actions each role needs and scope assignments to the narrowest resource.",
			Effort:      3,
			Predicate: domain.PredicateSpec{
				Kind: predicate.KindContentRegex,
				Params: map[string]any{
					"pattern": `"actions"\s*:\s*\[\s*"\*"`,
					"files":   []string{"*.json", "*.bicep"},
				},
			},
		},
		{
			ID:          "keyless-auth-preferred",
			Title:       "Keyless authentication over connection strings",
			Description: "Source code should authenticate through identity-based token exchange rather than embedded connection strings or key credentials.",
			Severity:    domain.SeverityHigh,
			Category:    "auth",
			Remediation: "Adopt the platform credential chain (workload identity, managed identity) and delete connection-string plumbing.",
			Effort:      4,
			Predicate: domain.PredicateSpec{
				Kind: predicate.KindContentRegex,
				Params: map[string]any{
					"pattern": `(?i)(from_connection_string|AzureKeyCredential|SharedKeyCredential)`,
					"files":   []string{"*.go", "*.py", "*.cs", "*.ts", "*.js"},
					"allow":   []string{"testdata/", "**/testdata/"},
				},
			},
		},
		{
			ID:          "modular-infra-structure",
			Title:       "Infrastructure code is modular",
			Description: "IaC lives under infra/ with reusable modules instead of one monolithic template.",
			Severity:    domain.SeverityHigh,
			Category:    "infrastructure",
			Remediation: "Split the main template into modules (networking, identity, compute) under infra/modules/.",
			Effort:      4,
			Predicate: domain.PredicateSpec{
				Kind: predicate.KindExpression,
				Params: map[string]any{
					"expr": `files.exists(f, f.startsWith("infra/")) && files.exists(f, f.startsWith("infra/modules/"))`,
				},
			},
		},
		{
			ID:          "no-latest-image-tags",
			Title:       "Container images are pinned",
			Description: "Deployments referencing :latest are not reproducible and dodge review of upgrades.",
			Severity:    domain.SeverityMedium,
			Category:    "infrastructure",
			Remediation: "Pin images to a digest or explicit version tag.",
			Effort:      1,
			Predicate: domain.PredicateSpec{
				Kind: predicate.KindContentRegex,
				Params: map[string]any{
					"pattern": `image:\s*\S+:latest\b`,
					"files":   []string{"*.yaml", "*.yml", "Dockerfile", "*.bicep"},
				},
			},
		},
		{
			ID:          "structured-logging",
			Title:       "Application uses structured logging",
			Description: "Services should log through a structured logger, not bare prints.",
			Severity:    domain.SeverityMedium,
			Category:    "observability",
			Remediation: "Introduce a structured logging library and route all diagnostics through it.",
			Effort:      3,
			Predicate: domain.PredicateSpec{
				Kind: predicate.KindContentRegex,
				Params: map[string]any{
					"pattern": `(zerolog|zap\.|slog\.|logging\.getLogger|structlog)`,
					"files":   []string{"*.go", "*.py"},
					"mode":    "require",
				},
			},
		},
		{
			ID:          "ci-pipeline-present",
			Title:       "Continuous integration pipeline exists",
			Description: "Every repository needs an automated build/test pipeline.",
			Severity:    domain.SeverityMedium,
			Category:    "process",
			Remediation: "Add a workflow under .github/workflows/ or an azure-pipelines.yml.",
			Effort:      2,
			Predicate: domain.PredicateSpec{
				Kind: predicate.KindExpression,
				Params: map[string]any{
					"expr": `files.exists(f, f.startsWith(".github/workflows/")) || files.exists(f, f == "azure-pipelines.yml")`,
				},
			},
		},
		{
			ID:          "dependency-lockfile",
			Title:       "Dependencies are locked",
			Description: "A lockfile makes builds reproducible and audit-able.",
			Severity:    domain.SeverityMedium,
			Category:    "process",
			Remediation: "Commit the package manager's lockfile.",
			Effort:      1,
			Predicate: domain.PredicateSpec{
				Kind: predicate.KindExpression,
				Params: map[string]any{
					"expr": `files.exists(f, f in ["go.sum", "package-lock.json", "poetry.lock", "Pipfile.lock", "requirements.txt", "Cargo.lock"])`,
				},
			},
		},
		{
			ID:          "gitignore-present",
			Title:       ".gitignore exists",
			Severity:    domain.SeverityLow,
			Category:    "hygiene",
			Remediation: "Add a .gitignore covering build output and local configuration.",
			Effort:      1,
			Predicate: domain.PredicateSpec{
				Kind:   predicate.KindFilePresent,
				Params: map[string]any{"paths": []string{".gitignore"}},
			},
		},
		{
			ID:          "readme-present",
			Title:       "README exists",
			Severity:    domain.SeverityLow,
			Category:    "hygiene",
			Remediation: "Add a README describing purpose, setup, and operations.",
			Effort:      1,
			Predicate: domain.PredicateSpec{
				Kind:   predicate.KindFilePresent,
				Params: map[string]any{"paths": []string{"README*"}},
			},
		},
		{
			ID:          "license-present",
			Title:       "License file exists",
			Severity:    domain.SeverityLow,
			Category:    "hygiene",
			Remediation: "Add a LICENSE file approved for the project.",
			Effort:      1,
			Predicate: domain.PredicateSpec{
				Kind:   predicate.KindFilePresent,
				Params: map[string]any{"paths": []string{"LICENSE*"}},
			},
		},
	}
}
