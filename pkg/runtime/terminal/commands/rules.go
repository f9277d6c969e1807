package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sec-tools/policy-atlas/pkg/adapters"
	"github.com/sec-tools/policy-atlas/pkg/models/api"
	"github.com/sec-tools/policy-atlas/pkg/models/domain"
	"github.com/sec-tools/policy-atlas/pkg/services/catalog"
)

type RulesCmd struct {
	catalogs      []string
	severityFloor string
	asJson        bool

	output io.Writer
}

func NewRulesCmd(output io.Writer) *cobra.Command {
	rc := &RulesCmd{output: output}
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rules a scan would evaluate",
		RunE:  rc.run,
	}

	cmd.Flags().StringSliceVar(&rc.catalogs, "catalog", nil, "Rule catalog files (YAML); builtin rules when omitted")
	cmd.Flags().StringVar(&rc.severityFloor, "severity", "", "Minimum severity to list")
	cmd.Flags().BoolVar(&rc.asJson, "json", false, "Emit JSON instead of a table")

	return cmd
}

func (rc *RulesCmd) run(cmd *cobra.Command, args []string) error {
	rules := catalog.BuiltinRules()
	if len(rc.catalogs) > 0 {
		var err error
		rules, err = catalog.LoadFiles(rc.catalogs...)
		if err != nil {
			return err
		}
	}
	rules = catalog.FilterSeverity(rules, domain.Severity(rc.severityFloor))

	// Validate and compile even for a listing so broken catalogs
	// surface here instead of at scan time.
	cat, err := catalog.New(rules)
	if err != nil {
		return err
	}

	if rc.asJson {
		out := make([]api.Rule, 0, cat.Len())
		for _, r := range cat.Rules() {
			out = append(out, adapters.MapRuleDomainToApi(r))
		}
		enc := json.NewEncoder(rc.output)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, r := range cat.Rules() {
		fmt.Fprintf(rc.output, "%-34s %-9s %s\n", r.ID, r.Severity, r.Title)
	}
	return nil
}
