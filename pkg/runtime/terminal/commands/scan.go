package commands

import (
	"context"
	"fmt"
	"io"
	"os/user"
	"time"

	"github.com/spf13/cobra"

	"github.com/sec-tools/policy-atlas/pkg/adapters"
	"github.com/sec-tools/policy-atlas/pkg/models/domain"
	"github.com/sec-tools/policy-atlas/pkg/runtime/terminal/export"
	"github.com/sec-tools/policy-atlas/pkg/services/catalog"
	"github.com/sec-tools/policy-atlas/pkg/services/config"
	"github.com/sec-tools/policy-atlas/pkg/services/scan"
	"github.com/sec-tools/policy-atlas/pkg/store/duckdb"
	duckdbscan "github.com/sec-tools/policy-atlas/pkg/store/duckdb/scan"
)

type ScanCmd struct {
	target        string
	profilesPath  string
	profile       string
	catalogs      []string
	settingsPath  string
	severityFloor string
	format        string
	save          bool
	dbPath        string

	targets scan.Registry
	output  io.Writer
}

func NewScanCmd(targets scan.Registry, output io.Writer) *cobra.Command {
	sc := &ScanCmd{targets: targets, output: output}
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Evaluate the rule catalog against a repository",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.target, "target", "", "Directory or zip archive to scan")
	cmd.Flags().StringVar(&sc.profilesPath, "profiles", defaultProfilesPath(), "Path to the profiles file")
	cmd.Flags().StringVar(&sc.profile, "profile", "", "Named profile to load scan options from")
	cmd.Flags().StringSliceVar(&sc.catalogs, "catalog", nil, "Rule catalog files (YAML); builtin rules when omitted")
	cmd.Flags().StringVar(&sc.settingsPath, "settings", "", "Settings file with weight overrides")
	cmd.Flags().StringVar(&sc.severityFloor, "severity", "", "Minimum severity to evaluate (low, medium, high, critical)")
	cmd.Flags().StringVar(&sc.format, "format", export.FormatTable, "Output format (table, json, markdown, sarif)")
	cmd.Flags().BoolVar(&sc.save, "save", false, "Persist the scan to the history database")
	cmd.Flags().StringVar(&sc.dbPath, "db", "policy-atlas.db", "Path to the history database")

	return cmd
}

func (sc *ScanCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 120*time.Second)
	defer cancel()

	if sc.profile != "" {
		if err := sc.applyProfile(ctx); err != nil {
			return err
		}
	}
	if sc.target == "" {
		return fmt.Errorf("no target given; set --target or a profile with one")
	}

	rules, settings, err := sc.loadRules()
	if err != nil {
		return err
	}
	rules = catalog.FilterSeverity(rules, domain.Severity(sc.severityFloor))

	cat, err := catalog.New(rules)
	if err != nil {
		return err
	}

	handler, err := export.For(sc.format, sc.output)
	if err != nil {
		return err
	}

	targets := sc.targets
	if settings != nil && len(settings.IgnorePatterns) > 0 {
		targets = scan.NewRegistry(settings.IgnorePatterns...)
	}

	scanner := scan.New(cat.Entries(), targets)
	report, err := scanner.Scan(ctx, sc.target)
	if err != nil {
		return err
	}

	if sc.save {
		if err := sc.persist(ctx, report); err != nil {
			return fmt.Errorf("failed to save scan: %w", err)
		}
	}

	return handler.Handle(&report)
}

// applyProfile fills in options the user did not set explicitly.
func (sc *ScanCmd) applyProfile(ctx context.Context) error {
	registry, err := config.NewRegistry(sc.profilesPath)
	if err != nil {
		return fmt.Errorf("failed to load profiles from %s: %w", sc.profilesPath, err)
	}
	profile, err := registry.GetProfile(ctx, sc.profile)
	if err != nil {
		return err
	}

	if sc.target == "" {
		sc.target = profile.Target
	}
	if len(sc.catalogs) == 0 {
		sc.catalogs = profile.Catalogs
	}
	if sc.severityFloor == "" {
		sc.severityFloor = string(profile.SeverityFloor)
	}
	if sc.format == export.FormatTable && profile.Format != "" {
		sc.format = profile.Format
	}
	return nil
}

func (sc *ScanCmd) loadRules() ([]domain.Rule, *config.Settings, error) {
	rules := catalog.BuiltinRules()
	if len(sc.catalogs) > 0 {
		var err error
		rules, err = catalog.LoadFiles(sc.catalogs...)
		if err != nil {
			return nil, nil, err
		}
	}

	var settings *config.Settings
	if sc.settingsPath != "" {
		var err error
		settings, err = config.LoadSettings(sc.settingsPath)
		if err != nil {
			return nil, nil, err
		}
		rules = settings.ApplyWeights(rules)
	}
	return rules, settings, nil
}

func (sc *ScanCmd) persist(ctx context.Context, report domain.ScanReport) error {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: sc.dbPath})
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := duckdbscan.NewStore(db)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	rec, findings := adapters.MapScanReportDomainToStore(report)
	if err := store.Add(duckdb.WithTransaction(ctx, tx), rec, findings); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func defaultProfilesPath() string {
	usr, err := user.Current()
	if err != nil {
		return ".policy-atlas.ini"
	}
	return fmt.Sprintf("%s/.policy-atlas.ini", usr.HomeDir)
}
