package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sec-tools/policy-atlas/pkg/store/duckdb"
	duckdbscan "github.com/sec-tools/policy-atlas/pkg/store/duckdb/scan"
)

type HistoryCmd struct {
	dbPath string
	limit  int

	output io.Writer
}

func NewHistoryCmd(output io.Writer) *cobra.Command {
	hc := &HistoryCmd{output: output}
	cmd := &cobra.Command{
		Use:   "history [scan-id]",
		Short: "List saved scans, or show one scan's findings",
		Args:  cobra.MaximumNArgs(1),
		RunE:  hc.run,
	}

	cmd.Flags().StringVar(&hc.dbPath, "db", "policy-atlas.db", "Path to the history database")
	cmd.Flags().IntVar(&hc.limit, "limit", 20, "Maximum number of scans to list")

	return cmd
}

func (hc *HistoryCmd) run(cmd *cobra.Command, args []string) error {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: hc.dbPath})
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	store, err := duckdbscan.NewStore(db)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		return hc.show(cmd.Context(), store, args[0])
	}
	return hc.list(cmd.Context(), store)
}

func (hc *HistoryCmd) list(ctx context.Context, store duckdbscan.Store) error {
	records, err := store.List(ctx, hc.limit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(hc.output, "No saved scans.")
		return nil
	}

	fmt.Fprintf(hc.output, "%-38s %-20s %-7s %-10s %s\n", "ID", "Started", "Score", "Grade", "Target")
	for _, rec := range records {
		fmt.Fprintf(hc.output, "%-38s %-20s %6.1f%% %-10s %s\n",
			rec.ID, rec.StartedAt.Format("2006-01-02 15:04:05"), rec.Score, rec.Grade, rec.Target)
	}
	return nil
}

func (hc *HistoryCmd) show(ctx context.Context, store duckdbscan.Store, id string) error {
	rec, findings, err := store.Get(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(hc.output, "Scan %s\n", rec.ID)
	fmt.Fprintf(hc.output, "Target: %s\n", rec.Target)
	fmt.Fprintf(hc.output, "Started: %s (%dms)\n", rec.StartedAt.Format("2006-01-02 15:04:05"), rec.DurationMs)
	fmt.Fprintf(hc.output, "Score: %.1f%% (%s)\n\n", rec.Score, rec.Grade)

	for _, f := range findings {
		fmt.Fprintf(hc.output, "%-34s %-9s %-8s %s\n", f.RuleID, f.Severity, f.Status, f.Note)
		for _, e := range f.Evidence {
			if e.StartLine > 0 {
				fmt.Fprintf(hc.output, "  %s:%d\n", e.Path, e.StartLine)
			} else {
				fmt.Fprintf(hc.output, "  %s\n", e.Path)
			}
		}
	}
	return nil
}
