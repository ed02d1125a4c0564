package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/examtools/examdump-cli/internal/model"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List past extraction runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		ledger := openLedger(ctx)
		if ledger == nil {
			return eris.New("runs: ledger unavailable")
		}
		defer ledger.Close() //nolint:errcheck

		runs, err := ledger.List(ctx, runsLimit)
		if err != nil {
			return eris.Wrap(err, "runs")
		}
		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRuns(os.Stdout, runs)
		return nil
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "max runs to list (0 = all)")
	rootCmd.AddCommand(runsCmd)
}

func formatRuns(w io.Writer, runs []model.Run) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tSTARTED\tDURATION\tQUESTIONS\tWARNINGS\tINPUT")
	for _, r := range runs {
		duration := "-"
		if r.CompletedAt != nil {
			duration = r.CompletedAt.Sub(r.StartedAt).Round(time.Second).String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			r.ID,
			r.Status,
			r.StartedAt.Format(time.RFC3339),
			duration,
			r.Stats.Questions,
			r.Stats.Warnings,
			r.InputDir,
		)
	}
	tw.Flush() //nolint:errcheck
}
