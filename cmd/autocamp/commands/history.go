package commands

import (
	"autocamp/lib/report"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var historyLimit int

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "The maximum number of runs to list.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [run id]",
	Short: "Lists archived runs, or the predictions of one run when given its id.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if !cfg.Archive.Enabled() {
			return errors.New("no archive configured, set archive.file or archive.url or pass --db")
		}
		store, closeStore, err := openArchive(ctx, cfg.Archive)
		if err != nil {
			return err
		}
		defer closeStore()

		if len(args) == 1 {
			header, err := report.ParseHeaderStyle(cfg.HeaderStyle)
			if err != nil {
				return err
			}
			rows, err := store.Rows(ctx, args[0])
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return errors.Errorf("run %q has no predictions", args[0])
			}
			report.RenderTable(cmd.OutOrStdout(), rows, header)
			return nil
		}

		runs, err := store.ListRuns(ctx, historyLimit)
		if err != nil {
			return err
		}

		t := report.NewTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Run", "Started", "Seconds", "Sequences", "Input", "Output", "Site"})
		for _, run := range runs {
			t.AppendRow(table.Row{
				run.ID,
				run.StartedAt.Format(time.DateTime),
				int(run.FinishedAt.Sub(run.StartedAt).Seconds()),
				run.Count,
				run.Input,
				run.Output,
				run.BaseUrl,
			})
		}
		t.Render()
		return nil
	},
}
