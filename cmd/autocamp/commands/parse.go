package commands

import (
	"autocamp/lib/fasta"
	"autocamp/lib/report"
	"autocamp/lib/scrapers/camp"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse <response.html|response.txt> [--input <sequences.fasta>] [--output <out.csv>]",
	Short: "Parses a saved CAMP result page against the sequences that produced it, without contacting CAMP.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		header, err := report.ParseHeaderStyle(cfg.HeaderStyle)
		if err != nil {
			return err
		}

		records, err := fasta.Load(cfg.Input)
		if err != nil {
			return err
		}

		fh, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer fh.Close()
		text, err := camp.ReadResponse(fh)
		if err != nil {
			return err
		}

		results, err := camp.Extract(text, len(records))
		if err != nil {
			return err
		}
		rows, err := report.Join(records, results)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("output") {
			err = report.WriteCSV(cfg.Output, rows, header)
			if err != nil {
				return err
			}
			slog.Info("wrote predictions", "output", cfg.Output, "rows", len(rows))
		}
		report.RenderTable(cmd.OutOrStdout(), rows, header)
		return nil
	},
}
