package commands

import (
	"autocamp/lib/archive"
	"autocamp/lib/report"
	"autocamp/lib/restyutil"
	"autocamp/lib/scrapers/camp"
	"autocamp/lib/telemetry"
	"autocamp/services/predict"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var flags struct {
	config  string
	input   string
	output  string
	header  string
	db      string
	dump    bool
	table   bool
	verbose bool
	notify  bool
}

var tel telemetry.Telemetry

func init() {
	persistent := rootCmd.PersistentFlags()
	persistent.StringVar(&flags.config, "config", "autocamp.json5", "The config file to read, autocamp.local.json5 overrides it.")
	persistent.StringVar(&flags.input, "input", defaultConfig.Input, "The FASTA file with the sequences to predict.")
	persistent.StringVar(&flags.output, "output", defaultConfig.Output, "The CSV file to write predictions to.")
	persistent.StringVar(&flags.header, "header", defaultConfig.HeaderStyle, "The CSV header style, legacy or ann.")
	persistent.StringVar(&flags.db, "db", "", "The sqlite file runs are archived to.")
	persistent.BoolVar(&flags.table, "table", false, "Print the predictions as a table.")
	persistent.BoolVarP(&flags.verbose, "verbose", "v", false, "Log debug messages.")

	rootCmd.Flags().BoolVar(&flags.dump, "dump", false, "Write every http exchange to the dump directory.")
	rootCmd.Flags().BoolVar(&flags.notify, "notify", false, "Email the predictions to the configured recipients.")
}

var rootCmd = &cobra.Command{
	Use:           "autocamp",
	Short:         "autocamp submits protein sequences to CAMP and collects its antimicrobial predictions.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(flags.verbose)

		var err error
		tel, err = telemetry.SetupFromEnv(cmd.Context(), "autocamp")
		if err != nil {
			slog.Warn("failed to set up telemetry, continuing without it", "err", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return errors.Wrap(err, "read config")
		}
		header, err := report.ParseHeaderStyle(cfg.HeaderStyle)
		if err != nil {
			return err
		}
		open, err := clientOpener(cfg)
		if err != nil {
			return err
		}

		store, closeStore, err := openArchive(ctx, cfg.Archive)
		if err != nil {
			return err
		}
		defer closeStore()

		options := predict.Options{
			Archive: store,
			BaseUrl: cfg.BaseUrl,
		}
		if flags.table {
			options.Table = cmd.OutOrStdout()
		}
		if flags.notify {
			if !cfg.Notify.Enabled() {
				return errors.New("--notify needs notify.smtp.server and notify.to to be configured")
			}
			options.Notify = cfg.Notify
		}

		t1 := time.Now()
		result, err := predict.NewService(open, options).Run(ctx, predict.Request{
			Input:  cfg.Input,
			Output: cfg.Output,
			Header: header,
		})
		if err != nil {
			return err
		}
		slog.Info(
			"prediction finished",
			"output", cfg.Output,
			"rows", len(result.Rows),
			"seconds", time.Since(t1).Seconds(),
		)
		return nil
	},
}

func clientOpener(cfg Config) (predict.Opener, error) {
	opts := camp.ClientOptions{
		BaseUrl:          cfg.BaseUrl,
		Timeout:          cfg.Timeout(),
		UserAgent:        cfg.UserAgent,
		CloudflareBypass: cfg.CloudflareBypass,
	}
	if flags.dump {
		out, err := restyutil.NewDirOutput(cfg.DumpDir)
		if err != nil {
			return nil, errors.Wrap(err, "create dump directory")
		}
		slog.Info("dumping http exchanges", "dir", out.Dir())
		opts.Dump = out
	}

	return func(ctx context.Context) (predict.Session, error) {
		client, err := camp.NewClient(ctx, opts)
		if err != nil {
			return nil, err
		}
		return client, nil
	}, nil
}

// openArchive returns a nil store when archiving is not configured.
func openArchive(ctx context.Context, cfg archive.Config) (*archive.Store, func(), error) {
	if !cfg.Enabled() {
		return nil, func() {}, nil
	}
	db, err := cfg.OpenDB()
	if err != nil {
		return nil, nil, errors.Wrap(err, "open archive")
	}
	store, err := archive.NewStore(ctx, db)
	if err != nil {
		db.Close()
		return nil, nil, errors.Wrap(err, "open archive")
	}
	return &store, func() { db.Close() }, nil
}

func ExecuteContext(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	if shutdownErr := tel.Shutdown(shutdownCtx); shutdownErr != nil {
		slog.Warn("failed to flush telemetry", "err", shutdownErr)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
