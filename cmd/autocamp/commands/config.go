package commands

import (
	"autocamp/lib/archive"
	"autocamp/lib/configutil"
	"autocamp/lib/notify"
	"autocamp/lib/report"
	"autocamp/lib/scrapers/camp"
	"time"

	"github.com/spf13/cobra"
)

type Config struct {
	BaseUrl          string         `json:"base_url"`
	TimeoutSeconds   int            `json:"timeout_seconds"`
	UserAgent        string         `json:"user_agent"`
	CloudflareBypass bool           `json:"cloudflare_bypass"`
	Input            string         `json:"input"`
	Output           string         `json:"output"`
	HeaderStyle      string         `json:"header_style"`
	DumpDir          string         `json:"dump_dir"`
	Archive          archive.Config `json:"archive"`
	Notify           notify.Config  `json:"notify"`
}

var defaultConfig = Config{
	BaseUrl:        camp.DefaultBaseUrl,
	TimeoutSeconds: int(camp.DefaultTimeout / time.Second),
	UserAgent:      camp.DefaultUserAgent,
	Input:          "sample_camp_query.fasta",
	Output:         "../Output/7qry.csv",
	HeaderStyle:    string(report.HeaderLegacy),
	DumpDir:        "<dev_state>/resty/camp",
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// loadConfig reads the config file and applies the flags that were
// set explicitly on top of it.
func loadConfig(cmd *cobra.Command) (Config, error) {
	cfg, err := configutil.ReadOrDefault(flags.config, defaultConfig)
	if err != nil {
		return Config{}, err
	}

	changed := cmd.Flags().Changed
	if changed("input") {
		cfg.Input = flags.input
	}
	if changed("output") {
		cfg.Output = flags.output
	}
	if changed("header") {
		cfg.HeaderStyle = flags.header
	}
	if changed("db") {
		cfg.Archive = archive.Config{File: flags.db}
	}
	return cfg, nil
}
