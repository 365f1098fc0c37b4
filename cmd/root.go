package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/churneda-cli/internal/config"
	"github.com/KaramelBytes/churneda-cli/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	logFormat string

	// Loaded configuration
	cfg *cfgpkg.Global
	// loadErr is reported by commands that need a configuration
	loadErr error
)

var rootCmd = &cobra.Command{
	Use:   "churneda",
	Short: "Churn EDA: clean a customer dataset and write findings",
	Long: `churneda loads a tabular customer-churn dataset (CSV, TSV or XLSX), cleans it,
summarizes data quality, renders exploratory figures and writes a markdown findings report.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.churneda/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json (overrides config)")
}

func loadConfig() {
	cfg, loadErr = cfgpkg.Load(cfgFile)
}

// requireConfig returns the loaded configuration or the error that prevented loading it.
func requireConfig() (*cfgpkg.Global, error) {
	if loadErr != nil {
		return nil, fmt.Errorf("load config: %w", loadErr)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config loaded")
	}
	return cfg, nil
}

// newLogger builds the run logger from config and the global flags.
func newLogger(w io.Writer) (*slog.Logger, error) {
	level, format := "info", "text"
	if cfg != nil {
		level, format = cfg.LogLevel, cfg.LogFormat
	}
	if debug {
		level = "debug"
	}
	if logFormat != "" {
		format = logFormat
	}
	return logging.New(w, level, format)
}
