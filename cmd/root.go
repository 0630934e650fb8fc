// =============================================================================
// Tabex - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every subcommand
// shares the configuration, logger and export service built here.
//
// COBRA CLI STRUCTURE:
//   rootCmd (tabex)
//   ├── exportCmd   (tabex export)
//   ├── importCmd   (tabex import)
//   ├── ledgerCmd   (tabex ledger)
//   ├── batchCmd    (tabex batch)
//   ├── formatsCmd  (tabex formats)
//   ├── profilesCmd (tabex profiles)
//   └── versionCmd  (tabex version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration (file, then TABEX_* environment)
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/tabex/internal/config"
	"github.com/ginjaninja78/tabex/internal/exporter"
	"github.com/ginjaninja78/tabex/internal/logging"
	"github.com/ginjaninja78/tabex/internal/sink"
)

// defaultConfigFile is used when --config is not given and the file exists.
const defaultConfigFile = "tabex.yaml"

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// verbose forces debug logging regardless of log_level.
var verbose bool

// Loaded by PersistentPreRunE before any subcommand runs.
var (
	appConfig *config.MainConfig
	appLog    zerolog.Logger
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "tabex",
	Short: "Tabex - export and import tabular data",
	Long: `Tabex turns tabular records into downloadable files and reads CSV files
back into records.

Export formats:
  - Quoted CSV, and an Excel-compatible CSV with a byte-order mark
  - Native .xlsx workbooks
  - A JSON envelope with export date and record count
  - An XML document with one element per record
  - A printable HTML document opened in the browser
  - Accounting journals for QuickBooks (IIF), Sage and Xero

Example Usage:
  tabex export --input loans.csv --format excel --profile loans
  tabex import clients.csv --encoding windows-1252
  tabex ledger --system quickbooks --input transactions.csv
  tabex batch --input-dir ./incoming --format json --workers 4
  tabex batch --input-dir ./incoming --archive-dir ./done --watch`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadApp()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to the main configuration file (default is ./tabex.yaml when present)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// loadApp loads the configuration and builds the logger.
func loadApp() error {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}

	cfg, err := config.LoadMainConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load main config: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	appLog = logging.New(logging.Config{Level: level, Pretty: cfg.LogPretty})
	logging.SetGlobalLogger(appLog)
	appConfig = cfg

	if path != "" {
		appLog.Debug().Str("config", path).Msg("loaded configuration")
	}
	return nil
}

// newService builds the export service for the loaded configuration:
// files go to output_dir, printable documents follow print_mode (browser
// window, HTML file or rendered PDF).
func newService() *exporter.Service {
	out := sink.NewDirSink(appConfig.OutputDir, appLog)

	var presenter sink.Presenter
	switch appConfig.PrintMode {
	case "file":
		presenter = sink.NewFilePresenter(appConfig.OutputDir, appLog)
	case "pdf":
		presenter = sink.NewPDFPresenter(out, appLog)
	default:
		presenter = sink.NewBrowserPresenter("", appLog)
	}

	return exporter.New(out, presenter, appLog, exporter.WithRawHTML(appConfig.RawHTML))
}
