// =============================================================================
// Tabex - Batch Command
// =============================================================================
//
// This file defines the 'batch' command, which exports every input file in a
// directory.
//
// COMMAND USAGE:
//   tabex batch --input-dir DIR [flags]
//
// FLAGS:
//   --input-dir    : Directory scanned recursively for .csv, .xlsx and .json
//   --format, -f   : Export format for every file (default csv)
//   --archive-dir  : Move each successfully exported input here
//   --workers      : Files converted concurrently (default: CPU count)
//   --dry-run      : List the planned jobs without exporting
//   --watch        : After the initial pass, keep converting files dropped
//                    into the input directory until interrupted
//   --debounce     : Quiet period before a watched file is converted
//
// PROCESSING PIPELINE:
//   1. Discover input files and match each to a profile (profile match: globs)
//   2. Convert files concurrently (see internal/converter)
//   3. Print a summary and write an error log for failed files
//
// Errors in one file do not stop the others.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/tabex/internal/converter"
	"github.com/ginjaninja78/tabex/internal/exporter"
	"github.com/ginjaninja78/tabex/pkg/utils"
)

var (
	batchInputDir   string
	batchFormat     string
	batchArchiveDir string
	batchWorkers    int
	batchDryRun     bool
	batchWatch      bool
	batchDebounce   time.Duration
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Export every input file in a directory",
	Long: `The batch command scans a directory for CSV, .xlsx and JSON files and
exports each one in the chosen format.

Each file is exported with the first profile (alphabetically) whose match
patterns accept its file name, or with its own headers when none does.
Ledger formats (quickbooks, sage, xero) read every file as transactions.

With --watch the command keeps running after the initial pass and converts
each file written into the top level of the input directory once it has been
quiet for the debounce period. Use --archive-dir so converted files are moved
out of the way.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchInputDir, "input-dir", "", "Directory holding the input files")
	batchCmd.Flags().StringVarP(&batchFormat, "format", "f", exporter.FormatCSV, "Export format for every file")
	batchCmd.Flags().StringVar(&batchArchiveDir, "archive-dir", "", "Move exported inputs into this directory")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", runtime.NumCPU(), "Number of files converted concurrently")
	batchCmd.Flags().BoolVar(&batchDryRun, "dry-run", false, "List planned jobs without exporting")
	batchCmd.Flags().BoolVar(&batchWatch, "watch", false, "Keep converting new files until interrupted")
	batchCmd.Flags().DurationVar(&batchDebounce, "debounce", converter.DefaultDebounce, "Quiet period before a watched file is converted")
	_ = batchCmd.MarkFlagRequired("input-dir")
}

func runBatch(cmd *cobra.Command) error {
	startTime := time.Now()
	out := cmd.OutOrStdout()

	if _, err := exporter.LookupFormat(batchFormat); err != nil {
		return err
	}

	// =========================================================================
	// STEP 1: DISCOVER INPUT FILES
	// =========================================================================

	jobs, err := converter.DiscoverJobs(batchInputDir, batchFormat, appConfig, batchArchiveDir)
	if err != nil {
		return fmt.Errorf("failed to discover input files: %w", err)
	}
	if len(jobs) == 0 && !batchWatch {
		fmt.Fprintln(out, "No input files found.")
		return nil
	}

	fmt.Fprintf(out, "Found %d file(s) to process\n", len(jobs))

	if batchDryRun {
		for _, job := range jobs {
			profile := job.Profile
			if profile == "" {
				profile = "(headers)"
			}
			fmt.Fprintf(out, "  %s -> %s, profile %s\n", job.InputPath, job.Format, profile)
		}
		return nil
	}

	// =========================================================================
	// STEP 2: PROCESS FILES CONCURRENTLY
	// =========================================================================

	conv := converter.New(newService(), appConfig, batchArchiveDir, appLog)
	results := conv.RunAll(cmd.Context(), jobs, batchWorkers)

	if batchWatch {
		for _, result := range results {
			printResult(out, result)
		}
		fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", batchInputDir)
		return conv.Watch(cmd.Context(), batchInputDir, batchFormat, batchDebounce, func(result converter.Result) {
			printResult(out, result)
			if entries := errorLogEntries(result); len(entries) > 0 {
				if _, err := utils.WriteErrorLog(entries, appConfig.OutputDir, time.Now()); err != nil {
					appLog.Error().Err(err).Msg("failed to write error log")
				}
			}
		})
	}

	// =========================================================================
	// STEP 3: SUMMARY
	// =========================================================================

	var successCount, errorCount int
	var entries []utils.ErrorLogEntry

	for _, result := range results {
		entries = append(entries, errorLogEntries(result)...)
		printResult(out, result)
		if result.Success {
			successCount++
		} else {
			errorCount++
		}
	}

	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Total files:     %d\n", len(jobs))
	fmt.Fprintf(out, "Successful:      %d\n", successCount)
	fmt.Fprintf(out, "Errors:          %d\n", errorCount)
	fmt.Fprintf(out, "Time elapsed:    %s\n", time.Since(startTime).Round(time.Millisecond))

	if len(entries) > 0 {
		logPath, err := utils.WriteErrorLog(entries, appConfig.OutputDir, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nErrors have been logged to %s\n", logPath)
	}

	if errorCount > 0 {
		return fmt.Errorf("%d of %d file(s) failed", errorCount, len(jobs))
	}
	return nil
}

func printResult(out io.Writer, result converter.Result) {
	name := filepath.Base(result.FilePath)
	if result.Success {
		fmt.Fprintf(out, "  ✓ %s -> %s\n", name, result.OutputFile)
		return
	}
	fmt.Fprintf(out, "  ✗ %s: %v\n", name, result.Error)
}

// errorLogEntries lists the row diagnostics of result, then its error.
func errorLogEntries(result converter.Result) []utils.ErrorLogEntry {
	name := filepath.Base(result.FilePath)
	var entries []utils.ErrorLogEntry
	for _, msg := range result.Diagnostics {
		entries = append(entries, utils.ErrorLogEntry{FileName: name, ErrorMessage: msg})
	}
	if !result.Success && result.Error != nil {
		entries = append(entries, utils.ErrorLogEntry{FileName: name, ErrorMessage: result.Error.Error()})
	}
	return entries
}
