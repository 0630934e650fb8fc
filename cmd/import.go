// =============================================================================
// Tabex - Import Command
// =============================================================================
//
// COMMAND USAGE:
//   tabex import FILE [flags]
//
// Decodes a CSV (or .xlsx / JSON) file and writes the records as a JSON export
// envelope into the output directory. Rows that could not be parsed are
// listed in an error_log_<timestamp>.txt next to it.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/tabex/internal/table"
	"github.com/ginjaninja78/tabex/pkg/utils"
)

var (
	importEncoding string
	importOutput   string
	importDryRun   bool
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Decode a CSV file into records",
	Long: `The import command decodes a CSV file with a header row into records.

Quoted fields may contain commas, escaped quotes ("") and line breaks. A
leading byte-order mark is ignored. Rows that cannot be parsed are skipped and
reported; the import only fails when the file has no header and data row.

Use --encoding for files that are not UTF-8 (e.g. windows-1252, iso-8859-1,
utf-16le).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVarP(&importEncoding, "encoding", "e", "", "Source encoding (default: input_encoding from config)")
	importCmd.Flags().StringVarP(&importOutput, "output", "o", "", "Base name of the JSON file (default: input name)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Decode and report without writing files")
}

func runImport(cmd *cobra.Command, path string) error {
	encoding := importEncoding
	if encoding == "" {
		encoding = appConfig.InputEncoding
	}

	svc := newService()
	result, err := svc.ImportFile(path, encoding)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Rows:    %d\n", result.RowCount)
	fmt.Fprintf(out, "Columns: %s\n", strings.Join(result.Headers, ", "))
	fmt.Fprintf(out, "Errors:  %d\n", len(result.Errors))

	if importDryRun {
		return nil
	}

	if len(result.Errors) > 0 {
		entries := make([]utils.ErrorLogEntry, len(result.Errors))
		for i, msg := range result.Errors {
			entries[i] = utils.ErrorLogEntry{FileName: filepath.Base(path), ErrorMessage: msg}
		}
		logPath, err := utils.WriteErrorLog(entries, appConfig.OutputDir, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Error log: %s\n", logPath)
	}

	if !result.Success {
		return fmt.Errorf("import of %s failed", path)
	}

	name := importOutput
	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	req := table.NewExportRequest(name, table.ColumnsFromHeaders(result.Headers), result.Data)
	req.IncludeTimestamp = appConfig.Timestamped()

	exported, err := svc.ExportJSON(cmd.Context(), req)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Records: %s\n", filepath.Join(appConfig.OutputDir, exported.Filename))
	return nil
}
