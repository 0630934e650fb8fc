// =============================================================================
// Tabex - Export Command
// =============================================================================
//
// COMMAND USAGE:
//   tabex export --input FILE [flags]
//
// FLAGS:
//   --input, -i     : CSV, .xlsx or JSON file holding the records (required)
//   --format, -f    : csv, excel, xlsx, json, xml or print (default csv)
//   --profile, -p   : Export profile supplying columns, formatters and title
//   --output, -o    : Base file name (default: profile filename or input name)
//   --title         : Title line (Excel CSV, workbook and printable document)
//   --subtitle      : Subtitle line
//   --no-timestamp  : Do not append _YYYY-MM-DD to the file name
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/tabex/internal/exporter"
	"github.com/ginjaninja78/tabex/internal/table"
)

type exportOptions struct {
	input       string
	format      string
	profile     string
	output      string
	title       string
	subtitle    string
	noTimestamp bool
}

var exportOpts exportOptions

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export records to CSV, Excel, JSON, XML or a printable document",
	Long: `The export command reads records from an input file and writes them in the
chosen format to the output directory.

Without --profile every input column is exported under its own header. With a
profile the columns, headers and formatters come from the configuration.

The print format opens the document in the default browser (print_mode:
browser), writes print_<id>.html into the output directory (print_mode: file)
or renders print_<id>.pdf there with headless Chrome (print_mode: pdf). A
browser that cannot be started is reported, not treated as an error.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd, exportOpts)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOpts.input, "input", "i", "", "Input file (CSV, .xlsx or JSON)")
	exportCmd.Flags().StringVarP(&exportOpts.format, "format", "f", exporter.FormatCSV, "Export format: csv, excel, xlsx, json, xml, print")
	exportCmd.Flags().StringVarP(&exportOpts.profile, "profile", "p", "", "Export profile name")
	exportCmd.Flags().StringVarP(&exportOpts.output, "output", "o", "", "Base output file name without extension")
	exportCmd.Flags().StringVar(&exportOpts.title, "title", "", "Title line")
	exportCmd.Flags().StringVar(&exportOpts.subtitle, "subtitle", "", "Subtitle line")
	exportCmd.Flags().BoolVar(&exportOpts.noTimestamp, "no-timestamp", false, "Do not append the date to the file name")
	_ = exportCmd.MarkFlagRequired("input")
}

func runExport(cmd *cobra.Command, opts exportOptions) error {
	format, err := exporter.LookupFormat(opts.format)
	if err != nil {
		return err
	}
	if format.Ledger {
		return fmt.Errorf("%s is an accounting format, use: tabex ledger --system %s", format.Name, format.Name)
	}

	svc := newService()

	imported, err := svc.ImportFile(opts.input, appConfig.InputEncoding)
	if err != nil {
		return err
	}
	if !imported.Success {
		return fmt.Errorf("no records in %s: %s", opts.input, strings.Join(imported.Errors, "; "))
	}
	for _, msg := range imported.Errors {
		appLog.Warn().Str("file", opts.input).Msg(msg)
	}

	req, err := buildExportRequest(opts, imported.Headers, imported.Data)
	if err != nil {
		return err
	}

	result, err := svc.Export(cmd.Context(), format.Name, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case format.Name == exporter.FormatPrint && result.Presented:
		fmt.Fprintf(out, "Opened printable document (%d records)\n", result.Records)
	case format.Name == exporter.FormatPrint:
		fmt.Fprintln(out, "Could not open a window for the printable document; set print_mode: file to write it to disk")
	default:
		fmt.Fprintf(out, "Exported %d records to %s\n", result.Records,
			filepath.Join(appConfig.OutputDir, result.Filename))
	}
	return nil
}

// buildExportRequest applies the profile (if any) and then the flag
// overrides, which win over profile values.
func buildExportRequest(opts exportOptions, headers []string, rows []table.Row) (table.ExportRequest, error) {
	name := filepath.Base(opts.input)
	req := table.NewExportRequest(strings.TrimSuffix(name, filepath.Ext(name)), table.ColumnsFromHeaders(headers), rows)
	req.IncludeTimestamp = appConfig.Timestamped() && !opts.noTimestamp

	if opts.profile != "" {
		profile, err := appConfig.Profile(opts.profile)
		if err != nil {
			return req, err
		}
		columns, err := profile.Compile()
		if err != nil {
			return req, fmt.Errorf("profile %q: %w", opts.profile, err)
		}
		req.Columns = columns
		req.Title = profile.Title
		req.Subtitle = profile.Subtitle
		if profile.Filename != "" {
			req.Filename = profile.Filename
		}
	}

	if opts.output != "" {
		req.Filename = opts.output
	}
	if opts.title != "" {
		req.Title = opts.title
	}
	if opts.subtitle != "" {
		req.Subtitle = opts.subtitle
	}
	return req, nil
}
