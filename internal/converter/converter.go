// =============================================================================
// Tabex - File Converter
// =============================================================================
//
// This module converts one input file into one export. It is the per-file
// unit of the batch command.
//
// PROCESSING PIPELINE:
//   1. Load the input rows (CSV, .xlsx or JSON)
//   2. Resolve the column model from the job's profile, or from the headers
//   3. Export through the Service in the requested format
//   4. Move the input into the archive directory, when one is configured
//
// Ledger formats skip step 2: rows are read as transactions and rendered with
// the account mapping configured for the accounting system.
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/tabex/internal/config"
	"github.com/ginjaninja78/tabex/internal/exporter"
	"github.com/ginjaninja78/tabex/internal/ledger"
	"github.com/ginjaninja78/tabex/internal/table"
	"github.com/ginjaninja78/tabex/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result holds the outcome of converting a single file.
type Result struct {
	// FilePath is the input file.
	FilePath string

	// OutputFile is the delivered file name. Empty for print exports.
	OutputFile string

	// Success reports whether the export was delivered.
	Success bool

	// Error is set when Success is false.
	Error error

	// Diagnostics are non-fatal row problems (malformed CSV rows, rows that
	// are not valid transactions).
	Diagnostics []string

	Stats ProcessingStats
}

// ProcessingStats contains statistics about one conversion.
type ProcessingStats struct {
	RowsRead        int
	RecordsExported int
	ProcessingTime  time.Duration
}

// =============================================================================
// JOB AND CONVERTER
// =============================================================================

// Job names one input file and how to export it.
type Job struct {
	InputPath string

	// Format is an export format name (see exporter.Formats).
	Format string

	// Profile is the export profile to use. Empty means one column per
	// input header.
	Profile string
}

// Converter runs jobs against one export Service.
type Converter struct {
	service    *exporter.Service
	config     *config.MainConfig
	archiveDir string
	log        zerolog.Logger
}

// New creates a Converter. archiveDir may be empty to leave inputs in place.
func New(service *exporter.Service, cfg *config.MainConfig, archiveDir string, log zerolog.Logger) *Converter {
	return &Converter{
		service:    service,
		config:     cfg,
		archiveDir: archiveDir,
		log:        log.With().Str("component", "converter").Logger(),
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline for one job.
//
// RETURNS:
//   - A Result describing the outcome. Run never panics on bad input; every
//     failure is reported through Result.Error.
func (c *Converter) Run(ctx context.Context, job Job) Result {
	startTime := time.Now()
	result := Result{FilePath: job.InputPath}
	log := c.log.With().Str("file", filepath.Base(job.InputPath)).Logger()

	format, err := exporter.LookupFormat(job.Format)
	if err != nil {
		result.Error = err
		return result
	}

	// =========================================================================
	// STEP 1: LOAD INPUT
	// =========================================================================

	imported, err := c.service.ImportFile(job.InputPath, c.config.InputEncoding)
	if err != nil {
		result.Error = fmt.Errorf("failed to load input: %w", err)
		return result
	}
	result.Diagnostics = append(result.Diagnostics, imported.Errors...)
	if !imported.Success {
		result.Error = fmt.Errorf("failed to load input: %s", strings.Join(imported.Errors, "; "))
		return result
	}
	result.Stats.RowsRead = imported.RowCount
	log.Debug().Int("rows", imported.RowCount).Msg("loaded input")

	// =========================================================================
	// STEP 2 + 3: BUILD AND EXPORT
	// =========================================================================

	var exported exporter.Result
	if format.Ledger {
		exported, err = c.exportLedger(ctx, job, format, imported.Data, &result)
	} else {
		exported, err = c.exportTable(ctx, job, format, imported.Headers, imported.Data)
	}
	if err != nil {
		result.Error = err
		return result
	}

	result.OutputFile = exported.Filename
	result.Stats.RecordsExported = exported.Records

	// =========================================================================
	// STEP 4: ARCHIVE
	// =========================================================================

	if c.archiveDir != "" {
		if err := c.archiveInput(job.InputPath); err != nil {
			// The export is already delivered; a failed move only leaves the
			// input where it was.
			log.Warn().Err(err).Msg("failed to archive input")
		}
	}

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)
	return result
}

func (c *Converter) exportTable(ctx context.Context, job Job, format exporter.Format, headers []string, rows []table.Row) (exporter.Result, error) {
	req := table.NewExportRequest(baseName(job.InputPath), table.ColumnsFromHeaders(headers), rows)
	req.IncludeTimestamp = c.config.Timestamped()

	if job.Profile != "" {
		profile, err := c.config.Profile(job.Profile)
		if err != nil {
			return exporter.Result{}, err
		}
		columns, err := profile.Compile()
		if err != nil {
			return exporter.Result{}, fmt.Errorf("profile %q: %w", job.Profile, err)
		}
		req.Columns = columns
		req.Title = profile.Title
		req.Subtitle = profile.Subtitle
		if profile.Filename != "" {
			req.Filename = profile.Filename
		}
	}

	return c.service.Export(ctx, format.Name, req)
}

func (c *Converter) exportLedger(ctx context.Context, job Job, format exporter.Format, rows []table.Row, result *Result) (exporter.Result, error) {
	txs, errs := ledger.FromRows(rows)
	result.Diagnostics = append(result.Diagnostics, errs...)
	if len(txs) == 0 {
		return exporter.Result{}, fmt.Errorf("no valid transactions in input")
	}
	return c.service.ExportLedger(ctx, format.Name, txs, baseName(job.InputPath), c.config.Mapping(format.Name))
}

// archiveInput moves the input file into the archive directory.
func (c *Converter) archiveInput(inputPath string) error {
	fm := utils.NewFileManager(c.archiveDir)
	if err := fm.EnsureDirectories(); err != nil {
		return err
	}
	if err := os.Rename(inputPath, fm.Path(filepath.Base(inputPath))); err != nil {
		return fmt.Errorf("failed to archive input file: %w", err)
	}
	return nil
}

// baseName returns the file name of path without its extension.
func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
