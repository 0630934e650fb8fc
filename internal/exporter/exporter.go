// =============================================================================
// Tabex - Export Service
// =============================================================================
//
// This module connects the encoders to the delivery boundary. Every export
// call is one pure encoding step followed by a single delivery:
//
//   ExportRequest -> encoder -> Sink.Deliver(content, filename, mimeType)
//
// Printable documents are the exception: they are written into a window
// opened by the Presenter and never reach the Sink.
//
// The service holds no state between calls and is safe for concurrent use
// as long as its Sink and Presenter are.
//
// =============================================================================

package exporter

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/tabex/internal/csvparser"
	"github.com/ginjaninja78/tabex/internal/csvwriter"
	"github.com/ginjaninja78/tabex/internal/htmlwriter"
	"github.com/ginjaninja78/tabex/internal/jsonwriter"
	"github.com/ginjaninja78/tabex/internal/ledger"
	"github.com/ginjaninja78/tabex/internal/sink"
	"github.com/ginjaninja78/tabex/internal/source"
	"github.com/ginjaninja78/tabex/internal/table"
	"github.com/ginjaninja78/tabex/internal/xlsxwriter"
	"github.com/ginjaninja78/tabex/internal/xmlwriter"
	"github.com/ginjaninja78/tabex/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result describes one completed export.
type Result struct {
	Format   string
	Filename string
	MimeType string
	Size     int
	Records  int

	// Presented is set by print exports; false means the window was
	// blocked and nothing was shown.
	Presented bool
}

// =============================================================================
// SERVICE STRUCTURE
// =============================================================================

// Service runs exports and imports.
type Service struct {
	sink      sink.Sink
	presenter sink.Presenter
	log       zerolog.Logger
	now       func() time.Time
	rawHTML   bool
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now, used for file name dates and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRawHTML disables escaping in printable documents.
func WithRawHTML(raw bool) Option {
	return func(s *Service) { s.rawHTML = raw }
}

// New creates a Service delivering through out and presenting documents
// through presenter. presenter may be nil, in which case print exports
// report Presented == false.
func New(out sink.Sink, presenter sink.Presenter, log zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		sink:      out,
		presenter: presenter,
		log:       log.With().Str("component", "exporter").Logger(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// =============================================================================
// TABULAR EXPORTS
// =============================================================================

// Export runs the tabular format named format.
func (s *Service) Export(ctx context.Context, format string, req table.ExportRequest) (Result, error) {
	f, err := LookupFormat(format)
	if err != nil {
		return Result{}, err
	}
	if f.Ledger {
		return Result{}, fmt.Errorf("%w: %q needs transactions, use ExportLedger", ErrUnknownFormat, format)
	}

	switch f.Name {
	case FormatCSV:
		return s.ExportCSV(ctx, req)
	case FormatExcel:
		return s.ExportExcel(ctx, req)
	case FormatXLSX:
		return s.ExportWorkbook(ctx, req)
	case FormatJSON:
		return s.ExportJSON(ctx, req)
	case FormatXML:
		return s.ExportXML(ctx, req)
	default:
		presented, err := s.ExportDocument(ctx, req)
		return Result{Format: FormatPrint, Records: len(req.Data), Presented: presented}, err
	}
}

// ExportCSV delivers req as quoted CSV.
func (s *Service) ExportCSV(ctx context.Context, req table.ExportRequest) (Result, error) {
	content := csvwriter.Encode(req.Columns, req.Data)
	return s.deliver(ctx, FormatCSV, []byte(content),
		req.FileName(csvwriter.Extension, s.now()), csvwriter.MimeType, len(req.Data))
}

// ExportExcel delivers req as BOM-prefixed CSV with the optional title block.
func (s *Service) ExportExcel(ctx context.Context, req table.ExportRequest) (Result, error) {
	content := csvwriter.EncodeExcel(req.Columns, req.Data, req.Title, req.Subtitle)
	return s.deliver(ctx, FormatExcel, []byte(content),
		req.FileName(csvwriter.Extension, s.now()), csvwriter.MimeType, len(req.Data))
}

// ExportWorkbook delivers req as a native .xlsx workbook.
func (s *Service) ExportWorkbook(ctx context.Context, req table.ExportRequest) (Result, error) {
	content, err := xlsxwriter.Encode(req.Columns, req.Data, xlsxwriter.Options{
		Title:    req.Title,
		Subtitle: req.Subtitle,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return s.deliver(ctx, FormatXLSX, content,
		req.FileName(xlsxwriter.Extension, s.now()), xlsxwriter.MimeType, len(req.Data))
}

// ExportJSON delivers req wrapped in the JSON export envelope.
func (s *Service) ExportJSON(ctx context.Context, req table.ExportRequest) (Result, error) {
	now := s.now()
	content, err := jsonwriter.Encode(req.Columns, req.Data, now)
	if err != nil {
		return Result{}, err
	}
	return s.deliver(ctx, FormatJSON, content,
		req.FileName(jsonwriter.Extension, now), jsonwriter.MimeType, len(req.Data))
}

// ExportXML delivers req as an XML document.
func (s *Service) ExportXML(ctx context.Context, req table.ExportRequest) (Result, error) {
	now := s.now()
	content := xmlwriter.Encode(req.Columns, req.Data, now, xmlwriter.Options{})
	return s.deliver(ctx, FormatXML, content,
		req.FileName(xmlwriter.Extension, now), xmlwriter.MimeType, len(req.Data))
}

// ExportDocument renders req as a printable document and writes it into a
// new window.
//
// RETURNS:
//   - presented: false when no window could be opened. This is not an error.
//   - An error only if writing into an opened window fails.
func (s *Service) ExportDocument(ctx context.Context, req table.ExportRequest) (bool, error) {
	if s.presenter == nil {
		s.log.Warn().Msg("no presenter configured, printable document not shown")
		return false, nil
	}

	doc := htmlwriter.Encode(req.Columns, req.Data, htmlwriter.Options{
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		GeneratedAt: s.now(),
		RawHTML:     s.rawHTML,
	})

	window := s.presenter.Open(ctx)
	if window == nil {
		s.log.Warn().Msg("window blocked, printable document not shown")
		return false, nil
	}
	if err := window.Write(doc); err != nil {
		return false, fmt.Errorf("failed to write printable document: %w", err)
	}

	s.log.Info().Str("format", FormatPrint).Int("records", len(req.Data)).Msg("presented document")
	return true, nil
}

// =============================================================================
// LEDGER EXPORTS
// =============================================================================

// ExportLedger renders transactions for the named accounting system and
// delivers them. Ledger file names always carry the date suffix.
func (s *Service) ExportLedger(ctx context.Context, system string, txs []ledger.Transaction, filename string, mapping ledger.AccountMapping) (Result, error) {
	adapter, err := ledger.Lookup(system)
	if err != nil {
		return Result{}, err
	}

	content := adapter.Encode(txs, mapping)
	name := utils.ExportFileName(filename, adapter.Extension(), true, s.now())
	return s.deliver(ctx, adapter.Name(), []byte(content), name, adapter.MimeType(), len(txs))
}

// ExportQuickBooks delivers an IIF journal.
func (s *Service) ExportQuickBooks(ctx context.Context, txs []ledger.Transaction, filename string, mapping ledger.AccountMapping) (Result, error) {
	return s.ExportLedger(ctx, ledger.QuickBooks{}.Name(), txs, filename, mapping)
}

// ExportSage delivers a Sage journal CSV.
func (s *Service) ExportSage(ctx context.Context, txs []ledger.Transaction, filename string, mapping ledger.AccountMapping) (Result, error) {
	return s.ExportLedger(ctx, ledger.Sage{}.Name(), txs, filename, mapping)
}

// ExportXero delivers a Xero statement CSV.
func (s *Service) ExportXero(ctx context.Context, txs []ledger.Transaction, filename string, mapping ledger.AccountMapping) (Result, error) {
	return s.ExportLedger(ctx, ledger.Xero{}.Name(), txs, filename, mapping)
}

// =============================================================================
// IMPORTS
// =============================================================================

// Import decodes CSV text.
func (s *Service) Import(text string) csvparser.ImportResult {
	result := csvparser.Decode(text)
	s.logImport("", result)
	return result
}

// ImportFile decodes a CSV, .xlsx or JSON file. encoding applies to CSV only.
func (s *Service) ImportFile(path, encoding string) (csvparser.ImportResult, error) {
	result, err := source.Load(path, encoding)
	if err != nil {
		return csvparser.ImportResult{}, err
	}

	s.logImport(path, result)
	return result, nil
}

func (s *Service) logImport(path string, result csvparser.ImportResult) {
	event := s.log.Info()
	if !result.Success {
		event = s.log.Warn()
	}
	if path != "" {
		event = event.Str("file", path)
	}
	event.
		Bool("success", result.Success).
		Int("rows", result.RowCount).
		Int("errors", len(result.Errors)).
		Msg("import finished")
}

// =============================================================================
// DELIVERY
// =============================================================================

func (s *Service) deliver(ctx context.Context, format string, content []byte, filename, mimeType string, records int) (Result, error) {
	if err := s.sink.Deliver(ctx, content, filename, mimeType); err != nil {
		return Result{}, fmt.Errorf("failed to deliver %s: %w", filename, err)
	}

	s.log.Info().
		Str("format", format).
		Str("file", filename).
		Int("records", records).
		Msg("export delivered")

	return Result{
		Format:   format,
		Filename: filename,
		MimeType: mimeType,
		Size:     len(content),
		Records:  records,
	}, nil
}
