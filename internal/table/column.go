// =============================================================================
// Tabex - Column Model
// =============================================================================
//
// A Column declares how to project a generic Row into one display cell:
//
//   Key       - the row property to read
//   Header    - free text used verbatim as the output column title
//   Formatter - optional pure function (value, row) -> string
//
// Every encoder (CSV, Excel-compatible, printable document, JSON, workbook)
// resolves cells through Column.Text so formatting is identical everywhere.
//
// =============================================================================

package table

import (
	"time"

	"github.com/ginjaninja78/tabex/pkg/utils"
)

// Row is an open-ended record owned by the caller. Encoders only read it.
type Row map[string]Value

// Formatter renders a single cell. It receives the (possibly null) value and
// the whole row, and must not retain or mutate either.
type Formatter func(v Value, row Row) string

// Column describes one output column.
type Column struct {
	Key       string
	Header    string
	Formatter Formatter
}

// Text resolves the display text of this column for row.
// A key missing from the row is treated as null and renders as "" unless the
// formatter decides otherwise.
func (c Column) Text(row Row) string {
	v := row[c.Key]
	if c.Formatter != nil {
		return c.Formatter(v, row)
	}
	return v.String()
}

// Headers returns the header labels of columns in order.
func Headers(columns []Column) []string {
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.Header
	}
	return headers
}

// ColumnsFromHeaders builds formatter-free columns whose key and header are
// the same text. Used when rows come from an import with no export profile.
func ColumnsFromHeaders(headers []string) []Column {
	columns := make([]Column, len(headers))
	for i, h := range headers {
		columns[i] = Column{Key: h, Header: h}
	}
	return columns
}

// =============================================================================
// EXPORT REQUEST
// =============================================================================

// ExportRequest carries everything a single export call needs. It is built
// immediately before the call and not retained afterwards.
type ExportRequest struct {
	// Filename is the base name without extension.
	Filename string

	Columns []Column
	Data    []Row

	// Title and Subtitle are optional; encoders that have no place for them
	// ignore them.
	Title    string
	Subtitle string

	// IncludeTimestamp appends _YYYY-MM-DD to the delivered file name.
	IncludeTimestamp bool
}

// NewExportRequest returns a request with IncludeTimestamp enabled, which is
// the default for every export.
func NewExportRequest(filename string, columns []Column, data []Row) ExportRequest {
	return ExportRequest{
		Filename:         filename,
		Columns:          columns,
		Data:             data,
		IncludeTimestamp: true,
	}
}

// FileName returns the delivered file name for extension ext at time now.
func (r ExportRequest) FileName(ext string, now time.Time) string {
	return utils.ExportFileName(r.Filename, ext, r.IncludeTimestamp, now)
}
