// =============================================================================
// Tabex - CSV Writer Module
// =============================================================================
//
// This module turns a column model and a list of rows into delimited text.
//
// QUOTING RULE:
//   Every cell, header cells included, is wrapped in double quotes and every
//   literal double quote inside a value is doubled ("" ). No value is ever
//   left unquoted, so embedded commas and newlines cannot shift columns.
//
// LAYOUT:
//   - Cells are joined with ","
//   - Lines are joined with "\n" (no trailing newline)
//   - Every line has exactly len(columns) cells
//
// The Excel-compatible variant adds an optional title block and a UTF-8
// byte-order mark so spreadsheet applications do not guess a legacy code page.
//
// =============================================================================

package csvwriter

import (
	"strings"

	"github.com/ginjaninja78/tabex/internal/table"
)

const (
	// MimeType is used for both plain and Excel-compatible CSV output.
	MimeType = "text/csv;charset=utf-8;"

	// Extension is the file extension of CSV output.
	Extension = ".csv"

	// BOM is the UTF-8 byte-order mark prepended by EncodeExcel.
	BOM = "\uFEFF"
)

// =============================================================================
// ENCODING
// =============================================================================

// QuoteCell wraps s in double quotes, doubling any embedded quote.
//
// EXAMPLE:
//   QuoteCell(`He said "hi"`) -> `"He said ""hi"""`
func QuoteCell(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Encode renders columns and rows as CSV text.
//
// PARAMETERS:
//   - columns: The ordered column model.
//   - rows: The rows to project. Missing keys render as empty cells.
//
// RETURNS:
//   - The CSV text, header line first.
func Encode(columns []table.Column, rows []table.Row) string {
	var sb strings.Builder
	writeBody(&sb, columns, rows)
	return sb.String()
}

// EncodeExcel renders the Excel-compatible variant of Encode.
//
// PARAMETERS:
//   - columns: The ordered column model.
//   - rows: The rows to project.
//   - title: Optional first line, emitted as a single quoted cell.
//   - subtitle: Optional second line, emitted as a single quoted cell.
//
// RETURNS:
//   - BOM-prefixed CSV text. When a title or subtitle is present the block is
//     followed by one blank line before the header.
func EncodeExcel(columns []table.Column, rows []table.Row, title, subtitle string) string {
	var sb strings.Builder
	sb.WriteString(BOM)

	if title != "" || subtitle != "" {
		if title != "" {
			sb.WriteString(QuoteCell(title))
			sb.WriteByte('\n')
		}
		if subtitle != "" {
			sb.WriteString(QuoteCell(subtitle))
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')
	}

	writeBody(&sb, columns, rows)
	return sb.String()
}

// writeBody writes the header line and one line per row.
func writeBody(sb *strings.Builder, columns []table.Column, rows []table.Row) {
	writeLine(sb, table.Headers(columns))

	cells := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			cells[i] = col.Text(row)
		}
		sb.WriteByte('\n')
		writeLine(sb, cells)
	}
}

// writeLine writes one line of quoted cells without a line terminator.
func writeLine(sb *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(QuoteCell(cell))
	}
}
