// =============================================================================
// Tabex - XLSX Sheet Parser
// =============================================================================
//
// This module reads a worksheet from an .xlsx workbook into header-keyed rows
// so spreadsheets can feed the same exporters and ledger adapters as CSV
// files.
//
// SHEET STRUCTURE (Expected):
//   | (optional title rows ...) |
//   | Header A | Header B | ... |   <- Options.HeaderRow (1-based, default 1)
//   | value    | value    | ... |
//
// Cell values are read as the text excelize displays for them, so the rows
// carry string values exactly like a decoded CSV file.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/tabex/internal/table"
)

// =============================================================================
// SHEET STRUCTURE
// =============================================================================

// Sheet is the parsed content of one worksheet.
type Sheet struct {
	// Name is the worksheet name.
	Name string

	// Headers contains the cleaned header row in column order.
	Headers []string

	// Rows contains the data rows keyed by header.
	Rows []table.Row
}

// Options selects what to read.
type Options struct {
	// Sheet is the worksheet name. Empty means the first sheet.
	Sheet string

	// HeaderRow is the 1-based row holding the headers. Zero means 1.
	HeaderRow int
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseFile reads a worksheet from the workbook at path.
//
// PARAMETERS:
//   - path: The path to the .xlsx file.
//   - opts: Sheet and header row selection.
//
// RETURNS:
//   - The parsed sheet.
//   - An error if the file cannot be opened or the sheet is missing.
func ParseFile(path string, opts Options) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return parseSheet(f, opts)
}

// ParseReader reads a worksheet from workbook bytes supplied by r.
func ParseReader(r io.Reader, opts Options) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return parseSheet(f, opts)
}

// parseSheet parses a single sheet from an open workbook.
func parseSheet(f *excelize.File, opts Options) (*Sheet, error) {
	sheetName := opts.Sheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("workbook has no sheets")
		}
	}

	headerRow := opts.HeaderRow
	if headerRow <= 0 {
		headerRow = 1
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet '%s': %w", sheetName, err)
	}

	if len(rows) < headerRow {
		return nil, fmt.Errorf("sheet '%s' has no header row %d", sheetName, headerRow)
	}

	sheet := &Sheet{
		Name:    sheetName,
		Headers: cleanHeaders(rows[headerRow-1]),
		Rows:    []table.Row{},
	}

	for i := headerRow; i < len(rows); i++ {
		row := rows[i]

		// Skip empty rows.
		if len(row) == 0 || isRowEmpty(row) {
			continue
		}

		record := make(table.Row, len(sheet.Headers))
		for col, header := range sheet.Headers {
			value := ""
			if col < len(row) {
				value = strings.TrimSpace(row[col])
			}
			record[header] = table.String(value)
		}
		sheet.Rows = append(sheet.Rows, record)
	}

	return sheet, nil
}

// cleanHeaders trims header cells and names blank ones by position.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		cleaned[i] = header
	}
	return cleaned
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
