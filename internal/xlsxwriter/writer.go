// =============================================================================
// Tabex - XLSX Workbook Writer
// =============================================================================
//
// This module renders rows as a native .xlsx workbook with excelize. It is a
// separate format from the Excel-compatible CSV: cells keep their native type
// (numbers stay numbers, dates stay dates) unless the column has a formatter,
// in which case the formatted text is written.
//
// SHEET LAYOUT:
//   Row 1     - Title (bold, optional)
//   Row 2     - Subtitle (optional)
//   (blank)   - Only when a title block is present
//   Header    - Column headers (bold, shaded)
//   Data rows - One row per record
//
// =============================================================================

package xlsxwriter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/tabex/internal/table"
)

const (
	// MimeType of workbook output.
	MimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// Extension of workbook output.
	Extension = ".xlsx"

	// SheetName is the name of the single data sheet.
	SheetName = "Export"

	defaultColWidth = 18.0
)

// Options configures the workbook.
type Options struct {
	Title    string
	Subtitle string
}

// Encode renders the workbook and returns its bytes.
//
// PARAMETERS:
//   - columns: The ordered column model.
//   - rows: The rows to write.
//   - opts: Optional title block.
//
// RETURNS:
//   - The .xlsx file contents.
//   - An error if excelize fails to build or serialise the workbook.
func Encode(columns []table.Column, rows []table.Row, opts Options) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	line := 1

	// Title block.
	if opts.Title != "" || opts.Subtitle != "" {
		if opts.Title != "" {
			if err := setRow(f, line, []any{opts.Title}); err != nil {
				return nil, err
			}
			cell, _ := excelize.CoordinatesToCellName(1, line)
			if err := f.SetCellStyle(SheetName, cell, cell, styles.title); err != nil {
				return nil, fmt.Errorf("failed to style title: %w", err)
			}
			line++
		}
		if opts.Subtitle != "" {
			if err := setRow(f, line, []any{opts.Subtitle}); err != nil {
				return nil, err
			}
			line++
		}
		line++
	}

	// Header row.
	headers := make([]any, len(columns))
	for i, h := range table.Headers(columns) {
		headers[i] = h
	}
	if err := setRow(f, line, headers); err != nil {
		return nil, err
	}
	if len(columns) > 0 {
		first, _ := excelize.CoordinatesToCellName(1, line)
		last, _ := excelize.CoordinatesToCellName(len(columns), line)
		if err := f.SetCellStyle(SheetName, first, last, styles.header); err != nil {
			return nil, fmt.Errorf("failed to style header: %w", err)
		}
		lastCol, _ := excelize.ColumnNumberToName(len(columns))
		if err := f.SetColWidth(SheetName, "A", lastCol, defaultColWidth); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}
	line++

	// Data rows.
	for _, row := range rows {
		cells := make([]any, len(columns))
		for i, col := range columns {
			cells[i] = cellValue(col, row)
		}
		if err := setRow(f, line, cells); err != nil {
			return nil, err
		}
		line++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// =============================================================================
// HELPERS
// =============================================================================

type sheetStyles struct {
	title  int
	header int
}

func newStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error

	s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return s, fmt.Errorf("failed to create title style: %w", err)
	}

	s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"F2F2F2"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "999999", Style: 1},
		},
	})
	if err != nil {
		return s, fmt.Errorf("failed to create header style: %w", err)
	}

	return s, nil
}

// cellValue resolves the native value written for one cell.
func cellValue(col table.Column, row table.Row) any {
	if col.Formatter != nil {
		return col.Text(row)
	}

	v := row[col.Key]
	switch v.Kind() {
	case table.KindNumber:
		d, _ := v.Decimal()
		return d.InexactFloat64()
	case table.KindBool:
		b, _ := v.Bool()
		return b
	case table.KindTime:
		// excelize applies a date number format to time values.
		t, _ := v.Time()
		return t
	case table.KindString:
		return v.String()
	default:
		return nil
	}
}

func setRow(f *excelize.File, line int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, line)
	if err != nil {
		return fmt.Errorf("failed to resolve row %d: %w", line, err)
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", line, err)
	}
	return nil
}
