package xlsxparser

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/tabex/internal/table"
	"github.com/ginjaninja78/tabex/internal/xlsxwriter"
)

func TestParseReader_RoundTripFromWriter(t *testing.T) {
	columns := []table.Column{
		{Key: "id", Header: "ID"},
		{Key: "name", Header: "Name"},
	}
	rows := []table.Row{
		{"id": table.Int(1), "name": table.String("Jane")},
		{"id": table.Int(2)},
	}

	data, err := xlsxwriter.Encode(columns, rows, xlsxwriter.Options{Title: "Clients"})
	require.NoError(t, err)

	// Title, blank line, then the header on row 3.
	sheet, err := ParseReader(bytes.NewReader(data), Options{HeaderRow: 3})
	require.NoError(t, err)

	assert.Equal(t, xlsxwriter.SheetName, sheet.Name)
	assert.Equal(t, []string{"ID", "Name"}, sheet.Headers)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, table.Row{"ID": table.String("1"), "Name": table.String("Jane")}, sheet.Rows[0])
	assert.Equal(t, table.Row{"ID": table.String("2"), "Name": table.String("")}, sheet.Rows[1])
}

func TestParseFile_NamedSheetAndBlankHeaders(t *testing.T) {
	f := excelize.NewFile()
	_, err := f.NewSheet("Loans")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Loans", "A1", &[]any{" Ref ", "", "Amount"}))
	require.NoError(t, f.SetSheetRow("Loans", "A2", &[]any{"L-1", "x", 500}))
	require.NoError(t, f.SetSheetRow("Loans", "A4", &[]any{"L-2", "", -20.5}))

	path := filepath.Join(t.TempDir(), "loans.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	sheet, err := ParseFile(path, Options{Sheet: "Loans"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Ref", "Column_2", "Amount"}, sheet.Headers)
	require.Len(t, sheet.Rows, 2, "blank rows are skipped")
	assert.Equal(t, "500", sheet.Rows[0]["Amount"].String())
	assert.Equal(t, "-20.5", sheet.Rows[1]["Amount"].String())
}

func TestParseFile_Errors(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.xlsx"), Options{})
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "not.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0644))
	_, err = ParseFile(path, Options{})
	assert.Error(t, err)

	data, err := xlsxwriter.Encode(nil, nil, xlsxwriter.Options{})
	require.NoError(t, err)
	_, err = ParseReader(bytes.NewReader(data), Options{Sheet: "Nope"})
	assert.Error(t, err)
	_, err = ParseReader(bytes.NewReader(data), Options{HeaderRow: 5})
	assert.Error(t, err)
}
