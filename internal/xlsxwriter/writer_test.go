package xlsxwriter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/tabex/internal/table"
)

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestEncode_WithTitleBlock(t *testing.T) {
	columns := []table.Column{
		{Key: "name", Header: "Name"},
		{Key: "amount", Header: "Amount"},
		{Key: "fee", Header: "Fee", Formatter: table.Fixed(2)},
		{Key: "active", Header: "Active"},
	}
	rows := []table.Row{
		{"name": table.String("Jane"), "amount": table.Float(12.5), "fee": table.Int(3), "active": table.Bool(true)},
		{"name": table.String("Ann")},
	}

	data, err := Encode(columns, rows, Options{Title: "Loan book", Subtitle: "March"})
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	title, err := f.GetCellValue(SheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Loan book", title)

	subtitle, err := f.GetCellValue(SheetName, "A2")
	require.NoError(t, err)
	assert.Equal(t, "March", subtitle)

	got, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, got, 6)
	assert.Empty(t, got[2])
	assert.Equal(t, []string{"Name", "Amount", "Fee", "Active"}, got[3])
	assert.Equal(t, []string{"Jane", "12.5", "3.00", "TRUE"}, got[4])
	assert.Equal(t, "Ann", got[5][0])
}

func TestEncode_HeaderFirstWithoutTitle(t *testing.T) {
	columns := []table.Column{{Key: "id", Header: "ID"}}

	data, err := Encode(columns, []table.Row{{"id": table.Int(7)}}, Options{})
	require.NoError(t, err)

	f := openWorkbook(t, data)
	got, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"ID"}, {"7"}}, got)
}
