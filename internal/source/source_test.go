package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/tabex/internal/csvparser"
	"github.com/ginjaninja78/tabex/internal/table"
	"github.com/ginjaninja78/tabex/internal/xlsxwriter"
)

func writeInput(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestLoadJSON_Array(t *testing.T) {
	result, err := LoadJSON(strings.NewReader(`[
		{"name": "Ann", "amount": 12.50, "active": true},
		{"name": "Bob", "note": null, "tags": ["a", "b"]}
	]`))
	require.NoError(t, err)

	require.True(t, result.Success)
	assert.Equal(t, 2, result.RowCount)
	assert.Equal(t, []string{"name", "amount", "active", "note", "tags"}, result.Headers)

	amount := result.Data[0]["amount"]
	assert.Equal(t, table.KindNumber, amount.Kind())
	assert.Equal(t, "12.5", amount.String())
	assert.Equal(t, table.KindBool, result.Data[0]["active"].Kind())
	assert.True(t, result.Data[1]["note"].IsNull())
	assert.Equal(t, `["a","b"]`, result.Data[1]["tags"].String())
}

func TestLoadJSON_Envelope(t *testing.T) {
	result, err := LoadJSON(strings.NewReader(`{
		"exportDate": "2024-03-01T09:30:00.000Z",
		"recordCount": 1,
		"data": [{"amount": "100.00"}]
	}`))
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, "100.00", result.Data[0]["amount"].String())
}

func TestLoadJSON_Invalid(t *testing.T) {
	result, err := LoadJSON(strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, []string{ErrNoRecords}, result.Errors)

	_, err = LoadJSON(strings.NewReader(`[1, 2]`))
	assert.ErrorContains(t, err, "record 1")

	_, err = LoadJSON(strings.NewReader(`{"data": [`))
	assert.Error(t, err)
}

func TestLoad_SelectsReader(t *testing.T) {
	csvPath := writeInput(t, "in.csv", []byte("a,b\n1,2\n"))
	result, err := Load(csvPath, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, result.Headers)

	jsonPath := writeInput(t, "in.JSON", []byte(`[{"a": 1}]`))
	result, err = Load(jsonPath, "")
	require.NoError(t, err)
	assert.Equal(t, table.KindNumber, result.Data[0]["a"].Kind())

	workbook, err := xlsxwriter.Encode(
		[]table.Column{{Key: "a", Header: "A"}},
		[]table.Row{{"a": table.String("x")}},
		xlsxwriter.Options{})
	require.NoError(t, err)
	result, err = Load(writeInput(t, "in.xlsx", workbook), "")
	require.NoError(t, err)
	assert.Equal(t, "x", result.Data[0]["A"].String())

	_, err = Load(filepath.Join(t.TempDir(), "none.json"), "")
	assert.Error(t, err)
}

func TestLoadTransactions(t *testing.T) {
	path := writeInput(t, "tx.csv", []byte(
		"ID,Date,Type,Amount,Client Name\n"+
			"1,2024-02-29,REPAYMENT,\"1,250.00\",Ann\n"+
			"2,not a date,FEE,10,Bob\n"))

	txs, diags, err := LoadTransactions(path, "")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Ann", txs[0].ClientName)
	assert.Equal(t, "1250", txs[0].Amount.String())
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0], "transaction 2")

	empty := writeInput(t, "empty.csv", []byte("ID,Date\n"))
	_, diags, err = LoadTransactions(empty, "")
	assert.Error(t, err)
	assert.Equal(t, []string{csvparser.ErrInsufficientRows}, diags)
}
