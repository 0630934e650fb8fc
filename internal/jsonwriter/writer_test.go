package jsonwriter

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/tabex/internal/table"
)

var exportedAt = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func TestEncode_Scenario(t *testing.T) {
	columns := []table.Column{{Key: "amount", Header: "Amount", Formatter: table.Fixed(2)}}
	rows := []table.Row{{"amount": table.Int(100)}}

	out, err := Encode(columns, rows, exportedAt)
	require.NoError(t, err)

	assert.Equal(t, `{
  "exportDate": "2024-03-01T09:30:00.000Z",
  "recordCount": 1,
  "data": [
    {
      "amount": "100.00"
    }
  ]
}`, string(out))
}

func TestEncode_RawValuesAndOrder(t *testing.T) {
	columns := []table.Column{
		{Key: "z", Header: "Z"},
		{Key: "a", Header: "A"},
		{Key: "flag", Header: "Flag"},
		{Key: "none", Header: "None"},
		{Key: "missing", Header: "Missing"},
	}
	rows := []table.Row{{
		"z":    table.String("last"),
		"a":    table.Float(12.5),
		"flag": table.Bool(true),
		"none": table.Null(),
	}}

	out, err := Encode(columns, rows, exportedAt)
	require.NoError(t, err)

	text := string(out)
	assert.Less(t, strings.Index(text, `"z"`), strings.Index(text, `"a"`), "column order kept")
	assert.Contains(t, text, `"a": 12.5`)
	assert.Contains(t, text, `"flag": true`)
	assert.Contains(t, text, `"none": null`)
	assert.NotContains(t, text, `"missing"`)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.EqualValues(t, 1, decoded["recordCount"])
}

func TestEncode_Empty(t *testing.T) {
	out, err := Encode(nil, nil, exportedAt)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"data": []`)
	assert.Contains(t, string(out), `"recordCount": 0`)
}

func TestProject_FormatterOnMissingKey(t *testing.T) {
	columns := []table.Column{{Key: "note", Formatter: func(v table.Value, _ table.Row) string {
		if v.IsNull() {
			return "n/a"
		}
		return v.String()
	}}}

	rec := Project(columns, table.Row{})

	require.Equal(t, 1, rec.Len())
	v, ok := rec.Get("note")
	assert.True(t, ok)
	assert.Equal(t, "n/a", v)

	_, ok = rec.Get("other")
	assert.False(t, ok)
}
