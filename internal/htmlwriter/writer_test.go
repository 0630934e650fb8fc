package htmlwriter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ginjaninja78/tabex/internal/table"
)

var generatedAt = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func TestEncode_Document(t *testing.T) {
	columns := []table.Column{
		{Key: "name", Header: "Name"},
		{Key: "amount", Header: "Amount", Formatter: table.Fixed(2)},
	}
	rows := []table.Row{
		{"name": table.String("Jane"), "amount": table.Int(100)},
		{"name": table.String("Ann")},
	}

	doc := Encode(columns, rows, Options{
		Title:       "Loan book",
		Subtitle:    "March",
		GeneratedAt: generatedAt,
	})

	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	assert.Contains(t, doc, "<title>Loan book</title>")
	assert.Contains(t, doc, "<h1>Loan book</h1>")
	assert.Contains(t, doc, "<h2>March</h2>")
	assert.Contains(t, doc, "<th>Name</th><th>Amount</th>")
	assert.Contains(t, doc, "<td>Jane</td><td>100.00</td>")
	assert.Contains(t, doc, "<td>Ann</td><td></td>")
	assert.Contains(t, doc, "Total records: 2")
	assert.Contains(t, doc, "Generated: 2024-03-01 09:30:00")
	assert.Contains(t, doc, "window.print()")
	assert.Contains(t, doc, "@media print")
}

func TestEncode_NoTitle(t *testing.T) {
	doc := Encode(nil, nil, Options{GeneratedAt: generatedAt})

	assert.Contains(t, doc, "<title>Export</title>")
	assert.NotContains(t, doc, "<h1>")
	assert.NotContains(t, doc, "<h2>")
	assert.Contains(t, doc, "Total records: 0")
}

func TestEncode_Escaping(t *testing.T) {
	columns := []table.Column{{Key: "note", Header: "A & B"}}
	rows := []table.Row{{"note": table.String("<b>bold</b>")}}

	escaped := Encode(columns, rows, Options{Title: "<x>", GeneratedAt: generatedAt})
	assert.Contains(t, escaped, "<th>A &amp; B</th>")
	assert.Contains(t, escaped, "<td>&lt;b&gt;bold&lt;/b&gt;</td>")
	assert.Contains(t, escaped, "<h1>&lt;x&gt;</h1>")

	raw := Encode(columns, rows, Options{GeneratedAt: generatedAt, RawHTML: true})
	assert.Contains(t, raw, "<th>A & B</th>")
	assert.Contains(t, raw, "<td><b>bold</b></td>")
}
