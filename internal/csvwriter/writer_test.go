package csvwriter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/tabex/internal/table"
)

func scenarioColumns() []table.Column {
	return []table.Column{
		{Key: "name", Header: "Name"},
		{Key: "note", Header: "Note"},
	}
}

func TestQuoteCell(t *testing.T) {
	assert.Equal(t, `"He said ""hi"""`, QuoteCell(`He said "hi"`))
	assert.Equal(t, `""`, QuoteCell(""))
	assert.Equal(t, "\"a,b\nc\"", QuoteCell("a,b\nc"))
}

func TestEncode_Scenario(t *testing.T) {
	rows := []table.Row{
		{"name": table.String("Jane, A."), "note": table.String(`Said "ok"`)},
	}

	out := Encode(scenarioColumns(), rows)

	assert.Equal(t, "\"Name\",\"Note\"\n\"Jane, A.\",\"Said \"\"ok\"\"\"", out)
}

func TestEncode_HeaderCardinality(t *testing.T) {
	columns := []table.Column{
		{Key: "a", Header: "A"},
		{Key: "b", Header: "B"},
		{Key: "c", Header: "C"},
	}
	rows := []table.Row{
		{},
		{"a": table.Int(1)},
		{"c": table.Null(), "extra": table.String("ignored")},
	}

	lines := strings.Split(Encode(columns, rows), "\n")
	require.Len(t, lines, 4)
	for _, line := range lines {
		assert.Equal(t, 3, strings.Count(line, `","`)+1, line)
	}
	assert.Equal(t, `"1","",""`, lines[2])
	assert.Equal(t, `"","",""`, lines[3])
}

func TestEncode_Formatter(t *testing.T) {
	columns := []table.Column{{Key: "amount", Header: "Amount", Formatter: table.Fixed(2)}}
	rows := []table.Row{{"amount": table.Int(100)}}

	assert.Equal(t, "\"Amount\"\n\"100.00\"", Encode(columns, rows))
}

func TestEncode_NoRows(t *testing.T) {
	assert.Equal(t, `"Name","Note"`, Encode(scenarioColumns(), nil))
}

func TestEncodeExcel(t *testing.T) {
	rows := []table.Row{{"name": table.String("Jane"), "note": table.Null()}}

	tests := []struct {
		name     string
		title    string
		subtitle string
		want     string
	}{
		{
			name: "no title block",
			want: BOM + "\"Name\",\"Note\"\n\"Jane\",\"\"",
		},
		{
			name:  "title only",
			title: `Loan "book"`,
			want:  BOM + "\"Loan \"\"book\"\"\"\n\n\"Name\",\"Note\"\n\"Jane\",\"\"",
		},
		{
			name:     "title and subtitle",
			title:    "Clients",
			subtitle: "March 2024",
			want:     BOM + "\"Clients\"\n\"March 2024\"\n\n\"Name\",\"Note\"\n\"Jane\",\"\"",
		},
		{
			name:     "subtitle only",
			subtitle: "Draft",
			want:     BOM + "\"Draft\"\n\n\"Name\",\"Note\"\n\"Jane\",\"\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := EncodeExcel(scenarioColumns(), rows, tt.title, tt.subtitle)
			assert.Equal(t, tt.want, out)
			assert.True(t, strings.HasPrefix(out, "\xEF\xBB\xBF"))
		})
	}
}
