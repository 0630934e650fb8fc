package exporter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/tabex/internal/csvwriter"
	"github.com/ginjaninja78/tabex/internal/jsonwriter"
	"github.com/ginjaninja78/tabex/internal/ledger"
	"github.com/ginjaninja78/tabex/internal/xlsxwriter"
	"github.com/ginjaninja78/tabex/internal/xmlwriter"
)

// ErrUnknownFormat is returned for a format name that is not registered.
var ErrUnknownFormat = errors.New("unknown export format")

// Format names.
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatXLSX  = "xlsx"
	FormatJSON  = "json"
	FormatXML   = "xml"
	FormatPrint = "print"
)

// Format describes one export format.
type Format struct {
	Name        string
	Extension   string
	MimeType    string
	Description string

	// Ledger formats take transactions and an account mapping instead of a
	// column model.
	Ledger bool
}

var tabularFormats = []Format{
	{Name: FormatCSV, Extension: csvwriter.Extension, MimeType: csvwriter.MimeType,
		Description: "Quoted CSV"},
	{Name: FormatExcel, Extension: csvwriter.Extension, MimeType: csvwriter.MimeType,
		Description: "CSV with UTF-8 byte-order mark and optional title block"},
	{Name: FormatXLSX, Extension: xlsxwriter.Extension, MimeType: xlsxwriter.MimeType,
		Description: "Native Excel workbook"},
	{Name: FormatJSON, Extension: jsonwriter.Extension, MimeType: jsonwriter.MimeType,
		Description: "JSON envelope with export date and record count"},
	{Name: FormatXML, Extension: xmlwriter.Extension, MimeType: xmlwriter.MimeType,
		Description: "XML document, one record element per row"},
	{Name: FormatPrint, Description: "Printable HTML document opened in a new window"},
}

var ledgerDescriptions = map[string]string{
	"quickbooks": "QuickBooks Desktop IIF journal",
	"sage":       "Sage journal CSV (JD/JC pairs)",
	"xero":       "Xero bank statement CSV",
}

// Formats lists every format, tabular formats first.
func Formats() []Format {
	formats := append([]Format(nil), tabularFormats...)
	for _, name := range ledger.Systems() {
		a, _ := ledger.Lookup(name)
		formats = append(formats, Format{
			Name:        a.Name(),
			Extension:   a.Extension(),
			MimeType:    a.MimeType(),
			Description: ledgerDescriptions[name],
			Ledger:      true,
		})
	}
	return formats
}

// LookupFormat resolves a format name (case-insensitive).
func LookupFormat(name string) (Format, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, f := range Formats() {
		if f.Name == key {
			return f, nil
		}
	}
	return Format{}, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}
