// =============================================================================
// Tabex - XML Writer Module
// =============================================================================
//
// This module renders rows as an XML document for systems that bulk-load XML
// rather than CSV.
//
// XML STRUCTURE:
//
//   <?xml version="1.0" encoding="UTF-8"?>
//   <export exportDate="2024-03-01T09:30:00.000Z" recordCount="2">
//     <record n="1">                      <!-- One element per row, 1-based -->
//       <Loan_ID>00000042</Loan_ID>       <!-- One element per column -->
//       <Amount>100.00</Amount>
//       <Note/>                           <!-- Empty cells self-close -->
//     </record>
//     <record n="2">...</record>
//   </export>
//
// Element names are the column headers made XML-safe (see ElementName).
// Cell text is exactly what Column.Text produces, the same as every other
// encoder.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"fmt"
	"time"
	"unicode"

	"github.com/ginjaninja78/tabex/internal/table"
)

const (
	// MimeType of XML output.
	MimeType = "application/xml;charset=utf-8;"

	// Extension of XML output.
	Extension = ".xml"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// Options contains options for XML generation.
type Options struct {
	// RootElement is the document element name.
	// Default: "export"
	RootElement string

	// RecordElement is the element name of one row.
	// Default: "record"
	RecordElement string

	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// OmitDeclaration drops the <?xml ...?> line.
	OmitDeclaration bool
}

func applyOptionDefaults(opts *Options) {
	if opts.RootElement == "" {
		opts.RootElement = "export"
	}
	if opts.RecordElement == "" {
		opts.RecordElement = "record"
	}
	if opts.Indent == "" {
		opts.Indent = "  "
	}
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Encode renders rows as an XML document.
//
// PARAMETERS:
//   - columns: The ordered column model. Headers become element names.
//   - rows: The rows to write, one record element each.
//   - exportedAt: Stamped into the exportDate attribute.
//   - opts: Element names and layout.
//
// RETURNS:
//   - The XML document, newline terminated.
func Encode(columns []table.Column, rows []table.Row, exportedAt time.Time, opts Options) []byte {
	applyOptionDefaults(&opts)

	names := make([]string, len(columns))
	for i, h := range table.Headers(columns) {
		names[i] = ElementName(h)
	}
	root := ElementName(opts.RootElement)
	record := ElementName(opts.RecordElement)

	var buffer bytes.Buffer
	if !opts.OmitDeclaration {
		buffer.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	}

	fmt.Fprintf(&buffer, "<%s exportDate=\"%s\" recordCount=\"%d\"",
		root, table.ISOTimestamp(exportedAt), len(rows))
	if len(rows) == 0 {
		buffer.WriteString("/>\n")
		return buffer.Bytes()
	}
	buffer.WriteString(">\n")

	for i, row := range rows {
		buffer.WriteString(opts.Indent)
		fmt.Fprintf(&buffer, "<%s n=\"%d\"", record, i+1)
		if len(columns) == 0 {
			buffer.WriteString("/>\n")
			continue
		}
		buffer.WriteString(">\n")

		for j, col := range columns {
			writeElement(&buffer, names[j], col.Text(row), opts.Indent, 2)
		}

		buffer.WriteString(opts.Indent)
		fmt.Fprintf(&buffer, "</%s>\n", record)
	}

	fmt.Fprintf(&buffer, "</%s>\n", root)
	return buffer.Bytes()
}

// writeElement writes a leaf element with indentation.
func writeElement(buffer *bytes.Buffer, name, value, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}

	if value == "" {
		fmt.Fprintf(buffer, "<%s/>\n", name)
		return
	}
	fmt.Fprintf(buffer, "<%s>%s</%s>\n", name, escapeXML(value), name)
}

// escapeXML escapes markup characters and drops characters XML 1.0 cannot
// carry at all.
func escapeXML(s string) string {
	var buffer bytes.Buffer

	for _, r := range s {
		switch r {
		case '&':
			buffer.WriteString("&amp;")
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '"':
			buffer.WriteString("&quot;")
		case '\'':
			buffer.WriteString("&apos;")
		case '\t', '\n', '\r':
			buffer.WriteRune(r)
		default:
			if r < 0x20 || r == 0xFFFE || r == 0xFFFF {
				continue
			}
			buffer.WriteRune(r)
		}
	}

	return buffer.String()
}

// ElementName turns a header into a valid XML element name: characters other
// than letters, digits, '_', '-' and '.' become '_', and a name that does not
// start with a letter or '_' gets a leading '_'.
//
// EXAMPLES:
//   "Loan ID"      -> "Loan_ID"
//   "*Date"        -> "_Date"
//   "2024 Balance" -> "_2024_Balance"
//   ""             -> "field"
func ElementName(header string) string {
	if header == "" {
		return "field"
	}

	var buffer bytes.Buffer
	for _, r := range header {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_', r == '-', r == '.':
			buffer.WriteRune(r)
		default:
			buffer.WriteByte('_')
		}
	}

	name := buffer.String()
	first := []rune(name)[0]
	if !unicode.IsLetter(first) && first != '_' {
		name = "_" + name
	}
	return name
}
