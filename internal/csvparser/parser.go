// =============================================================================
// Tabex - CSV Parser Module
// =============================================================================
//
// This module parses delimited text back into header-keyed rows for import.
// It reads the quoted dialect produced by the csvwriter module and the
// exports of common spreadsheet tools:
//   - Quoted fields with doubled-quote escapes ("" -> ")
//   - Quoted fields spanning several physical lines
//   - LF and CRLF line endings
//   - A leading UTF-8 byte-order mark
//   - Legacy encodings (Windows-1252, ISO-8859-1, UTF-16) via DecodeReader
//
// ERROR MODEL:
//   A malformed row is recorded as "Error parsing row N" and skipped. The
//   import only fails as a whole when the text has no header plus data row.
//
// =============================================================================

package csvparser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/tabex/internal/table"
)

// ErrInsufficientRows is the message reported when the text is too short.
const ErrInsufficientRows = "File must contain at least a header row and one data row"

// errUnterminatedQuote marks a record that ends inside a quoted field.
var errUnterminatedQuote = errors.New("unterminated quoted field")

// =============================================================================
// IMPORT RESULT
// =============================================================================

// ImportResult is produced once per decode call.
type ImportResult struct {
	// Success is false only when the text has no header and data row.
	// Data is nil whenever Success is false.
	Success bool `json:"success"`

	// Data holds the decoded rows keyed by trimmed header text.
	// Every value is a string.
	Data []table.Row `json:"data,omitempty"`

	// Errors lists per-row diagnostics such as "Error parsing row 3".
	Errors []string `json:"errors,omitempty"`

	// RowCount is len(Data).
	RowCount int `json:"rowCount,omitempty"`

	// Headers is the trimmed header row in file order.
	Headers []string `json:"headers,omitempty"`
}

// =============================================================================
// DECODING
// =============================================================================

// Decode parses CSV text into an ImportResult.
//
// PARSING PROCESS:
//   1. Strip a leading byte-order mark
//   2. Split the text into records (newlines inside quotes do not split)
//   3. Drop blank records
//   4. Parse the first record as the header row
//   5. Parse every further record and zip it against the headers
//
// Row numbers in diagnostics count non-blank records, header included, so the
// first data row is row 2.
func Decode(text string) ImportResult {
	text = strings.TrimPrefix(text, "\uFEFF")

	records := make([]string, 0)
	for _, rec := range splitRecords(text) {
		if strings.TrimSpace(rec) != "" {
			records = append(records, rec)
		}
	}

	if len(records) < 2 {
		return ImportResult{
			Success: false,
			Errors:  []string{ErrInsufficientRows},
		}
	}

	headerFields, err := parseLine(records[0])
	if err != nil {
		return ImportResult{
			Success: false,
			Errors:  []string{"Error parsing row 1"},
		}
	}
	headers := cleanHeaders(headerFields)

	result := ImportResult{
		Success: true,
		Data:    make([]table.Row, 0, len(records)-1),
		Headers: headers,
	}

	for i := 1; i < len(records); i++ {
		values, err := parseLine(records[i])
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Error parsing row %d", i+1))
			continue
		}
		result.Data = append(result.Data, zipRow(headers, values))
	}

	result.RowCount = len(result.Data)
	return result
}

// splitRecords cuts text into logical records. A newline ends a record only
// outside quotes; the CR of a CRLF pair is dropped.
//
// QUOTING:
//   - `"` opens a quoted section only at the start of a field
//   - `""` inside a quoted section is an escaped quote
//   - any other `"` inside a quoted section closes it
//   - `"` in the middle of an unquoted field is plain text
//
// A quoted section still open at the end of the text yields only its first
// physical line as a record; splitting resumes on the next line.
func splitRecords(text string) []string {
	var records []string
	quoted := false
	fieldStart := true
	start := 0

	emit := func(end int) {
		if end > start && text[end-1] == '\r' {
			end--
		}
		records = append(records, text[start:end])
	}

	for i := 0; i < len(text); i++ {
		c := text[i]

		if quoted {
			if c != '"' {
				continue
			}
			if i+1 < len(text) && text[i+1] == '"' {
				i++
				continue
			}
			quoted = false
			continue
		}

		switch c {
		case '"':
			if fieldStart {
				quoted = true
			}
			fieldStart = false
		case ',':
			fieldStart = true
		case '\n':
			emit(i)
			start = i + 1
			fieldStart = true
		default:
			fieldStart = false
		}
	}

	if quoted {
		nl := strings.IndexByte(text[start:], '\n')
		if nl >= 0 {
			emit(start + nl)
			return append(records, splitRecords(text[start+nl+1:])...)
		}
	}

	if start < len(text) {
		records = append(records, strings.TrimSuffix(text[start:], "\r"))
	}
	return records
}

// parseLine splits one record into fields.
//
// STATE MACHINE:
//   - `"` while quoted and followed by `"`: emit `"`, skip both
//   - `"` otherwise: toggle quoted
//   - `,` while unquoted: close the field
//   - anything else: append
//   - end of record closes the last field; ending while quoted is an error
func parseLine(line string) ([]string, error) {
	var fields []string
	var field strings.Builder
	quoted := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"' && quoted && i+1 < len(line) && line[i+1] == '"':
			field.WriteByte('"')
			i++
		case c == '"':
			quoted = !quoted
		case c == ',' && !quoted:
			fields = append(fields, field.String())
			field.Reset()
		default:
			field.WriteByte(c)
		}
	}

	if quoted {
		return nil, errUnterminatedQuote
	}
	return append(fields, field.String()), nil
}

// cleanHeaders trims header cells.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		cleaned[i] = strings.TrimSpace(header)
	}
	return cleaned
}

// zipRow pairs values with headers by position. Missing values become "",
// surplus values are ignored.
func zipRow(headers, values []string) table.Row {
	row := make(table.Row, len(headers))
	for i, header := range headers {
		value := ""
		if i < len(values) {
			value = strings.TrimSpace(values[i])
		}
		row[header] = table.String(value)
	}
	return row
}

// =============================================================================
// READERS AND FILES
// =============================================================================

// DecodeReader reads all of r, converts it from encodingName to UTF-8 and
// decodes it.
//
// PARAMETERS:
//   - r: The source of the CSV bytes.
//   - encodingName: "" or "utf-8" for UTF-8, otherwise any WHATWG encoding
//     label such as "windows-1252", "iso-8859-1" or "utf-16le".
//
// RETURNS:
//   - The ImportResult.
//   - An error if the encoding is unknown or reading fails. Bad data is never
//     an error; it is reported inside the result.
func DecodeReader(r io.Reader, encodingName string) (ImportResult, error) {
	enc, err := lookupEncoding(encodingName)
	if err != nil {
		return ImportResult{}, err
	}

	// BOMOverride switches to UTF-8 or UTF-16 whenever the input starts with
	// the matching byte-order mark, whatever the configured encoding.
	decoder := unicode.BOMOverride(enc.NewDecoder())

	raw, err := io.ReadAll(transform.NewReader(r, decoder))
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to read CSV: %w", err)
	}

	return Decode(string(raw)), nil
}

// ParseFile opens filePath and decodes it with DecodeReader.
func ParseFile(filePath, encodingName string) (ImportResult, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return DecodeReader(file, encodingName)
}

// lookupEncoding resolves an encoding label.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8, nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", name, err)
	}
	return enc, nil
}
