// =============================================================================
// Tabex - Input Sources
// =============================================================================
//
// This module loads rows from input files so the CLI can feed them to any
// exporter or ledger adapter. The file extension selects the reader:
//
//   .csv / other - csvparser (with optional source encoding)
//   .xlsx        - xlsxparser, first sheet, header in row 1
//   .json        - an array of objects, or an export envelope {"data": [...]}
//
// Every reader produces the same csvparser.ImportResult so callers handle one
// shape. Column order is the order in which keys first appear.
//
// =============================================================================

package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/tabex/internal/csvparser"
	"github.com/ginjaninja78/tabex/internal/ledger"
	"github.com/ginjaninja78/tabex/internal/table"
	"github.com/ginjaninja78/tabex/internal/xlsxparser"
)

// ErrNoRecords is reported when a JSON input holds no objects.
const ErrNoRecords = "File contains no records"

// Load reads path using the reader selected by its extension.
//
// PARAMETERS:
//   - path: The input file.
//   - encoding: Source encoding for CSV input. Ignored for other formats.
//
// RETURNS:
//   - The decoded rows. Success is false when the file holds no data rows.
//   - An error if the file cannot be read or is not valid for its format.
func Load(path, encoding string) (csvparser.ImportResult, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return LoadWorkbook(path, xlsxparser.Options{})
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			return csvparser.ImportResult{}, fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		return LoadJSON(f)
	default:
		return csvparser.ParseFile(path, encoding)
	}
}

// LoadWorkbook reads one worksheet.
func LoadWorkbook(path string, opts xlsxparser.Options) (csvparser.ImportResult, error) {
	sheet, err := xlsxparser.ParseFile(path, opts)
	if err != nil {
		return csvparser.ImportResult{}, err
	}
	if len(sheet.Rows) == 0 {
		return csvparser.ImportResult{
			Success: false,
			Errors:  []string{csvparser.ErrInsufficientRows},
		}, nil
	}
	return csvparser.ImportResult{
		Success:  true,
		Data:     sheet.Rows,
		RowCount: len(sheet.Rows),
		Headers:  sheet.Headers,
	}, nil
}

// LoadJSON reads an array of objects, or an object whose "data" member is
// such an array. Numbers keep their exact decimal text.
func LoadJSON(r io.Reader) (csvparser.ImportResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return csvparser.ImportResult{}, fmt.Errorf("failed to read JSON input: %w", err)
	}

	var records []json.RawMessage
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope struct {
			Data []json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return csvparser.ImportResult{}, fmt.Errorf("failed to parse JSON input: %w", err)
		}
		records = envelope.Data
	} else if err := json.Unmarshal(trimmed, &records); err != nil {
		return csvparser.ImportResult{}, fmt.Errorf("failed to parse JSON input: %w", err)
	}

	if len(records) == 0 {
		return csvparser.ImportResult{Success: false, Errors: []string{ErrNoRecords}}, nil
	}

	result := csvparser.ImportResult{Success: true, Data: make([]table.Row, 0, len(records))}
	seen := make(map[string]bool)

	for i, record := range records {
		row, keys, err := decodeObject(record)
		if err != nil {
			return csvparser.ImportResult{}, fmt.Errorf("record %d: %w", i+1, err)
		}
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				result.Headers = append(result.Headers, k)
			}
		}
		result.Data = append(result.Data, row)
	}
	result.RowCount = len(result.Data)

	return result, nil
}

// decodeObject decodes one object while keeping its key order.
func decodeObject(raw json.RawMessage) (table.Row, []string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected an object")
	}

	row := make(table.Row)
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key := tok.(string)

		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("field %q: %w", key, err)
		}
		if _, dup := row[key]; !dup {
			keys = append(keys, key)
		}
		row[key] = jsonValue(v)
	}
	return row, keys, nil
}

// jsonValue converts a decoded JSON value. Nested objects and arrays are kept
// as their compact JSON text.
func jsonValue(v any) table.Value {
	switch v.(type) {
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return table.String(fmt.Sprintf("%v", v))
		}
		return table.String(string(b))
	default:
		return table.FromAny(v)
	}
}

// LoadTransactions reads path and converts its rows into ledger transactions.
//
// RETURNS:
//   - The transactions that could be read.
//   - Diagnostics for rows that were skipped, and for decode problems.
//   - An error if the file cannot be loaded at all or has no data rows.
func LoadTransactions(path, encoding string) ([]ledger.Transaction, []string, error) {
	result, err := Load(path, encoding)
	if err != nil {
		return nil, nil, err
	}
	if !result.Success {
		return nil, result.Errors, fmt.Errorf("no transactions in %s: %s", filepath.Base(path), strings.Join(result.Errors, "; "))
	}

	txs, errs := ledger.FromRows(result.Data)
	return txs, append(result.Errors, errs...), nil
}
