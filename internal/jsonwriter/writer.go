// Package jsonwriter renders rows as a JSON document wrapped in an export
// envelope:
//
//	{
//	  "exportDate": "2024-03-01T09:30:00.000Z",
//	  "recordCount": 1,
//	  "data": [ { "amount": "100.00" } ]
//	}
//
// Each record is keyed by Column.Key in column order. A column with a
// formatter contributes its formatted string; otherwise the raw value is
// written with its native JSON type.
package jsonwriter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ginjaninja78/tabex/internal/table"
)

const (
	// MimeType of JSON output.
	MimeType = "application/json;charset=utf-8;"

	// Extension of JSON output.
	Extension = ".json"
)

// Envelope is the top-level JSON document.
type Envelope struct {
	ExportDate  string   `json:"exportDate"`
	RecordCount int      `json:"recordCount"`
	Data        []Record `json:"data"`
}

// Record is one projected row. Fields keep column order when marshalled.
type Record struct {
	fields []field
}

type field struct {
	key   string
	value any
}

// Get returns the value stored for key.
func (r Record) Get(key string) (any, bool) {
	for _, f := range r.fields {
		if f.key == key {
			return f.value, true
		}
	}
	return nil, false
}

// Len returns the number of fields.
func (r Record) Len() int { return len(r.fields) }

// MarshalJSON writes the fields as an object in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		value, err := json.Marshal(f.value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal field %q: %w", f.key, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Project builds one record from row. Keys absent from the row are omitted
// unless the column has a formatter, which always produces a string.
func Project(columns []table.Column, row table.Row) Record {
	rec := Record{fields: make([]field, 0, len(columns))}
	for _, col := range columns {
		if col.Formatter != nil {
			rec.fields = append(rec.fields, field{key: col.Key, value: col.Text(row)})
			continue
		}
		v, ok := row[col.Key]
		if !ok {
			continue
		}
		rec.fields = append(rec.fields, field{key: col.Key, value: v})
	}
	return rec
}

// Build projects rows into an envelope stamped with exportedAt.
func Build(columns []table.Column, rows []table.Row, exportedAt time.Time) Envelope {
	data := make([]Record, 0, len(rows))
	for _, row := range rows {
		data = append(data, Project(columns, row))
	}
	return Envelope{
		ExportDate:  table.ISOTimestamp(exportedAt),
		RecordCount: len(rows),
		Data:        data,
	}
}

// Encode renders the envelope with two-space indentation.
func Encode(columns []table.Column, rows []table.Row, exportedAt time.Time) ([]byte, error) {
	out, err := json.MarshalIndent(Build(columns, rows, exportedAt), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export envelope: %w", err)
	}
	return out, nil
}
