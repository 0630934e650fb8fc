// =============================================================================
// Tabex - Cell Values
// =============================================================================
//
// Rows are open-ended key/value records. Every value held by a row is one of a
// small closed set of scalar kinds so formatters stay type-checked:
//
//   null | string | number | bool | time
//
// Numbers are carried as decimal.Decimal so money never passes through a
// binary float on its way to a ledger file.
//
// =============================================================================

package table

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies which member of the union a Value holds.
type Kind uint8

const (
	// KindNull is the zero Kind; a missing row key reads as null.
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindTime
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	default:
		return "null"
	}
}

// Value is a single cell value. The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  decimal.Decimal
	flag bool
	at   time.Time
}

// Null returns the null value.
func Null() Value { return Value{} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number wraps a decimal number.
func Number(d decimal.Decimal) Value { return Value{kind: KindNumber, num: d} }

// Float wraps a float64 as a number using its shortest decimal representation.
func Float(f float64) Value { return Number(decimal.NewFromFloat(f)) }

// Int wraps an integer as a number.
func Int(i int64) Value { return Number(decimal.NewFromInt(i)) }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// Time wraps a point in time.
func Time(t time.Time) Value { return Value{kind: KindTime, at: t} }

// Kind reports which member of the union v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Decimal returns the numeric payload. ok is false for non-numbers.
func (v Value) Decimal() (d decimal.Decimal, ok bool) {
	if v.kind != KindNumber {
		return decimal.Zero, false
	}
	return v.num, true
}

// Time returns the time payload. ok is false for non-times.
func (v Value) Time() (t time.Time, ok bool) {
	if v.kind != KindTime {
		return time.Time{}, false
	}
	return v.at, true
}

// Bool returns the boolean payload. ok is false for non-booleans.
func (v Value) Bool() (b bool, ok bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.flag, true
}

// String renders the value for display. Null renders as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num.String()
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindTime:
		return formatTime(v.at)
	default:
		return ""
	}
}

// Interface returns the payload as a plain Go value (nil for null).
// Numbers are returned as decimal.Decimal.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.flag
	case KindTime:
		return v.at
	default:
		return nil
	}
}

// MarshalJSON encodes the value as its native JSON type. Numbers are written
// unquoted and times use the same ISO-8601 layout as export timestamps.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return []byte(v.num.String()), nil
	case KindBool:
		return json.Marshal(v.flag)
	case KindTime:
		return json.Marshal(ISOTimestamp(v.at))
	default:
		return []byte("null"), nil
	}
}

// FromAny converts a decoded JSON (or YAML) scalar into a Value.
// Unsupported composite values are rendered with %v as strings.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case json.Number:
		if d, err := decimal.NewFromString(t.String()); err == nil {
			return Number(d)
		}
		return String(t.String())
	case float64:
		return Float(t)
	case float32:
		return Float(float64(t))
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case decimal.Decimal:
		return Number(t)
	case time.Time:
		return Time(t)
	default:
		return String(fmt.Sprintf("%v", t))
	}
}

// ISOTimestamp formats t as UTC ISO-8601 with millisecond precision,
// e.g. 2024-03-01T09:30:00.000Z.
func ISOTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// formatTime renders dates without a clock component as plain dates.
func formatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}
