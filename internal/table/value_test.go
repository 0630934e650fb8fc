package table

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_ZeroIsNull(t *testing.T) {
	var v Value
	assert.True(t, v.IsNull())
	assert.Equal(t, KindNull, v.Kind())
	assert.Equal(t, "", v.String())
	assert.Nil(t, v.Interface())
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null", Null(), ""},
		{"string", String("Jane"), "Jane"},
		{"integer", Int(500), "500"},
		{"negative decimal", Number(decimal.RequireFromString("-12.50")), "-12.5"},
		{"float", Float(0.1), "0.1"},
		{"bool", Bool(true), "true"},
		{"date only", Time(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)), "2024-03-01"},
		{"date time", Time(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)), "2024-03-01T09:30:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.String())
		})
	}
}

func TestValue_Accessors(t *testing.T) {
	d, ok := Int(7).Decimal()
	require.True(t, ok)
	assert.True(t, d.Equal(decimal.NewFromInt(7)))

	_, ok = String("7").Decimal()
	assert.False(t, ok)

	b, ok := Bool(false).Bool()
	require.True(t, ok)
	assert.False(t, b)

	_, ok = Null().Time()
	assert.False(t, ok)
}

func TestValue_MarshalJSON(t *testing.T) {
	row := map[string]Value{
		"a": Int(100),
		"b": String(`say "hi"`),
		"c": Null(),
		"d": Bool(true),
		"e": Time(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)),
	}

	out, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"a":100,"b":"say \"hi\"","c":null,"d":true,"e":"2024-03-01T09:30:00.000Z"}`,
		string(out))
}

func TestFromAny(t *testing.T) {
	at := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   any
		kind Kind
		want string
	}{
		{"nil", nil, KindNull, ""},
		{"string", "x", KindString, "x"},
		{"bool", true, KindBool, "true"},
		{"json number", json.Number("12.30"), KindNumber, "12.3"},
		{"bad json number", json.Number("abc"), KindString, "abc"},
		{"float", 2.5, KindNumber, "2.5"},
		{"int", 3, KindNumber, "3"},
		{"decimal", decimal.RequireFromString("1.01"), KindNumber, "1.01"},
		{"time", at, KindTime, "2024-01-02"},
		{"value", String("v"), KindString, "v"},
		{"slice", []int{1, 2}, KindString, "[1 2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := FromAny(tt.in)
			assert.Equal(t, tt.kind, v.Kind())
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestISOTimestamp(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	at := time.Date(2024, 3, 1, 11, 30, 0, 250_000_000, loc)
	assert.Equal(t, "2024-03-01T09:30:00.250Z", ISOTimestamp(at))
}
