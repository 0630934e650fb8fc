// =============================================================================
// Tabex - Formatter Actions
// =============================================================================
//
// Export profiles declared in YAML cannot carry Go closures, so column
// formatting is described as an ordered chain of named actions which Compile
// turns into a single Formatter.
//
// SUPPORTED ACTIONS:
//   - prepend_string / append_string
//   - trim / uppercase / lowercase
//   - replace / regex_replace
//   - pad_zeros_to_length
//   - format_number / format_currency
//   - format_date
//   - lookup / lookup_with_default
//   - if_empty_use_default / if_empty_use_field
//
// Each action receives the text produced by the previous one. The first
// action sees the display text of the raw value.
//
// =============================================================================

package table

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Action is one step in a formatter chain.
type Action struct {
	// Type is one of the action names listed above.
	Type string `yaml:"type" toml:"type" validate:"required"`

	// Value is the action parameter. Its meaning depends on Type:
	//   - prepend_string / append_string : the text to add
	//   - replace / regex_replace        : the replacement
	//   - pad_zeros_to_length            : the target length, e.g. "8"
	//   - format_number                  : the decimal places, e.g. "2"
	//   - format_date                    : "input_layout|output_layout"
	//   - lookup_with_default            : the default for unknown values
	//   - if_empty_use_default           : the default text
	//   - if_empty_use_field             : the other row key
	Value string `yaml:"value,omitempty" toml:"value,omitempty"`

	// Find is the substring or pattern used by replace and regex_replace.
	Find string `yaml:"find,omitempty" toml:"find,omitempty"`

	// LookupTable maps input text to output text for the lookup actions.
	LookupTable map[string]string `yaml:"lookup_table,omitempty" toml:"lookup_table,omitempty"`
}

// step is a compiled action.
type step func(text string, row Row) string

// Compile validates a chain of actions and returns a Formatter applying them
// in order. An empty chain yields a nil Formatter (raw values).
func Compile(actions []Action) (Formatter, error) {
	if len(actions) == 0 {
		return nil, nil
	}

	steps := make([]step, 0, len(actions))
	for i, action := range actions {
		s, err := compileAction(action)
		if err != nil {
			return nil, fmt.Errorf("action %d (%s): %w", i+1, action.Type, err)
		}
		steps = append(steps, s)
	}

	return func(v Value, row Row) string {
		text := v.String()
		for _, s := range steps {
			text = s(text, row)
		}
		return text
	}, nil
}

// compileAction turns a single action into a step.
//
// PARAMETERS:
//   - action: The action declared in the profile.
//
// RETURNS:
//   - The compiled step.
//   - An error for unknown types or malformed parameters.
func compileAction(action Action) (step, error) {
	switch action.Type {

	// =========================================================================
	// STRING MANIPULATIONS
	// =========================================================================

	case "prepend_string":
		return func(text string, _ Row) string { return action.Value + text }, nil

	case "append_string":
		return func(text string, _ Row) string { return text + action.Value }, nil

	case "trim":
		return func(text string, _ Row) string { return strings.TrimSpace(text) }, nil

	case "uppercase":
		return func(text string, _ Row) string { return strings.ToUpper(text) }, nil

	case "lowercase":
		return func(text string, _ Row) string { return strings.ToLower(text) }, nil

	case "replace":
		if action.Find == "" {
			return nil, fmt.Errorf("replace requires find")
		}
		return func(text string, _ Row) string {
			return strings.ReplaceAll(text, action.Find, action.Value)
		}, nil

	case "regex_replace":
		re, err := regexp.Compile(action.Find)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern: %w", err)
		}
		return func(text string, _ Row) string {
			return re.ReplaceAllString(text, action.Value)
		}, nil

	// =========================================================================
	// NUMERIC FORMATTING
	// =========================================================================

	case "pad_zeros_to_length":
		length, err := strconv.Atoi(action.Value)
		if err != nil || length <= 0 {
			return nil, fmt.Errorf("pad_zeros_to_length requires a positive length, got %q", action.Value)
		}
		return func(text string, _ Row) string { return PadLeft(text, length, '0') }, nil

	case "format_number":
		places, err := strconv.Atoi(action.Value)
		if err != nil || places < 0 {
			return nil, fmt.Errorf("format_number requires decimal places, got %q", action.Value)
		}
		return func(text string, _ Row) string { return fixed(text, int32(places)) }, nil

	case "format_currency":
		return func(text string, _ Row) string { return fixed(text, 2) }, nil

	// =========================================================================
	// DATE CONVERSIONS
	// =========================================================================

	case "format_date":
		parts := strings.Split(action.Value, "|")
		if len(parts) != 2 {
			return nil, fmt.Errorf("format_date requires \"input|output\" layouts, got %q", action.Value)
		}
		in, out := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		return func(text string, _ Row) string {
			t, err := time.Parse(in, text)
			if err != nil {
				return text
			}
			return t.Format(out)
		}, nil

	// =========================================================================
	// LOOKUPS AND DEFAULTS
	// =========================================================================

	case "lookup":
		return func(text string, _ Row) string {
			if replacement, ok := action.LookupTable[text]; ok {
				return replacement
			}
			return text
		}, nil

	case "lookup_with_default":
		return func(text string, _ Row) string {
			if replacement, ok := action.LookupTable[text]; ok {
				return replacement
			}
			return action.Value
		}, nil

	case "if_empty_use_default":
		return func(text string, _ Row) string {
			if strings.TrimSpace(text) == "" {
				return action.Value
			}
			return text
		}, nil

	case "if_empty_use_field":
		if action.Value == "" {
			return nil, fmt.Errorf("if_empty_use_field requires the other field key")
		}
		return func(text string, row Row) string {
			if strings.TrimSpace(text) == "" {
				return row[action.Value].String()
			}
			return text
		}, nil

	default:
		return nil, fmt.Errorf("unknown formatter action: %s", action.Type)
	}
}

// =============================================================================
// READY-MADE FORMATTERS
// =============================================================================

// Fixed formats numeric values with exactly places decimal digits.
// Non-numeric text passes through unchanged and null renders as "".
func Fixed(places int32) Formatter {
	return func(v Value, _ Row) string {
		if d, ok := v.Decimal(); ok {
			return d.StringFixed(places)
		}
		return fixed(v.String(), places)
	}
}

// DateLayout formats time values with layout. Non-time values render as text.
func DateLayout(layout string) Formatter {
	return func(v Value, _ Row) string {
		if t, ok := v.Time(); ok {
			return t.Format(layout)
		}
		return v.String()
	}
}

// fixed re-renders numeric text with a fixed number of decimal places.
func fixed(text string, places int32) string {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return text
	}
	return d.StringFixed(places)
}

// PadLeft pads a string with a character on the left to reach the target length.
func PadLeft(s string, length int, padChar rune) string {
	n := len([]rune(s))
	if n >= length {
		return s
	}
	return strings.Repeat(string(padChar), length-n) + s
}
