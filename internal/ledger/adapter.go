package ledger

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownSystem is returned by Lookup for an unregistered system name.
var ErrUnknownSystem = errors.New("unknown accounting system")

// Adapter renders transactions in one accounting system's import dialect.
type Adapter interface {
	// Name is the registry key, e.g. "quickbooks".
	Name() string

	// Extension is the file extension including the dot.
	Extension() string

	// MimeType is the MIME type handed to the sink.
	MimeType() string

	// Fallback is the literal account pair used when the mapping has no entry.
	Fallback() Fallback

	// Encode renders the file contents.
	Encode(txs []Transaction, mapping AccountMapping) string
}

var adapters = map[string]Adapter{}

func register(a Adapter) {
	adapters[a.Name()] = a
}

// Lookup returns the adapter registered under name (case-insensitive).
func Lookup(name string) (Adapter, error) {
	a, ok := adapters[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSystem, name)
	}
	return a, nil
}

// Systems lists the registered system names in alphabetical order.
func Systems() []string {
	names := make([]string, 0, len(adapters))
	for name := range adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
