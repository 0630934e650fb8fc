// Package ledger turns generic financial transactions into the import files
// of external accounting systems: QuickBooks Desktop (IIF), Sage (CSV) and
// Xero (CSV).
//
// Every adapter resolves the debit and credit accounts of a transaction from
// an AccountMapping and always produces an account, falling back to a
// per-system literal when the mapping has nothing for the transaction type.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/tabex/internal/table"
)

// Transaction is one resolved financial movement. Amount is signed and its
// sign decides which side of the ledger it lands on.
type Transaction struct {
	ID          string
	Date        time.Time
	Type        string
	Amount      decimal.Decimal
	ClientName  string
	Description string
	Reference   string
}

// Row field names read by FromRows. Matching is case-insensitive and ignores
// spaces and underscores, so "Client Name" and "client_name" both match.
const (
	FieldID          = "id"
	FieldDate        = "date"
	FieldType        = "type"
	FieldAmount      = "amount"
	FieldClientName  = "clientName"
	FieldDescription = "description"
	FieldReference   = "reference"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006",
}

// FromRows converts imported rows into transactions. Rows that have no
// parseable date or amount are reported in errs by 1-based position and
// skipped.
func FromRows(rows []table.Row) (txs []Transaction, errs []string) {
	txs = make([]Transaction, 0, len(rows))
	for i, row := range rows {
		tx, err := fromRow(row)
		if err != nil {
			errs = append(errs, fmt.Sprintf("transaction %d: %v", i+1, err))
			continue
		}
		txs = append(txs, tx)
	}
	return txs, errs
}

func fromRow(row table.Row) (Transaction, error) {
	fields := make(map[string]table.Value, len(row))
	for k, v := range row {
		fields[normalizeKey(k)] = v
	}
	get := func(name string) table.Value { return fields[normalizeKey(name)] }

	date, err := parseDate(get(FieldDate))
	if err != nil {
		return Transaction{}, err
	}
	amount, err := parseAmount(get(FieldAmount))
	if err != nil {
		return Transaction{}, err
	}

	return Transaction{
		ID:          get(FieldID).String(),
		Date:        date,
		Type:        strings.TrimSpace(get(FieldType).String()),
		Amount:      amount,
		ClientName:  get(FieldClientName).String(),
		Description: get(FieldDescription).String(),
		Reference:   get(FieldReference).String(),
	}, nil
}

func normalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	k = strings.ReplaceAll(k, " ", "")
	return strings.ReplaceAll(k, "_", "")
}

func parseDate(v table.Value) (time.Time, error) {
	if t, ok := v.Time(); ok {
		return t, nil
	}
	text := strings.TrimSpace(v.String())
	if text == "" {
		return time.Time{}, fmt.Errorf("missing date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", text)
}

func parseAmount(v table.Value) (decimal.Decimal, error) {
	if d, ok := v.Decimal(); ok {
		return d, nil
	}
	text := strings.TrimSpace(v.String())
	if text == "" {
		return decimal.Zero, fmt.Errorf("missing amount")
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(text, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", text)
	}
	return d, nil
}
