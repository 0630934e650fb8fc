package ledger

import (
	"strings"
)

const (
	iifDateFormat = "01/02/2006" // QuickBooks Desktop expects MM/DD/YYYY.
	iifTrnsType   = "GENERAL JOURNAL"
)

var iifSanitizer = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

func init() {
	register(QuickBooks{})
}

// QuickBooks renders the tab-separated IIF dialect of QuickBooks Desktop.
//
// Layout:
//
//	!TRNS	TRNSTYPE	DATE	ACCNT	NAME	AMOUNT	MEMO
//	!SPL	TRNSTYPE	DATE	ACCNT	NAME	AMOUNT	MEMO
//	!ENDTRNS
//	TRNS	...	<debit account>	...	<amount>	...
//	SPL	...	<credit account>	...	<-amount>	...
//	ENDTRNS
//
// The TRNS and SPL amounts of a transaction always sum to zero.
type QuickBooks struct{}

func (QuickBooks) Name() string      { return "quickbooks" }
func (QuickBooks) Extension() string { return ".iif" }
func (QuickBooks) MimeType() string  { return "text/plain;charset=utf-8;" }

func (QuickBooks) Fallback() Fallback {
	return Fallback{Debit: "Loans Receivable", Credit: "Cash"}
}

func (q QuickBooks) Encode(txs []Transaction, mapping AccountMapping) string {
	lines := make([]string, 0, 3+3*len(txs))
	lines = append(lines,
		iifLine("!TRNS", "TRNSTYPE", "DATE", "ACCNT", "NAME", "AMOUNT", "MEMO"),
		iifLine("!SPL", "TRNSTYPE", "DATE", "ACCNT", "NAME", "AMOUNT", "MEMO"),
		"!ENDTRNS",
	)

	for _, tx := range txs {
		debit, credit := accounts(mapping, tx.Type, q.Fallback())
		date := tx.Date.Format(iifDateFormat)

		lines = append(lines,
			iifLine("TRNS", iifTrnsType, date, debit, tx.ClientName, tx.Amount.String(), tx.Description),
			iifLine("SPL", iifTrnsType, date, credit, tx.ClientName, tx.Amount.Neg().String(), tx.Description),
			"ENDTRNS",
		)
	}

	return strings.Join(lines, "\n")
}

// iifLine joins fields with tabs after stripping tabs and line breaks out of
// each field.
func iifLine(fields ...string) string {
	for i, f := range fields {
		fields[i] = iifSanitizer.Replace(f)
	}
	return strings.Join(fields, "\t")
}
