package ledger

import (
	"github.com/ginjaninja78/tabex/internal/csvwriter"
	"github.com/ginjaninja78/tabex/internal/table"
)

const (
	xeroDateFormat = "02/01/2006" // DD/MM/YYYY
	xeroNoVAT      = "No VAT"
)

func init() {
	register(Xero{})
}

// Xero renders a bank-statement style CSV for Xero: one row per transaction
// with the signed amount and the debit-side account code.
type Xero struct{}

func (Xero) Name() string      { return "xero" }
func (Xero) Extension() string { return csvwriter.Extension }
func (Xero) MimeType() string  { return csvwriter.MimeType }

func (Xero) Fallback() Fallback {
	return Fallback{Debit: "610", Credit: "090"}
}

// Columns is the Xero statement column model. Starred headers are mandatory
// in Xero's importer.
func (Xero) Columns() []table.Column {
	return []table.Column{
		{Key: "date", Header: "*Date", Formatter: table.DateLayout(xeroDateFormat)},
		{Key: "amount", Header: "*Amount", Formatter: table.Fixed(2)},
		{Key: "payee", Header: "Payee"},
		{Key: "description", Header: "Description"},
		{Key: "reference", Header: "Reference"},
		{Key: "accountCode", Header: "Account Code"},
		{Key: "taxType", Header: "Tax Type"},
	}
}

// Rows projects each transaction into a single statement row.
func (x Xero) Rows(txs []Transaction, mapping AccountMapping) []table.Row {
	fb := x.Fallback()
	rows := make([]table.Row, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, table.Row{
			"date":        table.Time(tx.Date),
			"amount":      table.Number(tx.Amount),
			"payee":       table.String(tx.ClientName),
			"description": table.String(tx.Description),
			"reference":   table.String(tx.Reference),
			"accountCode": table.String(mapping.Resolve(tx.Type, Debit, fb.For(Debit))),
			"taxType":     table.String(xeroNoVAT),
		})
	}
	return rows
}

func (x Xero) Encode(txs []Transaction, mapping AccountMapping) string {
	return csvwriter.Encode(x.Columns(), x.Rows(txs, mapping))
}
