package ledger

import (
	"github.com/ginjaninja78/tabex/internal/csvwriter"
	"github.com/ginjaninja78/tabex/internal/table"
)

const (
	sageDateFormat = "02/01/2006" // DD/MM/YYYY
	sageNoTax      = "T9"

	sageJournalDebit  = "JD"
	sageJournalCredit = "JC"
)

func init() {
	register(Sage{})
}

// Sage renders a journal CSV for Sage. Every transaction becomes a JD row on
// the debit nominal code with +amount and a JC row on the credit nominal code
// with -amount, sharing reference and details.
type Sage struct{}

func (Sage) Name() string      { return "sage" }
func (Sage) Extension() string { return csvwriter.Extension }
func (Sage) MimeType() string  { return csvwriter.MimeType }

func (Sage) Fallback() Fallback {
	return Fallback{Debit: "1100", Credit: "1200"}
}

// Columns is the Sage journal column model.
func (Sage) Columns() []table.Column {
	return []table.Column{
		{Key: "type", Header: "Type"},
		{Key: "nominal", Header: "Nominal A/C Ref"},
		{Key: "date", Header: "Date", Formatter: table.DateLayout(sageDateFormat)},
		{Key: "reference", Header: "Reference"},
		{Key: "details", Header: "Details"},
		{Key: "netAmount", Header: "Net Amount", Formatter: table.Fixed(2)},
		{Key: "taxCode", Header: "Tax Code"},
		{Key: "taxAmount", Header: "Tax Amount", Formatter: table.Fixed(2)},
	}
}

// Rows projects transactions into two journal rows each.
func (s Sage) Rows(txs []Transaction, mapping AccountMapping) []table.Row {
	rows := make([]table.Row, 0, 2*len(txs))
	for _, tx := range txs {
		debit, credit := accounts(mapping, tx.Type, s.Fallback())

		reference := tx.Reference
		if reference == "" {
			reference = tx.ID
		}

		base := func(journal, nominal string) table.Row {
			return table.Row{
				"type":      table.String(journal),
				"nominal":   table.String(nominal),
				"date":      table.Time(tx.Date),
				"reference": table.String(reference),
				"details":   table.String(tx.Description),
				"taxCode":   table.String(sageNoTax),
				"taxAmount": table.Int(0),
			}
		}

		dr := base(sageJournalDebit, debit)
		dr["netAmount"] = table.Number(tx.Amount)

		cr := base(sageJournalCredit, credit)
		cr["netAmount"] = table.Number(tx.Amount.Neg())

		rows = append(rows, dr, cr)
	}
	return rows
}

func (s Sage) Encode(txs []Transaction, mapping AccountMapping) string {
	return csvwriter.Encode(s.Columns(), s.Rows(txs, mapping))
}
