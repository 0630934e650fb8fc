// =============================================================================
// Tabex - Printable Document Writer
// =============================================================================
//
// This module renders rows as a self-contained HTML page meant to be opened
// in a new browser window and printed. The page carries:
//   - Inline styles (no external assets)
//   - An optional title and subtitle
//   - A table with one header cell per column
//   - A caption with the total record count and the generation time
//   - A print button that hides itself when printing
//
// ESCAPING:
//   Cell text, headers and titles are HTML-escaped. Options.RawHTML turns
//   escaping off for callers that rely on passing markup through cells.
//
// =============================================================================

package htmlwriter

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/ginjaninja78/tabex/internal/table"
)

// MimeType is the MIME type of the rendered document.
const MimeType = "text/html;charset=utf-8;"

// Options configures a rendered document.
type Options struct {
	Title    string
	Subtitle string

	// GeneratedAt is printed in the caption.
	GeneratedAt time.Time

	// RawHTML interpolates values without escaping.
	RawHTML bool
}

// Encode renders the printable document.
//
// PARAMETERS:
//   - columns: The ordered column model. Headers become <th> cells.
//   - rows: The rows to render through each column's formatter.
//   - opts: Title block, generation time and escaping mode.
//
// RETURNS:
//   - The complete HTML document.
func Encode(columns []table.Column, rows []table.Row, opts Options) string {
	esc := html.EscapeString
	if opts.RawHTML {
		esc = func(s string) string { return s }
	}

	title := opts.Title
	if title == "" {
		title = "Export"
	}

	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", esc(title)))
	sb.WriteString("    <style>\n")
	sb.WriteString(styles)
	sb.WriteString("    </style>\n")
	sb.WriteString("</head>\n")
	sb.WriteString("<body>\n")

	sb.WriteString("    <button class=\"print-button no-print\" onclick=\"window.print()\">Print</button>\n")

	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf("    <h1>%s</h1>\n", esc(opts.Title)))
	}
	if opts.Subtitle != "" {
		sb.WriteString(fmt.Sprintf("    <h2>%s</h2>\n", esc(opts.Subtitle)))
	}

	sb.WriteString("    <table>\n")
	sb.WriteString("        <caption>\n")
	sb.WriteString(fmt.Sprintf("            <span>Total records: %d</span>\n", len(rows)))
	sb.WriteString(fmt.Sprintf("            <span>Generated: %s</span>\n",
		opts.GeneratedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString("        </caption>\n")

	sb.WriteString("        <thead>\n            <tr>")
	for _, col := range columns {
		sb.WriteString(fmt.Sprintf("<th>%s</th>", esc(col.Header)))
	}
	sb.WriteString("</tr>\n        </thead>\n")

	sb.WriteString("        <tbody>\n")
	for _, row := range rows {
		sb.WriteString("            <tr>")
		for _, col := range columns {
			sb.WriteString(fmt.Sprintf("<td>%s</td>", esc(col.Text(row))))
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("        </tbody>\n")
	sb.WriteString("    </table>\n")

	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return sb.String()
}

const styles = `        body { font-family: Arial, Helvetica, sans-serif; margin: 24px; color: #222; }
        h1 { font-size: 20px; margin: 0 0 4px 0; }
        h2 { font-size: 14px; font-weight: normal; color: #555; margin: 0 0 16px 0; }
        table { width: 100%; border-collapse: collapse; font-size: 12px; }
        caption { caption-side: top; text-align: left; padding: 6px 0; color: #555; }
        caption span { margin-right: 24px; }
        th, td { border: 1px solid #ccc; padding: 6px 8px; text-align: left; }
        th { background: #f2f2f2; }
        tr:nth-child(even) td { background: #fafafa; }
        .print-button { float: right; padding: 6px 14px; cursor: pointer; }
        @media print {
            .no-print { display: none; }
            body { margin: 0; }
        }
`
