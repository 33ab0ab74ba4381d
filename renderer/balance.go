package renderer

import (
	"bytes"

	"github.com/etnz/codexi"
	md "github.com/nao1215/markdown"
)

// BalanceMarkdown renders the credit, debit and total of a balance as a table.
func BalanceMarkdown(b codexi.Balance, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Balance")
	doc.Table(md.TableSet{
		Header: []string{"", "Amount"},
		Rows: [][]string{
			{"Credit", FormatAmount(b.Credit, currency)},
			{"Debit", FormatAmount(b.Debit, currency)},
			{"**Balance**", "**" + FormatAmount(b.Total, currency) + "**"},
		},
	})

	return doc.String()
}
