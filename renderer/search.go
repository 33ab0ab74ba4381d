package renderer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/codexi"
	md "github.com/nao1215/markdown"
)

// DescriptionWidth is the number of characters of a description displayed in a search result.
const DescriptionWidth = 30

// SearchMarkdown renders search results with their running balance.
func SearchMarkdown(items []codexi.SearchItem, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Operations")
	if len(items) == 0 {
		doc.PlainText("No operation found.")
		return doc.String()
	}

	truncated := false
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		op := item.Operation
		desc, cut := Truncate(op.Description(), DescriptionWidth)
		truncated = truncated || cut
		rows = append(rows, []string{
			fmt.Sprintf("#%d", item.Index),
			op.When().String(),
			op.Kind().String(),
			op.Flow().String(),
			FormatAmount(op.Amount(), currency),
			FormatAmount(item.Balance, currency),
			desc,
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"Index", "Date", "Kind", "Flow", "Amount", "Balance", "Description"},
		Rows:   rows,
	})
	doc.PlainText(fmt.Sprintf("Total operations found: %d", len(items)))

	var b strings.Builder
	b.WriteString(doc.String())
	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprintf(w, "\n_Descriptions longer than %d characters are truncated with '...'._\n", DescriptionWidth)
		return truncated
	})
	return b.String()
}

// Truncate shortens s to at most width runes, ending it with "..." when it had to be cut.
func Truncate(s string, width int) (string, bool) {
	r := []rune(s)
	if len(r) <= width {
		return s, false
	}
	keep := max(width-3, 0)
	return string(r[:keep]) + "...", true
}
