package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/codexi"
	"github.com/etnz/codexi/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// balanceCmd holds the flags for the 'balance' subcommand.
type balanceCmd struct {
	filter codexi.BalanceFilter
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "display the credit, debit and balance of operations" }
func (*balanceCmd) Usage() string {
	return `codexi balance [-from <date>] [-to <date>] [-day <date>] [-month <YYYY-MM>] [-year <YYYY>]

  Displays the total credit, total debit and balance of the selected operations.
  -from and -to accept a day (YYYY-MM-DD), a month (YYYY-MM) or a year (YYYY).
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.filter.From, "from", "", "First day, month or year included")
	f.StringVar(&c.filter.To, "to", "", "Last day, month or year included")
	f.StringVar(&c.filter.Day, "day", "", "Only this day (YYYY-MM-DD)")
	f.StringVar(&c.filter.Month, "month", "", "Only this month (YYYY-MM)")
	f.StringVar(&c.filter.Year, "year", "", "Only this year (YYYY)")
}

func (c *balanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := openLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	b, err := ledger.Balance(c.filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing balance: %v\n", err)
		return subcommands.ExitUsageError
	}
	printMarkdown(renderer.BalanceMarkdown(b, *currency))
	return subcommands.ExitSuccess
}

// resumeCmd holds the flags for the 'resume' subcommand.
type resumeCmd struct {
	short bool
}

func (*resumeCmd) Name() string     { return "resume" }
func (*resumeCmd) Synopsis() string { return "summarize the content of the ledger" }
func (*resumeCmd) Usage() string {
	return `codexi resume [-short]

  Displays the number of operations of each kind, their latest date
  and the current balance.
`
}

func (c *resumeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.short, "short", false, "Do not print the footnotes")
}

func (c *resumeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := openLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	r := renderer.NewResume(ledger.Resume(), *currency)
	printMarkdown(renderer.ResumeMarkdown(r, renderer.ResumeRenderOptions{SkipNotes: c.short}))
	return subcommands.ExitSuccess
}

// searchCmd holds the flags for the 'search' subcommand.
type searchCmd struct {
	query     codexi.SearchQuery
	amountMin string
	amountMax string
	latest    int
}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search operations" }
func (*searchCmd) Usage() string {
	return `codexi search [-from <date>] [-to <date>] [-day <date>] [-t <text>] [-k <kind>] [-f <flow>] [-amin <amount>] [-amax <amount>] [-latest <n>]

  Lists the matching operations with their index and the running balance
  of the ledger after each of them.
`
}

func (c *searchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.query.From, "from", "", "First day, month or year included")
	f.StringVar(&c.query.To, "to", "", "Last day, month or year included")
	f.StringVar(&c.query.Day, "day", "", "Only this day (YYYY-MM-DD)")
	f.StringVar(&c.query.Text, "t", "", "Text contained in the description, case-insensitive")
	f.StringVar(&c.query.Kind, "k", "", "Kind of operations")
	f.StringVar(&c.query.Flow, "f", "", "Flow of operations: credit or debit")
	f.StringVar(&c.amountMin, "amin", "", "Minimum amount")
	f.StringVar(&c.amountMax, "amax", "", "Maximum amount")
	f.IntVar(&c.latest, "latest", 0, "Keep only the latest n matches, 0 keeps none")
}

func parseBound(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	v, err := parseAmount(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(v), nil
}

func (c *searchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var err error
	if c.query.AmountMin, err = parseBound(c.amountMin); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -amin: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.query.AmountMax, err = parseBound(c.amountMax); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -amax: %v\n", err)
		return subcommands.ExitUsageError
	}
	f.Visit(func(fl *flag.Flag) {
		if fl.Name == "latest" {
			c.query.Latest = &c.latest
		}
	})
	if c.query.Latest != nil && *c.query.Latest < 0 {
		fmt.Fprintln(os.Stderr, "Error: -latest must not be negative")
		return subcommands.ExitUsageError
	}

	ledger, err := openLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	items, err := ledger.Search(c.query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error searching: %v\n", err)
		return subcommands.ExitUsageError
	}
	printMarkdown(renderer.SearchMarkdown(items, *currency))
	return subcommands.ExitSuccess
}
