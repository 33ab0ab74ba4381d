package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/codexi"
	"github.com/etnz/codexi/date"
	"github.com/google/subcommands"
)

// initCmd creates the initial balance of an empty ledger.
type initCmd struct{}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "initialize an empty ledger with its opening balance" }
func (*initCmd) Usage() string {
	return `codexi init <amount> [<date>]

  Records the opening balance of the ledger, dated today by default.
  A negative amount opens the ledger in debit.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {}

func (c *initCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 || f.NArg() > 2 {
		fmt.Fprintln(os.Stderr, "Error: init expects an amount and an optional date")
		return subcommands.ExitUsageError
	}
	amount, err := parseAmount(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount: %v\n", err)
		return subcommands.ExitUsageError
	}
	day := date.Today().String()
	if f.NArg() == 2 {
		day = f.Arg(1)
	}

	ledger, err := openLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := ledger.Initialize(amount, day); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := saveLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(out, "Ledger initialized on %s with %s\n", day, amount.StringFixed(2))
	return subcommands.ExitSuccess
}

// recordCmd appends a regular operation. It serves credit, debit and add:
// credit and debit have a fixed flow and record a transaction by default.
type recordCmd struct {
	name string
	flow codexi.Flow

	date     string
	kind     string
	flowText string
}

func newRecordCmd(name string, flow codexi.Flow) *recordCmd {
	return &recordCmd{name: name, flow: flow}
}

func (c *recordCmd) Name() string { return c.name }
func (c *recordCmd) Synopsis() string {
	if c.flow == codexi.None {
		return "record an operation of any regular kind"
	}
	return fmt.Sprintf("record a %s operation", strings.ToLower(c.flow.String()))
}
func (c *recordCmd) Usage() string {
	if c.flow == codexi.None {
		return `codexi add -f <flow> [-k <kind>] [-d <date>] <amount> [<description>...]

  Records an operation. Kinds are transaction, fee, transfer and refund,
  flows are credit and debit. Abbreviations are accepted.
`
	}
	return fmt.Sprintf(`codexi %s [-k <kind>] [-d <date>] <amount> [<description>...]

  Records a %s. A debit cannot exceed the current balance.
`, c.name, strings.ToLower(c.flow.String()))
}

func (c *recordCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Date of the operation (YYYY-MM-DD)")
	f.StringVar(&c.kind, "k", codexi.Regular(codexi.Transaction).Name(), "Kind of the operation: transaction, fee, transfer or refund")
	if c.flow == codexi.None {
		f.StringVar(&c.flowText, "f", "", "Flow of the operation: credit or debit")
	}
}

func (c *recordCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: %s expects an amount\n", c.name)
		return subcommands.ExitUsageError
	}
	amount, err := parseAmount(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount: %v\n", err)
		return subcommands.ExitUsageError
	}
	description := strings.Join(f.Args()[1:], " ")

	kind, err := codexi.ParseKind(c.kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing kind: %v\n", err)
		return subcommands.ExitUsageError
	}
	if kind.IsSystem() {
		fmt.Fprintf(os.Stderr, "Error: %s is a system kind, use the init, adjust or close commands\n", kind.Name())
		return subcommands.ExitUsageError
	}
	flow := c.flow
	if flow == codexi.None {
		flow, err = codexi.ParseFlow(c.flowText)
		if err != nil || flow == codexi.None {
			fmt.Fprintf(os.Stderr, "Error parsing flow %q: expected credit or debit\n", c.flowText)
			return subcommands.ExitUsageError
		}
	}

	ledger, err := openLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := ledger.Append(kind, flow, c.date, amount, description); err != nil {
		fmt.Fprintf(os.Stderr, "Error recording operation: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := saveLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(out, "Recorded %s %s of %s on %s, balance is %s\n", kind.Name(), strings.ToLower(flow.String()), amount.StringFixed(2), c.date, ledger.CurrentBalance().StringFixed(2))
	return subcommands.ExitSuccess
}

// rmCmd deletes a regular operation by its index.
type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete an operation" }
func (*rmCmd) Usage() string {
	return `codexi rm <index>

  Deletes the operation at index, as shown by search.
  System operations (init, adjust, close) cannot be deleted.
`
}

func (c *rmCmd) SetFlags(f *flag.FlagSet) {}

func (c *rmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: rm expects exactly one index")
		return subcommands.ExitUsageError
	}
	index, err := strconv.Atoi(strings.TrimPrefix(f.Arg(0), "#"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing index %q: %v\n", f.Arg(0), err)
		return subcommands.ExitUsageError
	}

	ledger, err := openLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := ledger.Delete(index); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting operation: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := saveLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(out, "Deleted operation #%d\n", index)
	return subcommands.ExitSuccess
}

// checkCmd validates the stored ledger.
type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "check the consistency of the ledger" }
func (*checkCmd) Usage() string {
	return `codexi check

  Verifies that operations are in chronological order and that no regular
  operation is dated on or before the latest closing.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {}

func (c *checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := openLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := ledger.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(out, "Ledger is valid: %d operations\n", ledger.Len())
	return subcommands.ExitSuccess
}
