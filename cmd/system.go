package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/etnz/codexi"
	"github.com/etnz/codexi/date"
	"github.com/etnz/codexi/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// adjustCmd aligns the ledger balance with the physical balance.
type adjustCmd struct{}

func (*adjustCmd) Name() string     { return "adjust" }
func (*adjustCmd) Synopsis() string { return "align the balance with the physical balance" }
func (*adjustCmd) Usage() string {
	return `codexi adjust <balance> [<date>]

  Records an adjustment operation for the difference between the physical
  balance (e.g. a bank statement) and the ledger balance. Nothing is recorded
  when they already match.
`
}

func (c *adjustCmd) SetFlags(f *flag.FlagSet) {}

func (c *adjustCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 || f.NArg() > 2 {
		fmt.Fprintln(os.Stderr, "Error: adjust expects a balance and an optional date")
		return subcommands.ExitUsageError
	}
	physical, err := parseAmount(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing balance: %v\n", err)
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
	before := ledger.Len()
	if err := ledger.Adjust(physical, day); err != nil {
		fmt.Fprintf(os.Stderr, "Error adjusting balance: %v\n", err)
		return subcommands.ExitFailure
	}
	if ledger.Len() == before {
		if physical.IsNegative() {
			fmt.Fprintln(out, "Negative physical balance ignored, nothing to adjust")
			return subcommands.ExitSuccess
		}
		fmt.Fprintln(out, "Balance already matches, nothing to adjust")
		return subcommands.ExitSuccess
	}
	if err := saveLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(out, "Balance adjusted to %s on %s\n", physical.StringFixed(2), day)
	return subcommands.ExitSuccess
}

// closeCmd closes a period.
type closeCmd struct{}

func (*closeCmd) Name() string     { return "close" }
func (*closeCmd) Synopsis() string { return "archive operations up to a date" }
func (*closeCmd) Usage() string {
	return `codexi close <date> [<description>...]

  Moves every operation dated on or before date to an archive and replaces
  them by a single closing operation carrying the balance forward.
`
}

func (c *closeCmd) SetFlags(f *flag.FlagSet) {}

func (c *closeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: close expects a date")
		return subcommands.ExitUsageError
	}
	day := f.Arg(0)
	description := strings.Join(f.Args()[1:], " ")

	ledger, err := openLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	archives, release, err := openArchives()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer release()

	before := ledger.Operations()
	if err := ledger.ClosePeriod(archives, day, description); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing period: %v\n", err)
		return subcommands.ExitFailure
	}
	if slices.EqualFunc(before, ledger.Operations(), codexi.Operation.Equal) {
		fmt.Fprintf(out, "Nothing to close on %s\n", day)
		return subcommands.ExitSuccess
	}
	if err := saveLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(out, "Period closed on %s, balance carried forward is %s\n", day, ledger.CurrentBalance().StringFixed(2))
	return subcommands.ExitSuccess
}

// archivesCmd lists the archives.
type archivesCmd struct{}

func (*archivesCmd) Name() string     { return "archives" }
func (*archivesCmd) Synopsis() string { return "list the archives of closed periods" }
func (*archivesCmd) Usage() string {
	return `codexi archives

  Lists the archives written by period closings.
`
}

func (c *archivesCmd) SetFlags(f *flag.FlagSet) {}

func (c *archivesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	archives, release, err := openArchives()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer release()

	names, err := archives.ListArchives()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing archives: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.ListMarkdown("Archives", names))
	return subcommands.ExitSuccess
}

// archiveCmd displays the operations of an archive.
type archiveCmd struct{}

func (*archiveCmd) Name() string     { return "archive" }
func (*archiveCmd) Synopsis() string { return "display the operations of an archive" }
func (*archiveCmd) Usage() string {
	return `codexi archive <id>

  Displays the operations of an archive, as listed by archives.
  The closing date alone is also accepted.
`
}

func (c *archiveCmd) SetFlags(f *flag.FlagSet) {}

func (c *archiveCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: archive expects exactly one archive id")
		return subcommands.ExitUsageError
	}
	archives, release, err := openArchives()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer release()

	ops, err := archives.ReadArchive(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading archive: %v\n", err)
		return subcommands.ExitFailure
	}
	items := make([]codexi.SearchItem, 0, len(ops))
	running := decimal.Zero
	for i, op := range ops {
		running = running.Add(op.Signed())
		items = append(items, codexi.SearchItem{Index: i, Operation: op, Balance: running})
	}
	printMarkdown(renderer.SearchMarkdown(items, *currency))
	return subcommands.ExitSuccess
}

// backupCmd zips the data directory.
type backupCmd struct {
	target string
}

func (*backupCmd) Name() string     { return "backup" }
func (*backupCmd) Synopsis() string { return "save the data directory in a zip file" }
func (*backupCmd) Usage() string {
	return `codexi backup [-target <dir or file.zip>]

  Saves the ledger and the archives in a zip file. The target is either a
  zip file or a directory, the home directory by default.
`
}

func (c *backupCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.target, "target", "", "Directory or zip file to write")
}

func (c *backupCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path, err := codexi.BackupPath(c.target, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := codexi.Backup(*dataDir, path); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing backup: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(out, "Backup written to %s\n", path)
	return subcommands.ExitSuccess
}

// restoreCmd extracts a backup over the data directory.
type restoreCmd struct{}

func (*restoreCmd) Name() string     { return "restore" }
func (*restoreCmd) Synopsis() string { return "restore the data directory from a zip file" }
func (*restoreCmd) Usage() string {
	return `codexi restore <file.zip>

  Extracts a backup over the data directory.
`
}

func (c *restoreCmd) SetFlags(f *flag.FlagSet) {}

func (c *restoreCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: restore expects exactly one zip file")
		return subcommands.ExitUsageError
	}
	if err := codexi.Restore(*dataDir, f.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error restoring backup: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(out, "Data directory restored from %s\n", f.Arg(0))
	return subcommands.ExitSuccess
}
