package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/codexi"
	"github.com/etnz/codexi/renderer"
	"github.com/google/subcommands"
)

// format selects the export/import file format from the -csv and -yaml flags.
type format struct {
	csv  bool
	yaml bool
}

func (f *format) setFlags(fs *flag.FlagSet) {
	fs.BoolVar(&f.csv, "csv", false, "Use the CSV format")
	fs.BoolVar(&f.yaml, "yaml", false, "Use the YAML format")
}

func (f *format) validate() error {
	if f.csv == f.yaml {
		return fmt.Errorf("exactly one of -csv or -yaml is required")
	}
	return nil
}

// defaultFile is the file used when no path is given.
func (f *format) defaultFile() string {
	if f.csv {
		return filepath.Join(*dataDir, codexi.CSVFile)
	}
	return filepath.Join(*dataDir, codexi.YAMLFile)
}

// exportCmd holds the flags for the 'export' subcommand.
type exportCmd struct {
	format
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the ledger to CSV or YAML" }
func (*exportCmd) Usage() string {
	return `codexi export -csv|-yaml [-o <file>]

  Writes every operation of the ledger to a file, codexi.csv or codexi.yaml
  in the data directory by default. Use "-o -" to write to the standard output.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	c.format.setFlags(f)
	f.StringVar(&c.output, "o", "", "Output file")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	ledger, err := openLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	export := codexi.ExportYAML
	if c.csv {
		export = codexi.ExportCSV
	}

	if c.output == "-" {
		if err := export(out, ledger); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting ledger: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	path := c.output
	if path == "" {
		path = c.defaultFile()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating directory for %q: %v\n", path, err)
		return subcommands.ExitFailure
	}
	file, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", path, err)
		return subcommands.ExitFailure
	}
	if err := export(file, ledger); err != nil {
		file.Close()
		fmt.Fprintf(os.Stderr, "Error exporting ledger to %q: %v\n", path, err)
		return subcommands.ExitFailure
	}
	if err := file.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing %q: %v\n", path, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(out, "Exported %d operations to %s\n", ledger.Len(), path)
	return subcommands.ExitSuccess
}

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	format
	input string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace the ledger with a CSV or YAML file" }
func (*importCmd) Usage() string {
	return `codexi import -csv|-yaml [-i <file>]

  Replaces the ledger with the operations of a file, codexi.csv or codexi.yaml
  in the data directory by default. A snapshot of the current ledger is
  taken first. Use "-i -" to read the standard input.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	c.format.setFlags(f)
	f.StringVar(&c.input, "i", "", "Input file")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	var r io.Reader = os.Stdin
	if c.input != "-" {
		path := c.input
		if path == "" {
			path = c.defaultFile()
		}
		file, err := os.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", path, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		r = file
	}

	importer := codexi.ImportYAML
	if c.csv {
		importer = codexi.ImportCSV
	}
	imported, err := importer(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := imported.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error importing: %v\n", err)
		return subcommands.ExitFailure
	}

	current, err := openLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	name, err := codexi.Snapshot(*dataDir, current, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error taking a snapshot before import: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := saveLedger(imported); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(out, "Imported %d operations, previous ledger saved in snapshot %s\n", imported.Len(), name)
	return subcommands.ExitSuccess
}

// snapshotCmd saves a copy of the ledger.
type snapshotCmd struct{}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "save a timestamped copy of the ledger" }
func (*snapshotCmd) Usage() string {
	return `codexi snapshot

  Saves a copy of the ledger in the snapshots directory.
`
}

func (c *snapshotCmd) SetFlags(f *flag.FlagSet) {}

func (c *snapshotCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := openLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	name, err := codexi.Snapshot(*dataDir, ledger, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(out, "Snapshot %s saved\n", name)
	return subcommands.ExitSuccess
}

// snapshotsCmd lists the snapshots.
type snapshotsCmd struct{}

func (*snapshotsCmd) Name() string     { return "snapshots" }
func (*snapshotsCmd) Synopsis() string { return "list the snapshots" }
func (*snapshotsCmd) Usage() string {
	return `codexi snapshots

  Lists the snapshots, oldest first.
`
}

func (c *snapshotsCmd) SetFlags(f *flag.FlagSet) {}

func (c *snapshotsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	names, err := codexi.ListSnapshots(*dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing snapshots: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.ListMarkdown("Snapshots", names))
	return subcommands.ExitSuccess
}

// restoreSnapshotCmd replaces the ledger with a snapshot.
type restoreSnapshotCmd struct{}

func (*restoreSnapshotCmd) Name() string     { return "restore-snapshot" }
func (*restoreSnapshotCmd) Synopsis() string { return "replace the ledger with a snapshot" }
func (*restoreSnapshotCmd) Usage() string {
	return `codexi restore-snapshot <name>

  Replaces the ledger with the content of a snapshot, as listed by snapshots.
`
}

func (c *restoreSnapshotCmd) SetFlags(f *flag.FlagSet) {}

func (c *restoreSnapshotCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: restore-snapshot expects exactly one snapshot name")
		return subcommands.ExitUsageError
	}
	ledger, err := codexi.RestoreSnapshot(*dataDir, f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := ledger.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error restoring %s: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	if err := saveLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(out, "Ledger restored from %s: %d operations\n", f.Arg(0), ledger.Len())
	return subcommands.ExitSuccess
}
