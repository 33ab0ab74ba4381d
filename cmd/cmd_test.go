package cmd

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/etnz/codexi"
	"github.com/google/subcommands"
)

// setup points the global flags to a fresh data directory.
func setup(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "data")
	oldDir, oldDB, oldCurrency, oldPlain := *dataDir, *archiveDB, *currency, *plain
	*dataDir, *archiveDB, *currency, *plain = dir, "", "USD", true
	t.Cleanup(func() {
		*dataDir, *archiveDB, *currency, *plain = oldDir, oldDB, oldCurrency, oldPlain
	})
	return dir
}

// run executes c with args and returns what it printed.
func run(t *testing.T, c subcommands.Command, args ...string) (string, subcommands.ExitStatus) {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	f.SetOutput(io.Discard)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("%s: invalid arguments %v: %v", c.Name(), args, err)
	}
	var buf bytes.Buffer
	old := out
	out = &buf
	defer func() { out = old }()
	status := c.Execute(context.Background(), f)
	return buf.String(), status
}

// mustRun is like run but fails the test unless c succeeds.
func mustRun(t *testing.T, c subcommands.Command, args ...string) string {
	t.Helper()
	got, status := run(t, c, args...)
	if status != subcommands.ExitSuccess {
		t.Fatalf("%s %v exited with %v", c.Name(), args, status)
	}
	return got
}

func credit() subcommands.Command { return newRecordCmd("credit", codexi.Credit) }
func debit() subcommands.Command  { return newRecordCmd("debit", codexi.Debit) }
func add() subcommands.Command    { return newRecordCmd("add", codexi.None) }

// initLedger records the scenario of an opening balance, a credit and a debit.
func initLedger(t *testing.T) {
	t.Helper()
	mustRun(t, &initCmd{}, "1000.00", "2024-07-01")
	mustRun(t, credit(), "-d", "2024-07-05", "50.00", "x")
	mustRun(t, debit(), "-d", "2024-07-10", "30.00", "y")
}

func loadLen(t *testing.T, dir string) int {
	t.Helper()
	l, err := codexi.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	return l.Len()
}

func assertContains(t *testing.T, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("output does not contain %q:\n%s", want, got)
		}
	}
}

func TestLedgerCommands(t *testing.T) {
	dir := setup(t)
	initLedger(t)

	assertContains(t, mustRun(t, &balanceCmd{}), "$1,050.00", "$30.00", "$1,020.00")
	assertContains(t, mustRun(t, &balanceCmd{}, "-day", "2024-07-10"), "-$30.00")
	assertContains(t, mustRun(t, &resumeCmd{}), "| Transactions | 2 | 2024-07-10 |", "**Current balance**: $1,020.00")
	assertContains(t, mustRun(t, &searchCmd{}, "-t", "y"), "#2", "Total operations found: 1")
	assertContains(t, mustRun(t, &checkCmd{}), "3 operations")

	if _, status := run(t, &initCmd{}, "10", "2024-08-01"); status != subcommands.ExitFailure {
		t.Errorf("init of a non empty ledger = %v, want failure", status)
	}
	if _, status := run(t, &rmCmd{}, "0"); status != subcommands.ExitFailure {
		t.Errorf("rm of the initial operation = %v, want failure", status)
	}
	mustRun(t, &rmCmd{}, "#2")
	if got := loadLen(t, dir); got != 2 {
		t.Errorf("ledger has %d operations after rm, want 2", got)
	}
	assertContains(t, mustRun(t, &balanceCmd{}), "$1,050.00")
}

func TestRecordErrors(t *testing.T) {
	dir := setup(t)
	initLedger(t)

	testCases := []struct {
		name string
		cmd  subcommands.Command
		args []string
		want subcommands.ExitStatus
	}{
		{"missing amount", credit(), []string{"-d", "2024-07-11"}, subcommands.ExitUsageError},
		{"invalid amount", credit(), []string{"-d", "2024-07-11", "ten"}, subcommands.ExitUsageError},
		{"negative amount", credit(), []string{"-d", "2024-07-11", "--", "-10"}, subcommands.ExitFailure},
		{"insufficient funds", debit(), []string{"-d", "2024-07-11", "5000"}, subcommands.ExitFailure},
		{"invalid date", debit(), []string{"-d", "11/07/2024", "1"}, subcommands.ExitFailure},
		{"add without flow", add(), []string{"-d", "2024-07-11", "1"}, subcommands.ExitUsageError},
		{"add with a system kind", add(), []string{"-f", "credit", "-k", "init", "1"}, subcommands.ExitUsageError},
		{"add with an unknown kind", add(), []string{"-f", "credit", "-k", "gift", "1"}, subcommands.ExitUsageError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, status := run(t, tc.cmd, tc.args...); status != tc.want {
				t.Errorf("%s %v = %v, want %v", tc.cmd.Name(), tc.args, status, tc.want)
			}
		})
	}
	if got := loadLen(t, dir); got != 3 {
		t.Errorf("ledger has %d operations after failed commands, want 3", got)
	}

	assertContains(t, mustRun(t, add(), "-k", "fee", "-f", "db", "-d", "2024-07-12", "2.5", "card", "fee"), "Recorded fee debit of 2.50")
}

func TestSearchUsage(t *testing.T) {
	setup(t)
	initLedger(t)
	if _, status := run(t, &searchCmd{}, "-amin", "lots"); status != subcommands.ExitUsageError {
		t.Errorf("search -amin lots = %v, want usage error", status)
	}
	if _, status := run(t, &searchCmd{}, "-from", "yesterday"); status != subcommands.ExitUsageError {
		t.Errorf("search -from yesterday = %v, want usage error", status)
	}
	assertContains(t, mustRun(t, &searchCmd{}, "-amin", "40", "-amax", "100"), "#1", "Total operations found: 1")
	assertContains(t, mustRun(t, &searchCmd{}, "-k", "gift"), "No operation found.")

	assertContains(t, mustRun(t, &searchCmd{}), "Total operations found: 3")
	assertContains(t, mustRun(t, &searchCmd{}, "-latest", "1"), "#2", "Total operations found: 1")
	assertContains(t, mustRun(t, &searchCmd{}, "-latest", "0"), "No operation found.")
	if _, status := run(t, &searchCmd{}, "-latest", "-1"); status != subcommands.ExitUsageError {
		t.Errorf("search -latest -1 = %v, want usage error", status)
	}
}

func TestAdjust(t *testing.T) {
	dir := setup(t)
	initLedger(t)

	assertContains(t, mustRun(t, &adjustCmd{}, "1000", "2024-07-11"), "Balance adjusted")
	assertContains(t, mustRun(t, &adjustCmd{}, "1000", "2024-07-12"), "already matches")
	assertContains(t, mustRun(t, &adjustCmd{}, "-5", "2024-07-12"), "ignored")
	if got := loadLen(t, dir); got != 4 {
		t.Errorf("ledger has %d operations after adjust, want 4", got)
	}
	assertContains(t, mustRun(t, &balanceCmd{}), "$1,000.00")
}

func TestCloseWithFileArchives(t *testing.T) {
	dir := setup(t)
	initLedger(t)

	assertContains(t, mustRun(t, &closeCmd{}, "2024-07-31", "july"), "carried forward is 1020.00")
	if got := loadLen(t, dir); got != 1 {
		t.Errorf("ledger has %d operations after close, want 1", got)
	}
	assertContains(t, mustRun(t, &archivesCmd{}), "codexi_2024-07-31.cld")
	assertContains(t, mustRun(t, &archiveCmd{}, "codexi_2024-07-31.cld"), "INITIAL AMOUNT", "Total operations found: 3")
	mustRun(t, &checkCmd{})

	if _, status := run(t, credit(), "-d", "2024-07-20", "1"); status != subcommands.ExitFailure {
		t.Errorf("credit in a closed period = %v, want failure", status)
	}
	if _, status := run(t, &archiveCmd{}, "2023-12-31"); status != subcommands.ExitFailure {
		t.Errorf("archive of a missing archive = %v, want failure", status)
	}
}

func TestCloseNothing(t *testing.T) {
	dir := setup(t)
	mustRun(t, credit(), "-d", "2024-07-05", "50.00", "x")

	assertContains(t, mustRun(t, &closeCmd{}, "2024-07-01"), "Nothing to close on 2024-07-01")
	if got := loadLen(t, dir); got != 1 {
		t.Errorf("ledger has %d operations after an empty close, want 1", got)
	}
	assertContains(t, mustRun(t, &archivesCmd{}), "No archives.")
}

func TestCloseWithArchiveDatabase(t *testing.T) {
	dir := setup(t)
	*archiveDB = filepath.Join(t.TempDir(), "archives.db")
	initLedger(t)

	mustRun(t, &closeCmd{}, "2024-07-31")
	assertContains(t, mustRun(t, &archivesCmd{}), "2024-07-31")
	assertContains(t, mustRun(t, &archiveCmd{}, "2024-07-31"), "Total operations found: 3")
	if _, err := os.Stat(filepath.Join(dir, codexi.ArchivesDir)); err == nil {
		t.Errorf("archives directory created while using an archive database")
	}
}

func TestExportImport(t *testing.T) {
	dir := setup(t)
	initLedger(t)

	for _, format := range []string{"-csv", "-yaml"} {
		t.Run(format, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), "export")
			assertContains(t, mustRun(t, &exportCmd{}, format, "-o", file), "Exported 3 operations")

			mustRun(t, credit(), "-d", "2024-07-15", "5", "extra")
			assertContains(t, mustRun(t, &importCmd{}, format, "-i", file), "Imported 3 operations")
			if got := loadLen(t, dir); got != 3 {
				t.Errorf("ledger has %d operations after import, want 3", got)
			}
		})
	}

	assertContains(t, mustRun(t, &exportCmd{}, "-csv", "-o", "-"), "date,kind,flow,amount,description")
	mustRun(t, &exportCmd{}, "-yaml")
	if _, err := os.Stat(filepath.Join(dir, codexi.YAMLFile)); err != nil {
		t.Errorf("export without -o did not write in the data directory: %v", err)
	}

	if _, status := run(t, &exportCmd{}); status != subcommands.ExitUsageError {
		t.Errorf("export without format = %v, want usage error", status)
	}
	if _, status := run(t, &importCmd{}, "-csv", "-yaml"); status != subcommands.ExitUsageError {
		t.Errorf("import with two formats = %v, want usage error", status)
	}

	snapshots, err := codexi.ListSnapshots(dir)
	if err != nil || len(snapshots) == 0 {
		t.Errorf("import did not take a snapshot: %v, %v", snapshots, err)
	}
}

func TestSnapshots(t *testing.T) {
	dir := setup(t)
	assertContains(t, mustRun(t, &snapshotsCmd{}), "No snapshots.")
	initLedger(t)

	mustRun(t, &snapshotCmd{})
	names, err := codexi.ListSnapshots(dir)
	if err != nil || len(names) != 1 {
		t.Fatalf("ListSnapshots() = %v, %v, want one snapshot", names, err)
	}
	assertContains(t, mustRun(t, &snapshotsCmd{}), names[0])

	mustRun(t, &rmCmd{}, "1")
	mustRun(t, &restoreSnapshotCmd{}, names[0])
	if got := loadLen(t, dir); got != 3 {
		t.Errorf("ledger has %d operations after restore-snapshot, want 3", got)
	}
	if _, status := run(t, &restoreSnapshotCmd{}, "codexi_19990101_000000.snp"); status != subcommands.ExitFailure {
		t.Errorf("restore-snapshot of a missing snapshot = %v, want failure", status)
	}
}

func TestBackupRestore(t *testing.T) {
	dir := setup(t)
	initLedger(t)
	mustRun(t, &closeCmd{}, "2024-07-05")

	target := t.TempDir()
	mustRun(t, &backupCmd{}, "-target", target)
	zips, err := filepath.Glob(filepath.Join(target, "codexi_backup_*.zip"))
	if err != nil || len(zips) != 1 {
		t.Fatalf("backup wrote %v, %v, want one zip file", zips, err)
	}

	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	mustRun(t, &restoreCmd{}, zips[0])
	if got := loadLen(t, dir); got != 2 {
		t.Errorf("ledger has %d operations after restore, want 2", got)
	}
	assertContains(t, mustRun(t, &archivesCmd{}), "codexi_2024-07-05.cld")
}

func TestTopic(t *testing.T) {
	setup(t)
	index := mustRun(t, &topicCmd{})
	assertContains(t, index, "codexi")
	assertContains(t, index, "`closing`: Adjustments, closings and archives")
	assertContains(t, mustRun(t, &topicCmd{}, "dates"), "# Dates and report filters")
	if _, status := run(t, &topicCmd{}, "no-such-topic"); status != subcommands.ExitFailure {
		t.Errorf("topic no-such-topic = %v, want failure", status)
	}
}

func TestImportRejectsInvalidLedger(t *testing.T) {
	dir := setup(t)
	initLedger(t)

	invalid := "date,kind,flow,amount,description\n2025-01-31,close,credit,100,\n2025-01-15,transaction,debit,500,rent\n"
	file := filepath.Join(t.TempDir(), "invalid.csv")
	if err := os.WriteFile(file, []byte(invalid), 0644); err != nil {
		t.Fatal(err)
	}
	if _, status := run(t, &importCmd{}, "-csv", "-i", file); status != subcommands.ExitFailure {
		t.Errorf("import of an operation before a closing = %v, want failure", status)
	}
	if got := loadLen(t, dir); got != 3 {
		t.Errorf("ledger has %d operations after a rejected import, want 3", got)
	}

	l, err := codexi.ImportCSV(strings.NewReader(invalid))
	if err != nil {
		t.Fatal(err)
	}
	name, err := codexi.Snapshot(dir, l, time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if _, status := run(t, &restoreSnapshotCmd{}, name); status != subcommands.ExitFailure {
		t.Errorf("restore-snapshot of an invalid ledger = %v, want failure", status)
	}
	if got := loadLen(t, dir); got != 3 {
		t.Errorf("ledger has %d operations after a rejected restore, want 3", got)
	}
}
