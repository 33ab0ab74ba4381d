// Package cmd implements the CLI application to manage a codexi ledger.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/codexi"
	"github.com/etnz/codexi/renderer"
	"github.com/etnz/codexi/sqlite"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands() {
		c.Register(cmd.Command, cmd.Group)
	}
}

// GroupedCommand is a subcommand with the name of the group it is listed in.
type GroupedCommand struct {
	subcommands.Command
	Group string
}

// Commands returns every codexi subcommand.
func Commands() []GroupedCommand {
	return []GroupedCommand{
		{&initCmd{}, "ledger"},
		{newRecordCmd("credit", codexi.Credit), "ledger"},
		{newRecordCmd("debit", codexi.Debit), "ledger"},
		{newRecordCmd("add", codexi.None), "ledger"},
		{&rmCmd{}, "ledger"},
		{&checkCmd{}, "ledger"},

		{&balanceCmd{}, "reports"},
		{&resumeCmd{}, "reports"},
		{&searchCmd{}, "reports"},

		{&exportCmd{}, "data"},
		{&importCmd{}, "data"},
		{&snapshotCmd{}, "data"},
		{&snapshotsCmd{}, "data"},
		{&restoreSnapshotCmd{}, "data"},

		{&adjustCmd{}, "system"},
		{&closeCmd{}, "system"},
		{&archivesCmd{}, "system"},
		{&archiveCmd{}, "system"},
		{&backupCmd{}, "system"},
		{&restoreCmd{}, "system"},

		{&topicCmd{}, "help"},
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var dataDir = flag.String("data-dir", envOr(EnvDataDir, defaultDataDir()), "Path to the data directory holding the ledger, archives and snapshots")
var archiveDB = flag.String("archive-db", os.Getenv(EnvArchiveDB), "Path to a SQLite database to store archives in, instead of the archives directory")
var currency = flag.String("currency", envOr(EnvCurrency, renderer.DefaultCurrency), "Currency used to display amounts")
var plain = flag.Bool("plain", envBool(EnvPlain), "Print raw markdown instead of styled terminal output")

// Verbose enables debug logs.
var Verbose = flag.Bool("v", envBool(EnvVerbose), "Enable verbose logging")

// out is where reports are printed.
var out io.Writer = os.Stdout

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	v, _ := strconv.ParseBool(os.Getenv(key))
	return v
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".codexi"
	}
	return filepath.Join(dir, "codexi")
}

// SetupLogging installs the global logger used by the ledger.
func SetupLogging(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("could not build logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

// openLedger loads the ledger of the data directory.
func openLedger() (*codexi.Ledger, error) {
	l, err := codexi.Load(*dataDir)
	if err != nil {
		return nil, err
	}
	l.SetLogger(zap.L())
	return l, nil
}

// saveLedger writes the ledger back into the data directory.
func saveLedger(l *codexi.Ledger) error {
	return codexi.Save(*dataDir, l)
}

// openArchives returns the configured archive store, and a function to release it.
func openArchives() (codexi.ArchiveStore, func() error, error) {
	if *archiveDB == "" {
		return codexi.NewArchives(*dataDir), func() error { return nil }, nil
	}
	store, err := sqlite.New(*archiveDB)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open archive database %q: %w", *archiveDB, err)
	}
	return store, store.Close, nil
}

// parseAmount parses a decimal amount given on the command line.
func parseAmount(s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q", codexi.ErrInvalidAmount, s)
	}
	return v, nil
}

// printMarkdown prints md to the output, styled for the terminal unless -plain is set.
func printMarkdown(md string) {
	if *plain {
		fmt.Fprint(out, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Fprint(out, md)
		return
	}
	styled, err := r.Render(md)
	if err != nil {
		fmt.Fprint(out, md)
		return
	}
	fmt.Fprint(out, styled)
}
