package cmd

import (
	"slices"
	"testing"

	"github.com/etnz/codexi"
	"github.com/etnz/codexi/date"
)

func TestCompletionCommands(t *testing.T) {
	c := Completion()
	for _, name := range append(commandNames(), "help", "flags", "commands") {
		if _, ok := c.Sub[name]; !ok {
			t.Errorf("Completion() has no subcommand %q", name)
		}
	}
	for _, name := range []string{"data-dir", "archive-db", "currency", "plain", "v"} {
		if _, ok := c.Flags[name]; !ok {
			t.Errorf("Completion() has no global flag %q", name)
		}
	}
}

func TestCompletionPredictions(t *testing.T) {
	c := Completion()

	kinds := c.Sub["add"].Flags["k"].Predict("")
	if !slices.Contains(kinds, "transaction") || !slices.Contains(kinds, "refund") {
		t.Errorf("add -k predicts %v, want every kind", kinds)
	}
	flows := c.Sub["search"].Flags["f"].Predict("")
	if !slices.Equal(flows, []string{"credit", "debit"}) {
		t.Errorf("search -f predicts %v, want credit and debit", flows)
	}
	if _, ok := c.Sub["credit"].Flags["f"]; ok {
		t.Errorf("credit has a -f flag")
	}

	topics := c.Sub["topic"].Args.Predict("")
	if len(topics) == 0 {
		t.Errorf("topic predicts no topic")
	}
}

func TestCompletionArchives(t *testing.T) {
	dir := setup(t)
	archives := codexi.NewArchives(dir)
	for _, day := range []string{"2024-06-30", "2025-06-30"} {
		if err := archives.WriteArchive(date.MustParse(day), nil); err != nil {
			t.Fatal(err)
		}
	}
	got := Completion().Sub["archive"].Args.Predict("codexi_2025")
	if want := []string{"codexi_2025-06-30.cld"}; !slices.Equal(got, want) {
		t.Errorf("archive predicts %v, want %v", got, want)
	}
}

func TestFilterPrefix(t *testing.T) {
	got := filterPrefix([]string{"balance", "backup", "close"}, "ba")
	if want := []string{"balance", "backup"}; !slices.Equal(got, want) {
		t.Errorf("filterPrefix() = %v, want %v", got, want)
	}
	if got := filterPrefix(nil, ""); got != nil {
		t.Errorf("filterPrefix(nil) = %v, want nil", got)
	}
}
