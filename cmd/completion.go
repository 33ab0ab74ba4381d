package cmd

import (
	"flag"
	"io"
	"strings"

	"github.com/etnz/codexi"
	"github.com/etnz/codexi/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the command line for shell completion.
// Install it with COMP_INSTALL=1 codexi.
func Completion() *complete.Command {
	c := &complete.Command{
		Sub: map[string]*complete.Command{
			"help":     {Args: predict.Set(commandNames())},
			"flags":    {},
			"commands": {},
		},
		Flags: predictFlags(flag.CommandLine),
	}
	for _, cmd := range Commands() {
		f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		f.SetOutput(io.Discard)
		cmd.SetFlags(f)
		c.Sub[cmd.Name()] = &complete.Command{
			Flags: predictFlags(f),
			Args:  predictArgs(cmd.Name()),
		}
	}
	return c
}

func commandNames() []string {
	var names []string
	for _, cmd := range Commands() {
		names = append(names, cmd.Name())
	}
	return names
}

// kindNames are the kinds accepted on the command line.
func kindNames() []string {
	var names []string
	for _, k := range codexi.Kinds {
		names = append(names, k.Name())
	}
	return names
}

var flowNames = []string{"credit", "debit"}

// predictFlags returns a predictor for the value of each flag of f.
func predictFlags(f *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	f.VisitAll(func(fl *flag.Flag) {
		if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[fl.Name] = predict.Nothing
			return
		}
		switch fl.Name {
		case "k":
			flags[fl.Name] = predict.Set(kindNames())
		case "f":
			flags[fl.Name] = predict.Set(flowNames)
		case "o", "i", "archive-db":
			flags[fl.Name] = predict.Files("*")
		case "target", "data-dir":
			flags[fl.Name] = predict.Dirs("*")
		default:
			flags[fl.Name] = predict.Something
		}
	})
	return flags
}

// predictArgs returns the predictor of the positional arguments of a subcommand.
func predictArgs(name string) complete.Predictor {
	switch name {
	case "archive":
		return complete.PredictFunc(func(prefix string) []string {
			archives, release, err := openArchives()
			if err != nil {
				return nil
			}
			defer release()
			names, _ := archives.ListArchives()
			return filterPrefix(names, prefix)
		})
	case "restore-snapshot":
		return complete.PredictFunc(func(prefix string) []string {
			names, _ := codexi.ListSnapshots(*dataDir)
			return filterPrefix(names, prefix)
		})
	case "restore":
		return predict.Files("*.zip")
	case "topic":
		return complete.PredictFunc(func(prefix string) []string {
			topics, _ := docs.Names()
			return filterPrefix(topics, prefix)
		})
	default:
		return predict.Nothing
	}
}

func filterPrefix(names []string, prefix string) []string {
	var matches []string
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			matches = append(matches, n)
		}
	}
	return matches
}
