package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"
	"slices"

	"github.com/etnz/codexi/cmd"
	"github.com/google/subcommands"
)

func main() {
	name := path.Base(os.Args[0])
	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	// exits when invoked by the shell to complete the command line.
	cmd.Completion().Complete(name)

	flag.Parse()

	logger, err := cmd.SetupLogging(*cmd.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(subcommands.ExitFailure))
	}

	if sub := flag.Arg(0); sub != "" && !isBuiltin(sub) {
		if found, code := cmd.RunExtension(sub, flag.Args()[1:]); found {
			logger.Sync()
			os.Exit(code)
		}
	}

	status := commander.Execute(context.Background())
	logger.Sync()
	os.Exit(int(status))
}

// isBuiltin reports whether name is a subcommand of the binary itself.
func isBuiltin(name string) bool {
	if slices.Contains([]string{"help", "flags", "commands"}, name) {
		return true
	}
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return true
		}
	}
	return false
}
