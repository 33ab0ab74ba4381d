package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"go.uber.org/zap"
)

const (
	EnvDataDir   = "CODEXI_DATA_DIR"
	EnvArchiveDB = "CODEXI_ARCHIVE_DB"
	EnvCurrency  = "CODEXI_CURRENCY"
	EnvPlain     = "CODEXI_PLAIN"
	EnvVerbose   = "CODEXI_VERBOSE"
)

// RunExtension attempts to find and execute an external codexi-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found or executed.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "codexi-" + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		zap.L().Debug("external command not found", zap.String("name", externalCmdName), zap.Error(err))
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// Pass global flags as environment variables
	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, EnvDataDir+"="+*dataDir)
	cmd.Env = append(cmd.Env, EnvArchiveDB+"="+*archiveDB)
	cmd.Env = append(cmd.Env, EnvCurrency+"="+*currency)
	cmd.Env = append(cmd.Env, EnvPlain+"="+strconv.FormatBool(*plain))
	cmd.Env = append(cmd.Env, EnvVerbose+"="+strconv.FormatBool(*Verbose))

	if err := cmd.Run(); err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
				return true, status.ExitStatus()
			}
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}

	return true, 0
}
