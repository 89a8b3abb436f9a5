// Command synqs submits circuits to the remote cold-atom simulators.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/synqs/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		os.Exit(cli.ExitSuccess)
	}
	// Command failures are already written by the output formatter.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
