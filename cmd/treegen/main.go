// Command treegen generates random trees with a bounded fan-out.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/treegen/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "treegen: internal error: %v\n", r)
			code = cli.ExitCommandError
		}
	}()

	err := cli.NewRootCommand().Execute()
	if err != nil {
		// ExitErrors were already reported by the command's formatter.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	return cli.GetExitCode(err)
}
