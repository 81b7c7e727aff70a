// Command arcade plays and tests the sequence game.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/arcade/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
