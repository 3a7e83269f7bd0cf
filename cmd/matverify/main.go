// Command matverify verifies an integer matrix multiplication routine.
package main

import (
	"os"

	"github.com/roach88/matverify/internal/cli"
)

func main() {
	os.Exit(cli.GetExitCode(cli.Execute(cli.NewRootCommand())))
}
