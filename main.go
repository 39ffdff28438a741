package main

import (
	"fmt"
	"os"

	"github.com/mitchellh/cli"
	"github.com/tomknig/ethereum-batch-deposit/internal/cmd"
	"github.com/tomknig/ethereum-batch-deposit/internal/version"
)

func main() {
	os.Exit(Run(os.Args[1:]))
}

// Run runs the cli with the given arguments and returns the exit code.
func Run(args []string) int {
	c := &cli.CLI{
		Name:     "batch-deposit",
		Version:  version.GetVersion(),
		Args:     args,
		Commands: cmd.Commands(),
	}

	exitCode, err := c.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error executing CLI: %s\n", err.Error())
		return 1
	}
	return exitCode
}
