package cmd

import (
	"github.com/mitchellh/cli"
)

// DepositCommand is the parent of the deposit commands
type DepositCommand struct {
	UI cli.Ui
}

// Help implements the cli.Command interface
func (c *DepositCommand) Help() string {
	return `Usage: batch-deposit deposit <subcommand>

  Create deposit data and submit batch deposits.

  Generate deposit data for 3 validators:

    $ batch-deposit deposit create -withdrawal 0x... -num-validators 3

  Submit it in a single batch:

    $ batch-deposit deposit submit -from 0x... -file deposit_data.json

  Show its receipt again:

    $ batch-deposit deposit receipt <id>`
}

// Synopsis implements the cli.Command interface
func (c *DepositCommand) Synopsis() string {
	return "Interact with batch deposits"
}

// Run implements the cli.Command interface
func (c *DepositCommand) Run(args []string) int {
	return cli.RunResultHelp
}
