package cmd

import (
	"flag"
	"fmt"

	"github.com/mitchellh/cli"
	"github.com/tomknig/ethereum-batch-deposit/internal/deposit"
	"github.com/tomknig/ethereum-batch-deposit/internal/depositdata"
)

// DepositCreateCommand is the command to generate deposit data
type DepositCreateCommand struct {
	UI cli.Ui

	numValidators uint64
	withdrawal    string
	forkVersion   string
	output        string
}

// Help implements the cli.Command interface
func (c *DepositCreateCommand) Help() string {
	return ""
}

// Synopsis implements the cli.Command interface
func (c *DepositCreateCommand) Synopsis() string {
	return "Generate deposit data with fresh validator keys"
}

// Run implements the cli.Command interface
func (c *DepositCreateCommand) Run(args []string) int {
	flags := flag.NewFlagSet("deposit create", flag.ContinueOnError)

	flags.Uint64Var(&c.numValidators, "num-validators", 1, "")
	flags.StringVar(&c.withdrawal, "withdrawal", "", "")
	flags.StringVar(&c.forkVersion, "fork-version", "0x00000000", "")
	flags.StringVar(&c.output, "output", "deposit_data.json", "")

	if err := flags.Parse(args); err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	withdrawal, err := deposit.ParseAddress(c.withdrawal)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	forkVersion, err := depositdata.ParseForkVersion(c.forkVersion)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	if c.numValidators == 0 {
		c.UI.Error("no number of validators provided")
		return 1
	}

	datas, err := depositdata.Generate(withdrawal, int(c.numValidators), forkVersion)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	if err := depositdata.WriteFile(c.output, datas); err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	c.UI.Output(formatKV([]string{
		fmt.Sprintf("Path|%s", c.output),
		fmt.Sprintf("Withdrawal|%s", withdrawal.String()),
		fmt.Sprintf("Num validators|%d", len(datas)),
	}))
	return 0
}
