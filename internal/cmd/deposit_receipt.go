package cmd

import (
	"context"

	"github.com/tomknig/ethereum-batch-deposit/internal/server/proto"
)

// DepositReceiptCommand is the command to show the receipt of a recent submission
type DepositReceiptCommand struct {
	*Meta
}

// Help implements the cli.Command interface
func (c *DepositReceiptCommand) Help() string {
	return `Usage: batch-deposit deposit receipt <id>

  Show the receipt of a recently executed batch deposit or transfer.`
}

// Synopsis implements the cli.Command interface
func (c *DepositReceiptCommand) Synopsis() string {
	return "Show the receipt of a recent batch deposit"
}

// Run implements the cli.Command interface
func (c *DepositReceiptCommand) Run(args []string) int {
	flags := c.FlagSet("deposit receipt")
	if err := flags.Parse(args); err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	args = flags.Args()
	if len(args) != 1 {
		c.UI.Error("one argument <id> expected")
		return 1
	}

	clt, err := c.Conn()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	resp, err := clt.Receipt(context.Background(), &proto.ReceiptRequest{Id: args[0]})
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	c.UI.Output(formatReceipt(resp.Receipt))
	return 0
}
