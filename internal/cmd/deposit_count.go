package cmd

import (
	"context"
	"fmt"

	"github.com/tomknig/ethereum-batch-deposit/internal/client"
	"github.com/tomknig/ethereum-batch-deposit/internal/deposit"
	"github.com/tomknig/ethereum-batch-deposit/internal/server/proto"
)

// DepositCountCommand is the command to query the number of forwarded deposits
type DepositCountCommand struct {
	*Meta

	jsonrpc  string
	contract string
}

// Help implements the cli.Command interface
func (c *DepositCountCommand) Help() string {
	return ""
}

// Synopsis implements the cli.Command interface
func (c *DepositCountCommand) Synopsis() string {
	return "Number of deposits forwarded by the batch deposit contract"
}

// Run implements the cli.Command interface
func (c *DepositCountCommand) Run(args []string) int {
	flags := c.FlagSet("deposit count")

	flags.StringVar(&c.jsonrpc, "jsonrpc", "", "Query an execution node instead of the server")
	flags.StringVar(&c.contract, "contract", "", "Address of the batch deposit contract on the execution node")

	if err := flags.Parse(args); err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	if c.jsonrpc != "" {
		contract, err := deposit.ParseAddress(c.contract)
		if err != nil {
			c.UI.Error(err.Error())
			return 1
		}
		clt, err := client.New(c.jsonrpc, contract)
		if err != nil {
			c.UI.Error(err.Error())
			return 1
		}
		count, err := clt.DepositCount()
		if err != nil {
			c.UI.Error(err.Error())
			return 1
		}
		c.UI.Output(fmt.Sprintf("%d", count))
		return 0
	}

	clt, err := c.Conn()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	resp, err := clt.DepositCount(context.Background(), &proto.DepositCountRequest{})
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	c.UI.Output(formatKV([]string{
		fmt.Sprintf("Batch deposits|%d", resp.Count),
		fmt.Sprintf("Deposit contract|%d", resp.Total),
	}))
	return 0
}
