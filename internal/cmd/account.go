package cmd

import (
	"context"
	"fmt"

	"github.com/tomknig/ethereum-batch-deposit/internal/deposit"
	"github.com/tomknig/ethereum-batch-deposit/internal/server/proto"
)

// AccountFundCommand is the command to fund an account on the server
type AccountFundCommand struct {
	*Meta

	value string
}

// Help implements the cli.Command interface
func (c *AccountFundCommand) Help() string {
	return ""
}

// Synopsis implements the cli.Command interface
func (c *AccountFundCommand) Synopsis() string {
	return "Fund an account"
}

// Run implements the cli.Command interface
func (c *AccountFundCommand) Run(args []string) int {
	flags := c.FlagSet("account fund")

	flags.StringVar(&c.value, "value", "100", "Value in ether")

	if err := flags.Parse(args); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	args = flags.Args()
	if len(args) != 1 {
		c.UI.Error("expected one argument: <address>")
		return 1
	}
	addr, err := deposit.ParseAddress(args[0])
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	value, err := parseEther(c.value)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	clt, err := c.Conn()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	resp, err := clt.Fund(context.Background(), &proto.FundRequest{Address: addr.String(), Value: value.Dec()})
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	c.UI.Output(formatKV([]string{
		fmt.Sprintf("Address|%s", addr.String()),
		fmt.Sprintf("Balance|%s", formatEther(resp.Balance)),
	}))
	return 0
}

// AccountBalanceCommand is the command to query the balance of an account
type AccountBalanceCommand struct {
	*Meta
}

// Help implements the cli.Command interface
func (c *AccountBalanceCommand) Help() string {
	return ""
}

// Synopsis implements the cli.Command interface
func (c *AccountBalanceCommand) Synopsis() string {
	return "Balance of an account"
}

// Run implements the cli.Command interface
func (c *AccountBalanceCommand) Run(args []string) int {
	flags := c.FlagSet("account balance")

	if err := flags.Parse(args); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	args = flags.Args()
	if len(args) != 1 {
		c.UI.Error("expected one argument: <address>")
		return 1
	}
	addr, err := deposit.ParseAddress(args[0])
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	clt, err := c.Conn()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	resp, err := clt.Balance(context.Background(), &proto.BalanceRequest{Address: addr.String()})
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	c.UI.Output(formatEther(resp.Balance))
	return 0
}

// AccountTransferCommand sends value to the batch deposit contract without
// calldata.
type AccountTransferCommand struct {
	*Meta

	value string
}

// Help implements the cli.Command interface
func (c *AccountTransferCommand) Help() string {
	return ""
}

// Synopsis implements the cli.Command interface
func (c *AccountTransferCommand) Synopsis() string {
	return "Send a plain transfer to the batch deposit contract"
}

// Run implements the cli.Command interface
func (c *AccountTransferCommand) Run(args []string) int {
	flags := c.FlagSet("account transfer")

	flags.StringVar(&c.value, "value", "1", "Value in ether")

	if err := flags.Parse(args); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	args = flags.Args()
	if len(args) != 1 {
		c.UI.Error("expected one argument: <from>")
		return 1
	}
	from, err := deposit.ParseAddress(args[0])
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	value, err := parseEther(c.value)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	clt, err := c.Conn()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	resp, err := clt.Transfer(context.Background(), &proto.TransferRequest{From: from.String(), Value: value.Dec()})
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	c.UI.Output(formatReceipt(resp.Receipt))
	if !resp.Receipt.Success {
		return 1
	}
	return 0
}
