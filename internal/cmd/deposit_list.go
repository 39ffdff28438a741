package cmd

import (
	"context"
	"fmt"

	"github.com/tomknig/ethereum-batch-deposit/internal/server/proto"
)

// DepositListCommand is the command to list the deposits held by the deposit contract
type DepositListCommand struct {
	*Meta

	offset uint64
	limit  uint64
}

// Help implements the cli.Command interface
func (c *DepositListCommand) Help() string {
	return ""
}

// Synopsis implements the cli.Command interface
func (c *DepositListCommand) Synopsis() string {
	return "List the deposits of the deposit contract"
}

// Run implements the cli.Command interface
func (c *DepositListCommand) Run(args []string) int {
	flags := c.FlagSet("deposit list")

	flags.Uint64Var(&c.offset, "offset", 0, "")
	flags.Uint64Var(&c.limit, "limit", 0, "")

	if err := flags.Parse(args); err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	clt, err := c.Conn()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	resp, err := clt.DepositList(context.Background(), &proto.DepositListRequest{Offset: c.offset, Limit: c.limit})
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	c.UI.Output(formatDeposits(resp.Deposits))
	return 0
}

func formatDeposits(deposits []*proto.Deposit) string {
	if len(deposits) == 0 {
		return "No deposits found"
	}

	rows := make([]string, len(deposits)+1)
	rows[0] = "Index|Pubkey|Withdrawal credentials|Amount (gwei)"
	for i, d := range deposits {
		rows[i+1] = fmt.Sprintf("%d|0x%x|0x%x|%d",
			d.Index,
			d.Pubkey,
			d.WithdrawalCredentials,
			d.Amount,
		)
	}
	return formatList(rows)
}
