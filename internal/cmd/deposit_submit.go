package cmd

import (
	"context"
	"fmt"

	"github.com/tomknig/ethereum-batch-deposit/internal/client"
	"github.com/tomknig/ethereum-batch-deposit/internal/deposit"
	"github.com/tomknig/ethereum-batch-deposit/internal/depositdata"
	"github.com/tomknig/ethereum-batch-deposit/internal/server/proto"
)

// DepositSubmitCommand is the command to submit a batch deposit
type DepositSubmitCommand struct {
	*Meta

	from     string
	file     string
	value    string
	gas      uint64
	jsonrpc  string
	contract string
}

// Help implements the cli.Command interface
func (c *DepositSubmitCommand) Help() string {
	return ""
}

// Synopsis implements the cli.Command interface
func (c *DepositSubmitCommand) Synopsis() string {
	return "Submit deposit data as a single batch deposit"
}

// Run implements the cli.Command interface
func (c *DepositSubmitCommand) Run(args []string) int {
	flags := c.FlagSet("deposit submit")

	flags.StringVar(&c.from, "from", "", "")
	flags.StringVar(&c.file, "file", "deposit_data.json", "")
	flags.StringVar(&c.value, "value", "", "Value in ether. Defaults to 32 ether per validator")
	flags.Uint64Var(&c.gas, "gas", 0, "")
	flags.StringVar(&c.jsonrpc, "jsonrpc", "", "Submit to an execution node instead of the server")
	flags.StringVar(&c.contract, "contract", "", "Address of the batch deposit contract on the execution node")

	if err := flags.Parse(args); err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	from, err := deposit.ParseAddress(c.from)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	datas, err := depositdata.ReadFile(c.file)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	if len(datas) == 0 {
		c.UI.Error("no deposit data found")
		return 1
	}

	var cred [32]byte
	copy(cred[:], datas[0].WithdrawalCredentials)
	withdrawal, ok := deposit.CredentialAddress(cred)
	if !ok {
		c.UI.Error("deposit data does not have eth1 withdrawal credentials")
		return 1
	}
	req, err := depositdata.ToRequest(withdrawal, datas)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	if c.value != "" {
		value, err := parseEther(c.value)
		if err != nil {
			c.UI.Error(err.Error())
			return 1
		}
		req.Value = value
	}

	if c.jsonrpc != "" {
		return c.submitRemote(req)
	}

	clt, err := c.Conn()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	rpcReq := &proto.BatchDepositRequest{
		From:              from.String(),
		WithdrawalAddress: withdrawal.String(),
		Pubkeys:           req.Pubkeys,
		Signatures:        req.Signatures,
		Value:             req.Value.Dec(),
		Gas:               c.gas,
	}
	for _, root := range req.DepositDataRoots {
		rpcReq.DepositDataRoots = append(rpcReq.DepositDataRoots, root[:])
	}
	resp, err := clt.BatchDeposit(context.Background(), rpcReq)
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

func (c *DepositSubmitCommand) submitRemote(req *deposit.Request) int {
	contract, err := deposit.ParseAddress(c.contract)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	from, err := deposit.ParseAddress(c.from)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	clt, err := client.New(c.jsonrpc, contract)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	receipt, err := clt.BatchDeposit(from, req)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	c.UI.Output(formatKV([]string{
		fmt.Sprintf("Hash|%s", receipt.TransactionHash.String()),
		fmt.Sprintf("Block|%d", receipt.BlockNumber),
		fmt.Sprintf("Gas used|%d", receipt.GasUsed),
		fmt.Sprintf("Logs|%d", len(receipt.Logs)),
	}))
	return 0
}

func formatReceipt(r *proto.Receipt) string {
	status := "success"
	if !r.Success {
		status = "failed"
	}
	rows := []string{
		fmt.Sprintf("ID|%s", r.Id),
		fmt.Sprintf("Status|%s", status),
		fmt.Sprintf("Gas used|%d", r.GasUsed),
		fmt.Sprintf("Logs|%d", r.Logs),
	}
	if r.Kind != "" {
		rows = append(rows, fmt.Sprintf("Error|%s", r.Kind))
	} else if r.Error != "" {
		rows = append(rows, fmt.Sprintf("Error|%s", r.Error))
	}
	return formatKV(rows)
}
