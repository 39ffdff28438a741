package cmd

import (
	"flag"
	"fmt"
	"math/big"
	"os"

	"github.com/holiman/uint256"
	"github.com/mitchellh/cli"
	"github.com/ryanuber/columnize"
	"github.com/shopspring/decimal"
	"github.com/tomknig/ethereum-batch-deposit/internal/cmd/server"
	"github.com/tomknig/ethereum-batch-deposit/internal/server/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Commands returns the cli commands
func Commands() map[string]cli.CommandFactory {
	ui := &cli.BasicUi{
		Reader:      os.Stdin,
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	meta := &Meta{
		UI: ui,
	}

	return map[string]cli.CommandFactory{
		"server": func() (cli.Command, error) {
			return &server.Command{
				UI: ui,
			}, nil
		},
		"deposit": func() (cli.Command, error) {
			return &DepositCommand{
				UI: ui,
			}, nil
		},
		"deposit create": func() (cli.Command, error) {
			return &DepositCreateCommand{
				UI: ui,
			}, nil
		},
		"deposit submit": func() (cli.Command, error) {
			return &DepositSubmitCommand{
				Meta: meta,
			}, nil
		},
		"deposit list": func() (cli.Command, error) {
			return &DepositListCommand{
				Meta: meta,
			}, nil
		},
		"deposit receipt": func() (cli.Command, error) {
			return &DepositReceiptCommand{
				Meta: meta,
			}, nil
		},
		"deposit count": func() (cli.Command, error) {
			return &DepositCountCommand{
				Meta: meta,
			}, nil
		},
		"account fund": func() (cli.Command, error) {
			return &AccountFundCommand{
				Meta: meta,
			}, nil
		},
		"account balance": func() (cli.Command, error) {
			return &AccountBalanceCommand{
				Meta: meta,
			}, nil
		},
		"account transfer": func() (cli.Command, error) {
			return &AccountTransferCommand{
				Meta: meta,
			}, nil
		},
		"e2e run": func() (cli.Command, error) {
			return &E2ERunCommand{
				UI: ui,
			}, nil
		},
		"version": func() (cli.Command, error) {
			return &VersionCommand{
				UI: ui,
			}, nil
		},
	}
}

type Meta struct {
	UI   cli.Ui
	addr string
}

func (m *Meta) FlagSet(n string) *flag.FlagSet {
	f := flag.NewFlagSet(n, flag.ContinueOnError)
	f.StringVar(&m.addr, "address", "localhost:5555", "Address of the grpc api")
	return f
}

// Conn returns a grpc connection
func (m *Meta) Conn() (proto.BatchDepositServiceClient, error) {
	conn, err := grpc.Dial(m.addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %v", err)
	}
	clt := proto.NewBatchDepositServiceClient(conn)
	return clt, nil
}

func formatList(in []string) string {
	columnConf := columnize.DefaultConfig()
	columnConf.Empty = "<none>"
	return columnize.Format(in, columnConf)
}

func formatKV(in []string) string {
	columnConf := columnize.DefaultConfig()
	columnConf.Empty = "<none>"
	columnConf.Glue = " = "
	return columnize.Format(in, columnConf)
}

var weiPerEther = decimal.New(1, 18)

// parseEther converts an ether amount (i.e. 32 or 0.5) to wei.
func parseEther(str string) (*uint256.Int, error) {
	d, err := decimal.NewFromString(str)
	if err != nil {
		return nil, fmt.Errorf("invalid ether amount '%s': %v", str, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("invalid ether amount '%s': negative", str)
	}
	wei := d.Mul(weiPerEther)
	if !wei.Equal(wei.Truncate(0)) {
		return nil, fmt.Errorf("invalid ether amount '%s': more than 18 decimals", str)
	}
	res, overflow := uint256.FromBig(wei.BigInt())
	if overflow {
		return nil, fmt.Errorf("invalid ether amount '%s': too large", str)
	}
	return res, nil
}

// formatEther formats a decimal wei amount in ether.
func formatEther(wei string) string {
	v, ok := new(big.Int).SetString(wei, 10)
	if !ok {
		return wei
	}
	return decimal.NewFromBigInt(v, -18).String() + " ETH"
}
