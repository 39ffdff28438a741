package batch

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/tomknig/ethereum-batch-deposit/internal/abi"
	"github.com/tomknig/ethereum-batch-deposit/internal/deposit"
	"github.com/tomknig/ethereum-batch-deposit/internal/ledger"
	"github.com/umbracle/ethgo"
)

// Forwarder is a batch deposit deployment on a ledger.
type Forwarder struct {
	ledger          *ledger.Ledger
	addr            ethgo.Address
	depositContract ethgo.Address
}

// Deploy deploys a batch deposit contract in front of a deposit contract.
func Deploy(l *ledger.Ledger, name string, depositContract ethgo.Address) (*Forwarder, error) {
	addr, err := l.Deploy(name, NewContract(depositContract))
	if err != nil {
		return nil, err
	}
	f := &Forwarder{
		ledger:          l,
		addr:            addr,
		depositContract: depositContract,
	}
	return f, nil
}

// Address returns the address of the deployment.
func (f *Forwarder) Address() ethgo.Address {
	return f.addr
}

// DepositContract returns the address deposits are forwarded to.
func (f *Forwarder) DepositContract() ethgo.Address {
	return f.depositContract
}

// BatchDeposit sends a batch deposit from an account, attaching req.Value.
func (f *Forwarder) BatchDeposit(ctx context.Context, from ethgo.Address, req *deposit.Request, gas uint64) (*ledger.Receipt, error) {
	input, err := abi.EncodeBatchDeposit(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode batch deposit: %v", err)
	}
	msg := &ledger.Message{
		From:  from,
		To:    f.addr,
		Value: req.Value,
		Input: input,
		Gas:   gas,
	}
	return f.ledger.Call(ctx, msg)
}

// Transfer sends value to the deployment without calldata.
func (f *Forwarder) Transfer(ctx context.Context, from ethgo.Address, value *uint256.Int) (*ledger.Receipt, error) {
	return f.ledger.Call(ctx, &ledger.Message{From: from, To: f.addr, Value: value})
}

// DepositCount returns the number of deposits forwarded so far.
func (f *Forwarder) DepositCount() (uint64, error) {
	return DepositCount(f.ledger.Storage(f.addr))
}

// Balance returns the balance held by the deployment.
func (f *Forwarder) Balance() (*uint256.Int, error) {
	return f.ledger.Balance(f.addr)
}
