package batch

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/tomknig/ethereum-batch-deposit/internal/abi"
	"github.com/tomknig/ethereum-batch-deposit/internal/deposit"
	"github.com/tomknig/ethereum-batch-deposit/internal/ledger"
	"github.com/tomknig/ethereum-batch-deposit/internal/state"
	"github.com/umbracle/ethgo"
)

// ErrBalanceChanged is returned if a batch would leave value behind in the
// contract. It can only happen if the deposit contract refunds value.
var ErrBalanceChanged = errors.New("batch deposit left a balance behind")

var countKey = []byte("deposit_count")

// Contract forwards a batch of validator deposits to the deposit contract.
// It holds no funds and no state other than the number of deposits it
// has forwarded.
type Contract struct {
	depositContract ethgo.Address
}

func NewContract(depositContract ethgo.Address) *Contract {
	return &Contract{
		depositContract: depositContract,
	}
}

// Run implements the ledger.Contract interface
func (c *Contract) Run(env *ledger.Env, input []byte) ([]byte, error) {
	switch {
	case abi.IsMethod(abi.BatchDeposit, abi.MethodBatchDeposit, input):
		return nil, c.batchDeposit(env, input)

	case abi.IsMethod(abi.BatchDeposit, abi.MethodDepositCount, input):
		if !env.Value.IsZero() {
			return nil, deposit.ErrNotPayable
		}
		count, err := DepositCount(env.Storage())
		if err != nil {
			return nil, err
		}
		return abi.EncodeDepositCount(count)

	default:
		// plain transfers and unknown calls
		return nil, deposit.ErrNotPayable
	}
}

func (c *Contract) batchDeposit(env *ledger.Env, input []byte) error {
	req, err := abi.DecodeBatchDeposit(input)
	if err != nil {
		return fmt.Errorf("invalid calldata: %v", err)
	}
	req.Value = env.Value

	if err := req.Validate(); err != nil {
		return err
	}

	balance, err := env.Balance(env.Address)
	if err != nil {
		return err
	}
	initial := new(uint256.Int).Sub(balance, env.Value)

	store := env.Storage()
	count, err := DepositCount(store)
	if err != nil {
		return err
	}

	for _, entry := range req.Entries() {
		data, err := abi.EncodeDeposit(entry)
		if err != nil {
			return err
		}
		if _, err := env.Call(c.depositContract, deposit.PerValidatorAmount, data); err != nil {
			return err
		}
		count++
		if err := state.SetUint64(store, countKey, count); err != nil {
			return err
		}
	}

	if balance, err = env.Balance(env.Address); err != nil {
		return err
	}
	if !balance.Eq(initial) {
		return ErrBalanceChanged
	}

	env.Logger().Debug("batch deposit", "withdrawal", req.WithdrawalAddress.String(), "validators", req.Size(), "total", count)
	return nil
}

// DepositCount returns the number of deposits forwarded by a deployment.
func DepositCount(r state.Reader) (uint64, error) {
	return state.GetUint64(r, countKey)
}
