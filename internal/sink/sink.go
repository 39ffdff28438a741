package sink

import (
	"errors"
	"fmt"
	"strconv"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/holiman/uint256"
	"github.com/tomknig/ethereum-batch-deposit/internal/abi"
	"github.com/tomknig/ethereum-batch-deposit/internal/deposit"
	"github.com/tomknig/ethereum-batch-deposit/internal/ledger"
	"github.com/tomknig/ethereum-batch-deposit/internal/state"
	"github.com/umbracle/ethgo"
)

// ErrRejected is matched by every deposit refused by the deposit contract.
var ErrRejected = errors.New("deposit rejected")

// RejectError is a deposit refused by the deposit contract.
type RejectError struct {
	Reason string
}

func (r *RejectError) Error() string {
	return "DepositContract: " + r.Reason
}

func (r *RejectError) Is(target error) bool {
	return target == ErrRejected
}

var errorStringSelector = []byte{0x08, 0xc3, 0x79, 0xa0}

// RevertData encodes the reason as Error(string).
func (r *RejectError) RevertData() []byte {
	typ, _ := ethabi.NewType("string", "", nil)
	data, err := ethabi.Arguments{{Type: typ}}.Pack(r.Error())
	if err != nil {
		return nil
	}
	return append(append([]byte{}, errorStringSelector...), data...)
}

func reject(format string, args ...interface{}) error {
	return &RejectError{Reason: fmt.Sprintf(format, args...)}
}

var (
	minDepositAmount = uint256.MustFromBig(ethgo.Ether(1))
	gwei             = uint256.MustFromBig(ethgo.Gwei(1))
)

var (
	countKey     = []byte("deposit_count")
	recordPrefix = "record/"
)

func recordKey(index uint64) []byte {
	return []byte(recordPrefix + strconv.FormatUint(index, 10))
}

// Contract is a reference deposit contract. It keeps an append-only list
// of the deposits it accepts.
type Contract struct{}

func NewContract() *Contract {
	return &Contract{}
}

// Run implements the ledger.Contract interface
func (c *Contract) Run(env *ledger.Env, input []byte) ([]byte, error) {
	switch {
	case abi.IsMethod(abi.DepositContract, abi.MethodDeposit, input):
		return nil, c.deposit(env, input)

	case abi.IsMethod(abi.DepositContract, abi.MethodGetDepositCount, input):
		if !env.Value.IsZero() {
			return nil, reject("non payable function")
		}
		count, err := state.GetUint64(env.Storage(), countKey)
		if err != nil {
			return nil, err
		}
		return abi.EncodeGetDepositCount(count)

	default:
		return nil, reject("unknown method")
	}
}

func (c *Contract) deposit(env *ledger.Env, input []byte) error {
	args, err := abi.DecodeDeposit(input)
	if err != nil {
		return reject("invalid calldata: %v", err)
	}

	if len(args.Pubkey) != deposit.PubkeyLength {
		return reject("invalid pubkey length")
	}
	if len(args.WithdrawalCredentials) != deposit.CredentialLength {
		return reject("invalid withdrawal_credentials length")
	}
	if len(args.Signature) != deposit.SignatureLength {
		return reject("invalid signature length")
	}

	if env.Value.Lt(minDepositAmount) {
		return reject("deposit value too low")
	}
	amount, rem := new(uint256.Int).DivMod(env.Value, gwei, new(uint256.Int))
	if !rem.IsZero() {
		return reject("deposit value not multiple of gwei")
	}
	if !amount.IsUint64() {
		return reject("deposit value too high")
	}

	data := &deposit.DepositData{
		Pubkey:                args.Pubkey,
		WithdrawalCredentials: args.WithdrawalCredentials,
		Amount:                amount.Uint64(),
		Signature:             args.Signature,
	}
	root, err := data.HashTreeRoot()
	if err != nil {
		return reject("invalid deposit data: %v", err)
	}
	if root != args.DepositDataRoot {
		return reject("reconstructed DepositData does not match supplied deposit_data_root")
	}

	store := env.Storage()

	index, err := state.GetUint64(store, countKey)
	if err != nil {
		return err
	}
	record := &Record{
		Index:     index,
		Pubkey:    args.Pubkey,
		Amount:    data.Amount,
		Signature: args.Signature,
		Root:      root,
	}
	copy(record.WithdrawalCredentials[:], args.WithdrawalCredentials)

	raw, err := record.MarshalSSZ()
	if err != nil {
		return err
	}
	if err := store.Set(recordKey(index), raw); err != nil {
		return err
	}
	if err := state.SetUint64(store, countKey, index+1); err != nil {
		return err
	}

	event, err := abi.EncodeDepositEvent(&abi.DepositEvent{
		Pubkey:                args.Pubkey,
		WithdrawalCredentials: args.WithdrawalCredentials,
		Amount:                data.Amount,
		Signature:             args.Signature,
		Index:                 index,
	})
	if err != nil {
		return err
	}
	if err := env.Emit([]ethgo.Hash{abi.DepositEventTopic()}, event); err != nil {
		return err
	}

	env.Logger().Trace("deposit", "index", index, "pubkey", fmt.Sprintf("0x%x", args.Pubkey))
	return nil
}

// DepositCount returns the number of deposits accepted by a deployment.
func DepositCount(r state.Reader) (uint64, error) {
	return state.GetUint64(r, countKey)
}

// Deposit returns the accepted deposit at index.
func Deposit(r state.Reader, index uint64) (*Record, error) {
	raw, ok, err := r.Get(recordKey(index))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("deposit %d not found", index)
	}
	record := &Record{}
	if err := record.UnmarshalSSZ(raw); err != nil {
		return nil, err
	}
	return record, nil
}

// Deposits returns up to limit deposits starting at index from.
func Deposits(r state.Reader, from, limit uint64) ([]*Record, error) {
	count, err := DepositCount(r)
	if err != nil {
		return nil, err
	}
	res := []*Record{}
	for i := from; i < count && uint64(len(res)) < limit; i++ {
		record, err := Deposit(r, i)
		if err != nil {
			return nil, err
		}
		res = append(res, record)
	}
	return res, nil
}
