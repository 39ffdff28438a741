package abi

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math/big"
	"strings"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/tomknig/ethereum-batch-deposit/internal/deposit"
	"github.com/umbracle/ethgo"
)

var (
	//go:embed batch_deposit.json
	batchDepositJSON string

	//go:embed deposit_contract.json
	depositContractJSON string
)

var (
	// BatchDeposit is the abi of the batch deposit contract
	BatchDeposit ethabi.ABI

	// DepositContract is the abi of the canonical deposit contract
	DepositContract ethabi.ABI
)

func init() {
	BatchDeposit = mustParse(batchDepositJSON)
	DepositContract = mustParse(depositContractJSON)
}

func mustParse(s string) ethabi.ABI {
	res, err := ethabi.JSON(strings.NewReader(s))
	if err != nil {
		panic(fmt.Sprintf("BUG: failed to parse abi: %v", err))
	}
	return res
}

const (
	MethodBatchDeposit    = "batchDeposit"
	MethodDepositCount    = "depositCount"
	MethodDeposit         = "deposit"
	MethodGetDepositCount = "get_deposit_count"
	EventDeposit          = "DepositEvent"
)

// Selector returns the 4 byte method id of the input, if any.
func Selector(input []byte) ([]byte, bool) {
	if len(input) < 4 {
		return nil, false
	}
	return input[:4], true
}

// IsMethod reports whether the input calls the given method.
func IsMethod(a ethabi.ABI, name string, input []byte) bool {
	sel, ok := Selector(input)
	if !ok {
		return false
	}
	method, err := a.MethodById(sel)
	if err != nil {
		return false
	}
	return method.Name == name
}

func toCommon(addr ethgo.Address) common.Address {
	return common.Address(addr)
}

// EncodeBatchDeposit packs the calldata of a batch deposit.
func EncodeBatchDeposit(req *deposit.Request) ([]byte, error) {
	pubkeys := req.Pubkeys
	if pubkeys == nil {
		pubkeys = [][]byte{}
	}
	signatures := req.Signatures
	if signatures == nil {
		signatures = [][]byte{}
	}
	roots := req.DepositDataRoots
	if roots == nil {
		roots = [][32]byte{}
	}
	return BatchDeposit.Pack(MethodBatchDeposit, toCommon(req.WithdrawalAddress), pubkeys, signatures, roots)
}

type batchDepositArgs struct {
	WithdrawalAddress common.Address
	Pubkeys           [][]byte
	Signatures        [][]byte
	DepositDataRoots  [][32]byte
}

// DecodeBatchDeposit unpacks batch deposit calldata. The value of the
// returned request is left unset.
func DecodeBatchDeposit(input []byte) (*deposit.Request, error) {
	if !IsMethod(BatchDeposit, MethodBatchDeposit, input) {
		return nil, fmt.Errorf("input is not a %s call", MethodBatchDeposit)
	}
	method := BatchDeposit.Methods[MethodBatchDeposit]

	values, err := method.Inputs.Unpack(input[4:])
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %v", MethodBatchDeposit, err)
	}
	var args batchDepositArgs
	if err := method.Inputs.Copy(&args, values); err != nil {
		return nil, fmt.Errorf("failed to copy %s args: %v", MethodBatchDeposit, err)
	}
	req := &deposit.Request{
		WithdrawalAddress: ethgo.Address(args.WithdrawalAddress),
		Pubkeys:           args.Pubkeys,
		Signatures:        args.Signatures,
		DepositDataRoots:  args.DepositDataRoots,
	}
	return req, nil
}

// EncodeDepositCountCall packs the calldata of the depositCount getter.
func EncodeDepositCountCall() []byte {
	return BatchDeposit.Methods[MethodDepositCount].ID
}

// EncodeDepositCount packs the return value of the depositCount getter.
func EncodeDepositCount(count uint64) ([]byte, error) {
	return BatchDeposit.Methods[MethodDepositCount].Outputs.Pack(new(big.Int).SetUint64(count))
}

// DecodeDepositCount unpacks the return value of the depositCount getter.
func DecodeDepositCount(output []byte) (uint64, error) {
	values, err := BatchDeposit.Methods[MethodDepositCount].Outputs.Unpack(output)
	if err != nil {
		return 0, err
	}
	if len(values) != 1 {
		return 0, fmt.Errorf("expected one value, found %d", len(values))
	}
	num, ok := values[0].(*big.Int)
	if !ok {
		return 0, fmt.Errorf("unexpected type %T", values[0])
	}
	if !num.IsUint64() {
		return 0, fmt.Errorf("deposit count overflows uint64")
	}
	return num.Uint64(), nil
}

// EncodeDeposit packs the calldata of a deposit contract deposit.
func EncodeDeposit(e *deposit.Entry) ([]byte, error) {
	return DepositContract.Pack(MethodDeposit, e.Pubkey, e.WithdrawalCredentials[:], e.Signature, e.Root)
}

// DepositArgs are the arguments of a deposit contract deposit.
type DepositArgs struct {
	Pubkey                []byte
	WithdrawalCredentials []byte
	Signature             []byte
	DepositDataRoot       [32]byte
}

// DecodeDeposit unpacks deposit contract calldata.
func DecodeDeposit(input []byte) (*DepositArgs, error) {
	if !IsMethod(DepositContract, MethodDeposit, input) {
		return nil, fmt.Errorf("input is not a %s call", MethodDeposit)
	}
	method := DepositContract.Methods[MethodDeposit]

	values, err := method.Inputs.Unpack(input[4:])
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %v", MethodDeposit, err)
	}
	var args DepositArgs
	if err := method.Inputs.Copy(&args, values); err != nil {
		return nil, fmt.Errorf("failed to copy %s args: %v", MethodDeposit, err)
	}
	return &args, nil
}

// EncodeGetDepositCount packs the little endian deposit count returned by
// the deposit contract.
func EncodeGetDepositCount(count uint64) ([]byte, error) {
	return DepositContract.Methods[MethodGetDepositCount].Outputs.Pack(littleEndian(count))
}

// DecodeGetDepositCount unpacks the deposit contract count.
func DecodeGetDepositCount(output []byte) (uint64, error) {
	values, err := DepositContract.Methods[MethodGetDepositCount].Outputs.Unpack(output)
	if err != nil {
		return 0, err
	}
	if len(values) != 1 {
		return 0, fmt.Errorf("expected one value, found %d", len(values))
	}
	buf, ok := values[0].([]byte)
	if !ok || len(buf) != 8 {
		return 0, fmt.Errorf("unexpected deposit count encoding")
	}
	return binary.LittleEndian.Uint64(buf), nil
}

func littleEndian(i uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, i)
	return buf
}

// DepositEvent is the log emitted by the deposit contract for every deposit.
type DepositEvent struct {
	Pubkey                []byte
	WithdrawalCredentials []byte
	Amount                uint64
	Signature             []byte
	Index                 uint64
}

// DepositEventTopic is the topic of the deposit event.
func DepositEventTopic() ethgo.Hash {
	return ethgo.Hash(DepositContract.Events[EventDeposit].ID)
}

// EncodeDepositEvent packs the data of a deposit event.
func EncodeDepositEvent(e *DepositEvent) ([]byte, error) {
	event := DepositContract.Events[EventDeposit]
	return event.Inputs.Pack(e.Pubkey, e.WithdrawalCredentials, littleEndian(e.Amount), e.Signature, littleEndian(e.Index))
}

// DecodeDepositEvent unpacks the data of a deposit event.
func DecodeDepositEvent(data []byte) (*DepositEvent, error) {
	event := DepositContract.Events[EventDeposit]
	values, err := event.Inputs.Unpack(data)
	if err != nil {
		return nil, err
	}
	if len(values) != 5 {
		return nil, fmt.Errorf("expected 5 values, found %d", len(values))
	}
	fields := make([][]byte, len(values))
	for i, v := range values {
		buf, ok := v.([]byte)
		if !ok {
			return nil, fmt.Errorf("unexpected type %T at %d", v, i)
		}
		fields[i] = buf
	}
	if len(fields[2]) != 8 || len(fields[4]) != 8 {
		return nil, fmt.Errorf("unexpected amount or index encoding")
	}
	res := &DepositEvent{
		Pubkey:                fields[0],
		WithdrawalCredentials: fields[1],
		Amount:                binary.LittleEndian.Uint64(fields[2]),
		Signature:             fields[3],
		Index:                 binary.LittleEndian.Uint64(fields[4]),
	}
	return res, nil
}

// ErrorSelector returns the selector of a custom error of the batch deposit abi.
func ErrorSelector(name string) ([]byte, bool) {
	e, ok := BatchDeposit.Errors[name]
	if !ok {
		return nil, false
	}
	return e.ID[:4], true
}

// Value converts a wei amount into the big int used by ethgo transactions.
func Value(v *uint256.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v.ToBig()
}
