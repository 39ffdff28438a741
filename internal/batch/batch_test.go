package batch

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomknig/ethereum-batch-deposit/internal/abi"
	"github.com/tomknig/ethereum-batch-deposit/internal/deposit"
	"github.com/tomknig/ethereum-batch-deposit/internal/depositdata"
	"github.com/tomknig/ethereum-batch-deposit/internal/ledger"
	"github.com/tomknig/ethereum-batch-deposit/internal/sink"
	"github.com/tomknig/ethereum-batch-deposit/internal/state"
	"github.com/umbracle/ethgo"
)

var (
	payer      = ethgo.HexToAddress("0x9f2b3a1c4d5e6f708192a3b4c5d6e7f809a1b2c3")
	withdrawal = ethgo.HexToAddress("0x1a2b3c4d5e6f708192a3b4c5d6e7f809a1b2c3d4")
)

type testEnv struct {
	ledger    *ledger.Ledger
	forwarder *Forwarder
	sink      ethgo.Address
}

func newTestEnv(t *testing.T) *testEnv {
	store, err := state.Open("", hclog.NewNullLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
	})

	l := ledger.New(hclog.NewNullLogger(), store, nil)
	sinkAddr, err := l.Deploy("deposit", sink.NewContract())
	require.NoError(t, err)

	f, err := Deploy(l, "batch-deposit", sinkAddr)
	require.NoError(t, err)

	require.NoError(t, l.Mint(payer, ether(1000)))

	return &testEnv{
		ledger:    l,
		forwarder: f,
		sink:      sinkAddr,
	}
}

func ether(n uint64) *uint256.Int {
	return uint256.MustFromBig(ethgo.Ether(n))
}

func (e *testEnv) balance(t *testing.T, addr ethgo.Address) *uint256.Int {
	b, err := e.ledger.Balance(addr)
	require.NoError(t, err)
	return b
}

func (e *testEnv) sinkCount(t *testing.T) uint64 {
	count, err := sink.DepositCount(e.ledger.Storage(e.sink))
	require.NoError(t, err)
	return count
}

func (e *testEnv) count(t *testing.T) uint64 {
	count, err := e.forwarder.DepositCount()
	require.NoError(t, err)
	return count
}

// newRequest builds a batch of n validators with signed deposit data.
func newRequest(t *testing.T, n int) *deposit.Request {
	datas, err := depositdata.Generate(withdrawal, n, depositdata.MainnetForkVersion)
	require.NoError(t, err)

	req, err := depositdata.ToRequest(withdrawal, datas)
	require.NoError(t, err)
	return req
}

func randBytes(n int) []byte {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return buf
}

func requireKind(t *testing.T, receipt *ledger.Receipt, err error, kind deposit.Kind) {
	t.Helper()

	require.Error(t, err)
	require.ErrorIs(t, err, deposit.FromKind(kind))
	require.NotNil(t, receipt)
	require.False(t, receipt.Success())

	found, ok := deposit.KindFromRevert(receipt.Revert)
	require.True(t, ok)
	require.Equal(t, kind, found)
}

func TestBatchDeposit_Success(t *testing.T) {
	e := newTestEnv(t)
	require.True(t, e.forwarder.Address() != e.forwarder.DepositContract())

	req := newRequest(t, 3)
	require.Equal(t, ether(96), req.Value)

	forwarderBalance, err := e.forwarder.Balance()
	require.NoError(t, err)
	require.True(t, forwarderBalance.IsZero())

	receipt, err := e.forwarder.BatchDeposit(context.Background(), payer, req, 0)
	require.NoError(t, err)
	require.True(t, receipt.Success())

	// one deposit event per validator
	require.Len(t, receipt.Logs, 3)
	for i, log := range receipt.Logs {
		require.Equal(t, e.sink, log.Address)

		event, err := abi.DecodeDepositEvent(log.Data)
		require.NoError(t, err)
		assert.Equal(t, req.Pubkeys[i], event.Pubkey)
		assert.Equal(t, deposit.PerValidatorGwei, event.Amount)
		assert.Equal(t, uint64(i), event.Index)
	}

	assert.Equal(t, ether(904), e.balance(t, payer))
	assert.Equal(t, ether(96), e.balance(t, e.sink))

	forwarderBalance, err = e.forwarder.Balance()
	require.NoError(t, err)
	require.True(t, forwarderBalance.IsZero())

	assert.Equal(t, uint64(3), e.count(t))
	assert.Equal(t, uint64(3), e.sinkCount(t))

	records, err := sink.Deposits(e.ledger.Storage(e.sink), 0, 10)
	require.NoError(t, err)
	require.Len(t, records, 3)

	cred := deposit.WithdrawalCredential(withdrawal)
	for i, record := range records {
		assert.Equal(t, req.Pubkeys[i], record.Pubkey)
		assert.Equal(t, req.Signatures[i], record.Signature)
		assert.Equal(t, req.DepositDataRoots[i], record.Root)
		assert.Equal(t, cred, record.WithdrawalCredentials)
		assert.Equal(t, deposit.PerValidatorGwei, record.Amount)
	}
}

func TestBatchDeposit_Sequential(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.forwarder.BatchDeposit(context.Background(), payer, newRequest(t, 1), 0)
	require.NoError(t, err)
	require.Equal(t, uint64(1), e.count(t))

	_, err = e.forwarder.BatchDeposit(context.Background(), payer, newRequest(t, 2), 0)
	require.NoError(t, err)
	require.Equal(t, uint64(3), e.count(t))
	require.Equal(t, uint64(3), e.sinkCount(t))
}

func TestBatchDeposit_Rejected(t *testing.T) {
	cases := []struct {
		name   string
		modify func(req *deposit.Request)
		kind   deposit.Kind
	}{
		{
			"value too low",
			func(req *deposit.Request) {
				req.Value = ether(1)
			},
			deposit.KindInvalidTransactionAmount,
		},
		{
			"value too high",
			func(req *deposit.Request) {
				req.Value = ether(100)
			},
			deposit.KindInvalidTransactionAmount,
		},
		{
			"value off by one wei",
			func(req *deposit.Request) {
				req.Value = new(uint256.Int).AddUint64(deposit.ExpectedValue(3), 1)
			},
			deposit.KindInvalidTransactionAmount,
		},
		{
			"empty batch",
			func(req *deposit.Request) {
				req.Pubkeys = nil
				req.Signatures = nil
				req.DepositDataRoots = nil
				req.Value = new(uint256.Int)
			},
			deposit.KindInvalidTransactionAmount,
		},
		{
			"missing signatures",
			func(req *deposit.Request) {
				req.Signatures = req.Signatures[:1]
			},
			deposit.KindSignaturesLengthMismatch,
		},
		{
			"missing roots",
			func(req *deposit.Request) {
				req.DepositDataRoots = req.DepositDataRoots[:1]
			},
			deposit.KindDepositDataRootsLengthMismatch,
		},
		{
			"short pubkey",
			func(req *deposit.Request) {
				req.Pubkeys[1] = []byte{0x1, 0x2}
			},
			deposit.KindPublicKeyLengthMismatch,
		},
		{
			"short signature",
			func(req *deposit.Request) {
				req.Signatures[2] = req.Signatures[2][:95]
			},
			deposit.KindSignatureLengthMismatch,
		},
		{
			"signature count before value",
			func(req *deposit.Request) {
				req.Signatures = req.Signatures[:2]
				req.Value = ether(1)
			},
			deposit.KindSignaturesLengthMismatch,
		},
		{
			"value before pubkey size",
			func(req *deposit.Request) {
				req.Pubkeys[0] = randBytes(47)
				req.Value = ether(1)
			},
			deposit.KindInvalidTransactionAmount,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e := newTestEnv(t)

			req := newRequest(t, 3)
			c.modify(req)

			receipt, err := e.forwarder.BatchDeposit(context.Background(), payer, req, 0)
			requireKind(t, receipt, err, c.kind)

			assert.Equal(t, ether(1000), e.balance(t, payer))
			assert.True(t, e.balance(t, e.sink).IsZero())
			assert.Equal(t, uint64(0), e.count(t))
			assert.Equal(t, uint64(0), e.sinkCount(t))
		})
	}
}

func TestBatchDeposit_NotPayable(t *testing.T) {
	e := newTestEnv(t)

	// plain transfer
	receipt, err := e.forwarder.Transfer(context.Background(), payer, ether(32))
	requireKind(t, receipt, err, deposit.KindNotPayable)

	// transfer without value
	receipt, err = e.forwarder.Transfer(context.Background(), payer, nil)
	requireKind(t, receipt, err, deposit.KindNotPayable)

	// unknown selector
	receipt, err = e.ledger.Call(context.Background(), &ledger.Message{
		From:  payer,
		To:    e.forwarder.Address(),
		Value: ether(32),
		Input: []byte{0xde, 0xad, 0xbe, 0xef},
	})
	requireKind(t, receipt, err, deposit.KindNotPayable)

	// value sent to the count view
	receipt, err = e.ledger.Call(context.Background(), &ledger.Message{
		From:  payer,
		To:    e.forwarder.Address(),
		Value: ether(1),
		Input: abi.EncodeDepositCountCall(),
	})
	requireKind(t, receipt, err, deposit.KindNotPayable)

	assert.Equal(t, ether(1000), e.balance(t, payer))
	balance, err := e.forwarder.Balance()
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestBatchDeposit_Atomic(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.forwarder.BatchDeposit(context.Background(), payer, newRequest(t, 1), 0)
	require.NoError(t, err)

	// the sink rejects the second entry of the batch
	req := newRequest(t, 3)
	req.DepositDataRoots[1] = [32]byte{0x1}

	receipt, err := e.forwarder.BatchDeposit(context.Background(), payer, req, 0)
	require.Error(t, err)
	require.ErrorIs(t, err, sink.ErrRejected)
	require.False(t, receipt.Success())
	require.Empty(t, receipt.Logs)

	assert.Equal(t, ether(968), e.balance(t, payer))
	assert.Equal(t, ether(32), e.balance(t, e.sink))
	assert.Equal(t, uint64(1), e.count(t))
	assert.Equal(t, uint64(1), e.sinkCount(t))

	records, err := sink.Deposits(e.ledger.Storage(e.sink), 0, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestBatchDeposit_OutOfGas(t *testing.T) {
	e := newTestEnv(t)

	receipt, err := e.forwarder.BatchDeposit(context.Background(), payer, newRequest(t, 3), 30000)
	require.ErrorIs(t, err, ledger.ErrOutOfGas)
	require.False(t, receipt.Success())
	require.Equal(t, receipt.Gas, receipt.GasUsed)

	assert.Equal(t, ether(1000), e.balance(t, payer))
	assert.Equal(t, uint64(0), e.count(t))
	assert.Equal(t, uint64(0), e.sinkCount(t))
}

func TestBatchDeposit_OutOfGasMidBatch(t *testing.T) {
	config := ledger.DefaultConfig()

	// gas used by a batch of a single validator
	single, err := newTestEnv(t).forwarder.BatchDeposit(context.Background(), payer, newRequest(t, 1), 0)
	require.NoError(t, err)

	// the first entry and its counter update fit in the budget, the call
	// forwarding the second entry does not
	budget := single.GasUsed + config.WriteCost
	require.Less(t, budget-single.GasUsed+config.ReadCost, config.CallCost+config.ValueCost)

	e := newTestEnv(t)
	receipt, err := e.forwarder.BatchDeposit(context.Background(), payer, newRequest(t, 2), budget)
	require.ErrorIs(t, err, ledger.ErrOutOfGas)
	require.False(t, receipt.Success())
	require.Equal(t, budget, receipt.GasUsed)

	assert.Equal(t, ether(1000), e.balance(t, payer))
	assert.True(t, e.balance(t, e.sink).IsZero())
	assert.True(t, e.balance(t, e.forwarder.Address()).IsZero())
	assert.Equal(t, uint64(0), e.sinkCount(t))
	assert.Equal(t, uint64(0), e.count(t))
	assert.Empty(t, receipt.Logs)
}

func TestBatchDeposit_InsufficientFunds(t *testing.T) {
	e := newTestEnv(t)

	poor := ethgo.HexToAddress("0x00000000000000000000000000000000000000aa")
	require.NoError(t, e.ledger.Mint(poor, ether(64)))

	_, err := e.forwarder.BatchDeposit(context.Background(), poor, newRequest(t, 3), 0)
	require.ErrorIs(t, err, ledger.ErrInsufficientBalance)

	assert.Equal(t, ether(64), e.balance(t, poor))
	assert.Equal(t, uint64(0), e.count(t))
}

func TestDepositCount_View(t *testing.T) {
	e := newTestEnv(t)

	output, err := e.ledger.View(context.Background(), e.forwarder.Address(), abi.EncodeDepositCountCall())
	require.NoError(t, err)
	count, err := abi.DecodeDepositCount(output)
	require.NoError(t, err)
	require.Equal(t, uint64(0), count)

	_, err = e.forwarder.BatchDeposit(context.Background(), payer, newRequest(t, 2), 0)
	require.NoError(t, err)

	output, err = e.ledger.View(context.Background(), e.forwarder.Address(), abi.EncodeDepositCountCall())
	require.NoError(t, err)
	count, err = abi.DecodeDepositCount(output)
	require.NoError(t, err)
	require.Equal(t, uint64(2), count)

	// a batch deposit cannot run as a view
	input, err := abi.EncodeBatchDeposit(newRequest(t, 1))
	require.NoError(t, err)
	_, err = e.ledger.View(context.Background(), e.forwarder.Address(), input)
	require.Error(t, err)
	require.Equal(t, uint64(2), e.count(t))
}
