package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomknig/ethereum-batch-deposit/internal/state"
	"github.com/umbracle/ethgo"
)

var errBoom = errors.New("boom")

// recorder stores the input and forwards its value to a target.
type recorder struct {
	target ethgo.Address
}

func (r *recorder) Run(env *Env, input []byte) ([]byte, error) {
	count, err := state.GetUint64(env.Storage(), []byte("count"))
	if err != nil {
		return nil, err
	}
	if err := state.SetUint64(env.Storage(), []byte("count"), count+1); err != nil {
		return nil, err
	}
	if err := env.Emit(nil, input); err != nil {
		return nil, err
	}
	if r.target != (ethgo.Address{}) {
		if _, err := env.Call(r.target, env.Value, input); err != nil {
			return nil, err
		}
	}
	return []byte{0x1}, nil
}

type reverter struct{}

func (r *reverter) Run(env *Env, input []byte) ([]byte, error) {
	if len(input) != 0 && input[0] == 0xff {
		return nil, errBoom
	}
	return nil, nil
}

func newTestLedger(t *testing.T) *Ledger {
	store, err := state.Open("", hclog.NewNullLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
	})
	return New(hclog.NewNullLogger(), store, nil)
}

func balance(t *testing.T, l *Ledger, addr ethgo.Address) uint64 {
	b, err := l.Balance(addr)
	require.NoError(t, err)
	return b.Uint64()
}

var (
	alice = ethgo.Address{0x1}
	bob   = ethgo.Address{0x2}
)

func TestLedger_Transfer(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.Mint(alice, uint256.NewInt(100)))

	receipt, err := l.Call(context.Background(), &Message{From: alice, To: bob, Value: uint256.NewInt(40)})
	require.NoError(t, err)
	assert.True(t, receipt.Success())
	assert.NotEmpty(t, receipt.ID)

	assert.Equal(t, uint64(60), balance(t, l, alice))
	assert.Equal(t, uint64(40), balance(t, l, bob))

	receipt, err = l.Call(context.Background(), &Message{From: alice, To: bob, Value: uint256.NewInt(61)})
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.False(t, receipt.Success())
	assert.Equal(t, uint64(60), balance(t, l, alice))

	found, ok := l.Receipt(receipt.ID)
	assert.True(t, ok)
	assert.Equal(t, receipt, found)
}

func TestLedger_ReceiptHistory(t *testing.T) {
	store, err := state.Open("", hclog.NewNullLogger())
	require.NoError(t, err)
	defer store.Close()

	config := DefaultConfig()
	config.MaxReceipts = 2
	l := New(hclog.NewNullLogger(), store, config)

	ids := []string{}
	for i := 0; i < 3; i++ {
		receipt, err := l.Call(context.Background(), &Message{From: alice, To: bob})
		require.NoError(t, err)
		ids = append(ids, receipt.ID)
	}

	// only the most recent receipts are kept
	_, ok := l.Receipt(ids[0])
	assert.False(t, ok)
	for _, id := range ids[1:] {
		_, ok := l.Receipt(id)
		assert.True(t, ok)
	}
	assert.Len(t, l.history, 2)
	assert.Len(t, l.receipts, 2)
}

func TestLedger_Genesis(t *testing.T) {
	store, err := state.Open(t.TempDir(), hclog.NewNullLogger())
	require.NoError(t, err)
	defer store.Close()

	alloc := map[ethgo.Address]*uint256.Int{
		alice: uint256.NewInt(100),
		bob:   uint256.NewInt(5),
	}

	l := New(hclog.NewNullLogger(), store, nil)
	applied, err := l.Genesis(alloc)
	require.NoError(t, err)
	assert.True(t, applied)

	_, err = l.Call(context.Background(), &Message{From: alice, To: bob, Value: uint256.NewInt(10)})
	require.NoError(t, err)

	// a second allocation on the same store does not credit again
	applied, err = l.Genesis(alloc)
	require.NoError(t, err)
	assert.False(t, applied)

	assert.Equal(t, uint64(90), balance(t, l, alice))
	assert.Equal(t, uint64(15), balance(t, l, bob))
}

func TestLedger_NestedCall(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.Mint(alice, uint256.NewInt(100)))

	sink, err := l.Deploy("reverter", &reverter{})
	require.NoError(t, err)
	fwd, err := l.Deploy("recorder", &recorder{target: sink})
	require.NoError(t, err)

	_, err = l.Deploy("reverter", &reverter{})
	assert.Error(t, err)

	receipt, err := l.Call(context.Background(), &Message{From: alice, To: fwd, Value: uint256.NewInt(10), Input: []byte{0x1}})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1}, receipt.Output)
	assert.Len(t, receipt.Logs, 1)
	assert.Equal(t, fwd, receipt.Logs[0].Address)

	assert.Equal(t, uint64(90), balance(t, l, alice))
	assert.Equal(t, uint64(0), balance(t, l, fwd))
	assert.Equal(t, uint64(10), balance(t, l, sink))

	count, err := state.GetUint64(l.Storage(fwd), []byte("count"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	// a failure in the nested call reverts every effect of the message
	receipt, err = l.Call(context.Background(), &Message{From: alice, To: fwd, Value: uint256.NewInt(10), Input: []byte{0xff}})
	assert.ErrorIs(t, err, errBoom)
	assert.False(t, receipt.Success())
	assert.Equal(t, errBoom.Error(), receipt.Err)
	assert.Empty(t, receipt.Logs)

	assert.Equal(t, uint64(90), balance(t, l, alice))
	assert.Equal(t, uint64(10), balance(t, l, sink))

	count, err = state.GetUint64(l.Storage(fwd), []byte("count"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestLedger_OutOfGas(t *testing.T) {
	l := newTestLedger(t)
	require.NoError(t, l.Mint(alice, uint256.NewInt(100)))

	fwd, err := l.Deploy("recorder", &recorder{})
	require.NoError(t, err)

	cfg := DefaultConfig()
	_, err = l.Call(context.Background(), &Message{From: alice, To: fwd, Value: uint256.NewInt(10), Gas: cfg.TxCost + cfg.ValueCost + cfg.ReadCost})
	assert.ErrorIs(t, err, ErrOutOfGas)

	assert.Equal(t, uint64(100), balance(t, l, alice))
	count, err := state.GetUint64(l.Storage(fwd), []byte("count"))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestLedger_View(t *testing.T) {
	l := newTestLedger(t)

	fwd, err := l.Deploy("recorder", &recorder{})
	require.NoError(t, err)

	_, err = l.View(context.Background(), fwd, nil)
	assert.ErrorIs(t, err, ErrWriteProtection)

	_, err = l.View(context.Background(), bob, nil)
	assert.ErrorIs(t, err, ErrNotContract)
}

func TestLedger_Cancelled(t *testing.T) {
	l := newTestLedger(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	receipt, err := l.Call(ctx, &Message{From: alice, To: bob})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, receipt)
}
