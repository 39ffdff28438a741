package state

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	s, err := Open("", hclog.NewNullLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func TestTxn_Commit(t *testing.T) {
	s := newTestStore(t)

	txn := s.Txn()
	require.NoError(t, txn.Set([]byte("a"), []byte("1")))

	// visible inside the txn but not outside
	val, ok, err := txn.Get([]byte("a"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), val)

	_, ok, err = s.Get([]byte("a"))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, txn.Commit())

	val, ok, err = s.Get([]byte("a"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), val)

	assert.ErrorIs(t, txn.Set([]byte("b"), nil), ErrTxnClosed)
	assert.ErrorIs(t, txn.Commit(), ErrTxnClosed)
}

func TestTxn_Discard(t *testing.T) {
	s := newTestStore(t)

	txn := s.Txn()
	require.NoError(t, SetUint64(txn, []byte("count"), 5))
	require.NoError(t, SetUint256(txn, []byte("balance"), uint256.NewInt(10)))
	assert.Equal(t, 2, txn.Writes())
	txn.Discard()
	txn.Discard()

	count, err := GetUint64(s, []byte("count"))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)

	balance, err := GetUint256(s, []byte("balance"))
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestTxn_Delete(t *testing.T) {
	s := newTestStore(t)

	txn := s.Txn()
	require.NoError(t, SetUint64(txn, []byte("count"), 5))
	require.NoError(t, txn.Commit())

	txn = s.Txn()
	require.NoError(t, txn.Delete([]byte("count")))
	require.NoError(t, txn.Commit())

	_, ok, err := s.Get([]byte("count"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCorrupted(t *testing.T) {
	s := newTestStore(t)

	txn := s.Txn()
	require.NoError(t, txn.Set([]byte("count"), []byte{0x1}))

	_, err := GetUint64(txn, []byte("count"))
	assert.Error(t, err)

	_, err = GetUint256(txn, []byte("count"))
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	assert.Equal(t, []byte("ledger/balance/0x1"), Key("ledger", "balance", "0x1"))
}
