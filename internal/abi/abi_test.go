package abi

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomknig/ethereum-batch-deposit/internal/deposit"
	"github.com/umbracle/ethgo"
)

func randBytes(n int) []byte {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return buf
}

func TestBatchDeposit_Calldata(t *testing.T) {
	req := &deposit.Request{
		WithdrawalAddress: ethgo.HexToAddress("0x5A0b54D5dc17e0AadC383d2db43B0a0D3E029c4c"),
		Pubkeys:           [][]byte{randBytes(48), {0x00, 0x00}},
		Signatures:        [][]byte{randBytes(96)},
		DepositDataRoots:  [][32]byte{{0x1}, {0x2}, {0x3}},
	}

	input, err := EncodeBatchDeposit(req)
	require.NoError(t, err)
	assert.True(t, IsMethod(BatchDeposit, MethodBatchDeposit, input))
	assert.False(t, IsMethod(DepositContract, MethodDeposit, input))

	// malformed sizes and lengths survive the codec untouched
	found, err := DecodeBatchDeposit(input)
	require.NoError(t, err)
	assert.Equal(t, req.WithdrawalAddress, found.WithdrawalAddress)
	assert.Equal(t, req.Pubkeys, found.Pubkeys)
	assert.Equal(t, req.Signatures, found.Signatures)
	assert.Equal(t, req.DepositDataRoots, found.DepositDataRoots)

	_, err = DecodeBatchDeposit(nil)
	assert.Error(t, err)

	_, err = DecodeBatchDeposit(input[:40])
	assert.Error(t, err)
}

func TestDeposit_Calldata(t *testing.T) {
	entry := &deposit.Entry{
		Pubkey:                randBytes(48),
		WithdrawalCredentials: deposit.WithdrawalCredential(ethgo.Address{0x1}),
		Signature:             randBytes(96),
		Root:                  [32]byte{0x5},
	}
	input, err := EncodeDeposit(entry)
	require.NoError(t, err)

	args, err := DecodeDeposit(input)
	require.NoError(t, err)
	assert.Equal(t, entry.Pubkey, args.Pubkey)
	assert.Equal(t, entry.WithdrawalCredentials[:], args.WithdrawalCredentials)
	assert.Equal(t, entry.Signature, args.Signature)
	assert.Equal(t, entry.Root, args.DepositDataRoot)
}

func TestDepositCount(t *testing.T) {
	output, err := EncodeDepositCount(3)
	require.NoError(t, err)

	count, err := DecodeDepositCount(output)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	output, err = EncodeGetDepositCount(258)
	require.NoError(t, err)

	count, err = DecodeGetDepositCount(output)
	require.NoError(t, err)
	assert.Equal(t, uint64(258), count)
}

func TestDepositEvent(t *testing.T) {
	event := &DepositEvent{
		Pubkey:                randBytes(48),
		WithdrawalCredentials: randBytes(32),
		Amount:                deposit.PerValidatorGwei,
		Signature:             randBytes(96),
		Index:                 7,
	}
	data, err := EncodeDepositEvent(event)
	require.NoError(t, err)

	// same layout as the mainnet deposit contract log
	assert.Len(t, data, 576)

	found, err := DecodeDepositEvent(data)
	require.NoError(t, err)
	assert.Equal(t, event, found)

	assert.NotEqual(t, ethgo.Hash{}, DepositEventTopic())
}

func TestErrorSelectors(t *testing.T) {
	for _, k := range deposit.Kinds() {
		sel, ok := ErrorSelector(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k.Selector(), sel)
	}

	_, ok := ErrorSelector("Unknown")
	assert.False(t, ok)
}
