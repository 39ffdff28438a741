package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomknig/ethereum-batch-deposit/internal/deposit"
	"github.com/tomknig/ethereum-batch-deposit/internal/depositdata"
	"github.com/umbracle/ethgo"
)

func TestParseEther(t *testing.T) {
	cases := []struct {
		str string
		wei string
	}{
		{"32", "32000000000000000000"},
		{"0.5", "500000000000000000"},
		{"96", "96000000000000000000"},
		{"0.000000000000000001", "1"},
	}
	for _, c := range cases {
		v, err := parseEther(c.str)
		require.NoError(t, err)
		assert.Equal(t, c.wei, v.Dec())
	}

	for _, str := range []string{"", "abc", "-1", "0.0000000000000000001"} {
		_, err := parseEther(str)
		assert.Error(t, err, str)
	}
}

func TestFormatEther(t *testing.T) {
	assert.Equal(t, "32 ETH", formatEther("32000000000000000000"))
	assert.Equal(t, "0.5 ETH", formatEther("500000000000000000"))
	assert.Equal(t, "0 ETH", formatEther("0"))
}

func TestParseAddress(t *testing.T) {
	addr, err := deposit.ParseAddress("0x1a2b3c4d5e6f708192a3b4c5d6e7f809a1b2c3d4")
	require.NoError(t, err)
	assert.Equal(t, ethgo.HexToAddress("0x1a2b3c4d5e6f708192a3b4c5d6e7f809a1b2c3d4"), addr)

	_, err = deposit.ParseAddress("0x01")
	assert.Error(t, err)

	forkVersion, err := depositdata.ParseForkVersion("0x00001020")
	require.NoError(t, err)
	assert.Equal(t, [4]byte{0x00, 0x00, 0x10, 0x20}, forkVersion)
}
