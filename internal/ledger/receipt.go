package ledger

import (
	"github.com/holiman/uint256"
	"github.com/umbracle/ethgo"
)

type Status uint8

const (
	StatusFailed Status = iota
	StatusSuccess
)

func (s Status) String() string {
	if s == StatusSuccess {
		return "success"
	}
	return "failed"
}

type Log struct {
	Address ethgo.Address
	Topics  []ethgo.Hash
	Data    []byte
}

// Receipt is the outcome of one executed message.
type Receipt struct {
	ID      string
	Status  Status
	From    ethgo.Address
	To      ethgo.Address
	Value   *uint256.Int
	Gas     uint64
	GasUsed uint64
	Output  []byte
	Logs    []*Log

	// Err and Revert are only set for failed messages
	Err    string
	Revert []byte
}

func (r *Receipt) Success() bool {
	return r.Status == StatusSuccess
}
