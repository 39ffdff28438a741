package sink

import (
	"fmt"

	ssz "github.com/ferranbt/fastssz"
	"github.com/tomknig/ethereum-batch-deposit/internal/deposit"
)

const recordSize = 8 + deposit.PubkeyLength + deposit.CredentialLength + 8 + deposit.SignatureLength + deposit.RootLength

// Record is one deposit accepted by the deposit contract.
type Record struct {
	Index                 uint64
	Pubkey                []byte   `ssz-size:"48"`
	WithdrawalCredentials [32]byte `ssz-size:"32"`
	Amount                uint64
	Signature             []byte   `ssz-size:"96"`
	Root                  [32]byte `ssz-size:"32"`
}

// SizeSSZ returns the ssz encoded size in bytes for the Record object
func (r *Record) SizeSSZ() int {
	return recordSize
}

// MarshalSSZ ssz marshals the Record object
func (r *Record) MarshalSSZ() ([]byte, error) {
	return r.MarshalSSZTo(make([]byte, 0, r.SizeSSZ()))
}

// MarshalSSZTo ssz marshals the Record object to a target array
func (r *Record) MarshalSSZTo(buf []byte) ([]byte, error) {
	dst := buf

	// Field (0) 'Index'
	dst = ssz.MarshalUint64(dst, r.Index)

	// Field (1) 'Pubkey'
	if size := len(r.Pubkey); size != deposit.PubkeyLength {
		return nil, fmt.Errorf("Record.Pubkey: expected %d bytes, found %d", deposit.PubkeyLength, size)
	}
	dst = append(dst, r.Pubkey...)

	// Field (2) 'WithdrawalCredentials'
	dst = append(dst, r.WithdrawalCredentials[:]...)

	// Field (3) 'Amount'
	dst = ssz.MarshalUint64(dst, r.Amount)

	// Field (4) 'Signature'
	if size := len(r.Signature); size != deposit.SignatureLength {
		return nil, fmt.Errorf("Record.Signature: expected %d bytes, found %d", deposit.SignatureLength, size)
	}
	dst = append(dst, r.Signature...)

	// Field (5) 'Root'
	dst = append(dst, r.Root[:]...)

	return dst, nil
}

// UnmarshalSSZ ssz unmarshals the Record object
func (r *Record) UnmarshalSSZ(buf []byte) error {
	if len(buf) != recordSize {
		return fmt.Errorf("Record: expected %d bytes, found %d", recordSize, len(buf))
	}
	pos := 0

	r.Index = ssz.UnmarshallUint64(buf[pos : pos+8])
	pos += 8

	r.Pubkey = append([]byte{}, buf[pos:pos+deposit.PubkeyLength]...)
	pos += deposit.PubkeyLength

	copy(r.WithdrawalCredentials[:], buf[pos:pos+deposit.CredentialLength])
	pos += deposit.CredentialLength

	r.Amount = ssz.UnmarshallUint64(buf[pos : pos+8])
	pos += 8

	r.Signature = append([]byte{}, buf[pos:pos+deposit.SignatureLength]...)
	pos += deposit.SignatureLength

	copy(r.Root[:], buf[pos:pos+deposit.RootLength])
	return nil
}
