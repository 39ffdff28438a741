package deposit

import (
	"fmt"

	ssz "github.com/ferranbt/fastssz"
)

// DepositData is the object whose hash tree root is the deposit data root.
type DepositData struct {
	Pubkey                []byte `json:"pubkey" ssz-size:"48"`
	WithdrawalCredentials []byte `json:"withdrawal_credentials" ssz-size:"32"`
	Amount                uint64 `json:"amount"`
	Signature             []byte `json:"signature" ssz-size:"96"`
}

// DepositMessage is the object signed by the validator key.
type DepositMessage struct {
	Pubkey                []byte `json:"pubkey" ssz-size:"48"`
	WithdrawalCredentials []byte `json:"withdrawal_credentials" ssz-size:"32"`
	Amount                uint64 `json:"amount"`
}

type SigningData struct {
	ObjectRoot []byte `ssz-size:"32"`
	Domain     []byte `ssz-size:"32"`
}

type ForkData struct {
	CurrentVersion        []byte `ssz-size:"4"`
	GenesisValidatorsRoot []byte `ssz-size:"32"`
}

func checkSize(name string, b []byte, size int) error {
	if len(b) != size {
		return fmt.Errorf("%s: expected %d bytes, found %d", name, size, len(b))
	}
	return nil
}

// HashTreeRoot ssz hashes the DepositData object
func (d *DepositData) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(d)
}

// HashTreeRootWith ssz hashes the DepositData object with a hasher
func (d *DepositData) HashTreeRootWith(hh ssz.HashWalker) error {
	indx := hh.Index()

	// Field (0) 'Pubkey'
	if err := checkSize("DepositData.Pubkey", d.Pubkey, PubkeyLength); err != nil {
		return err
	}
	hh.PutBytes(d.Pubkey)

	// Field (1) 'WithdrawalCredentials'
	if err := checkSize("DepositData.WithdrawalCredentials", d.WithdrawalCredentials, CredentialLength); err != nil {
		return err
	}
	hh.PutBytes(d.WithdrawalCredentials)

	// Field (2) 'Amount'
	hh.PutUint64(d.Amount)

	// Field (3) 'Signature'
	if err := checkSize("DepositData.Signature", d.Signature, SignatureLength); err != nil {
		return err
	}
	hh.PutBytes(d.Signature)

	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot ssz hashes the DepositMessage object
func (d *DepositMessage) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(d)
}

// HashTreeRootWith ssz hashes the DepositMessage object with a hasher
func (d *DepositMessage) HashTreeRootWith(hh ssz.HashWalker) error {
	indx := hh.Index()

	if err := checkSize("DepositMessage.Pubkey", d.Pubkey, PubkeyLength); err != nil {
		return err
	}
	hh.PutBytes(d.Pubkey)

	if err := checkSize("DepositMessage.WithdrawalCredentials", d.WithdrawalCredentials, CredentialLength); err != nil {
		return err
	}
	hh.PutBytes(d.WithdrawalCredentials)

	hh.PutUint64(d.Amount)

	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot ssz hashes the SigningData object
func (s *SigningData) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(s)
}

// HashTreeRootWith ssz hashes the SigningData object with a hasher
func (s *SigningData) HashTreeRootWith(hh ssz.HashWalker) error {
	indx := hh.Index()

	if err := checkSize("SigningData.ObjectRoot", s.ObjectRoot, 32); err != nil {
		return err
	}
	hh.PutBytes(s.ObjectRoot)

	if err := checkSize("SigningData.Domain", s.Domain, 32); err != nil {
		return err
	}
	hh.PutBytes(s.Domain)

	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot ssz hashes the ForkData object
func (f *ForkData) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(f)
}

// HashTreeRootWith ssz hashes the ForkData object with a hasher
func (f *ForkData) HashTreeRootWith(hh ssz.HashWalker) error {
	indx := hh.Index()

	if err := checkSize("ForkData.CurrentVersion", f.CurrentVersion, 4); err != nil {
		return err
	}
	hh.PutBytes(f.CurrentVersion)

	if err := checkSize("ForkData.GenesisValidatorsRoot", f.GenesisValidatorsRoot, 32); err != nil {
		return err
	}
	hh.PutBytes(f.GenesisValidatorsRoot)

	hh.Merkleize(indx)
	return nil
}

// GetTree ssz hashes the DepositData object
func (d *DepositData) GetTree() (*ssz.Node, error) {
	return ssz.ProofTree(d)
}

// GetTree ssz hashes the DepositMessage object
func (d *DepositMessage) GetTree() (*ssz.Node, error) {
	return ssz.ProofTree(d)
}

// GetTree ssz hashes the SigningData object
func (s *SigningData) GetTree() (*ssz.Node, error) {
	return ssz.ProofTree(s)
}

// GetTree ssz hashes the ForkData object
func (f *ForkData) GetTree() (*ssz.Node, error) {
	return ssz.ProofTree(f)
}
