package deposit

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/umbracle/ethgo"
)

const (
	// PubkeyLength is the size of a compressed BLS12-381 public key.
	PubkeyLength = 48

	// SignatureLength is the size of a compressed BLS12-381 signature.
	SignatureLength = 96

	// RootLength is the size of a deposit data root.
	RootLength = 32

	// CredentialLength is the size of a withdrawal credential.
	CredentialLength = 32

	// PerValidatorGwei is the amount forwarded to the deposit contract
	// for each validator, in gwei.
	PerValidatorGwei = uint64(32000000000)
)

// PerValidatorAmount is the value in wei attached to every forwarded deposit.
var PerValidatorAmount = uint256.MustFromBig(ethgo.Ether(32))

// Entry is the deposit forwarded to the deposit contract for one validator.
type Entry struct {
	Pubkey                []byte
	WithdrawalCredentials [32]byte
	Signature             []byte
	Root                  [32]byte
	Amount                uint64
}

func (e *Entry) String() string {
	return fmt.Sprintf("pubkey=0x%x root=0x%x", e.Pubkey, e.Root)
}

// Data returns the deposit data committed to by the entry root.
func (e *Entry) Data() *DepositData {
	return &DepositData{
		Pubkey:                e.Pubkey,
		WithdrawalCredentials: e.WithdrawalCredentials[:],
		Amount:                e.Amount,
		Signature:             e.Signature,
	}
}

// Request is one batch deposit invocation.
type Request struct {
	WithdrawalAddress ethgo.Address
	Pubkeys           [][]byte
	Signatures        [][]byte
	DepositDataRoots  [][32]byte

	// Value is the amount attached to the call, in wei
	Value *uint256.Int
}

// Size returns the number of validators in the batch.
func (r *Request) Size() int {
	return len(r.Pubkeys)
}

// ExpectedValue returns the exact value a batch of n validators has to carry.
func ExpectedValue(n int) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(uint64(n)), PerValidatorAmount)
}

// Validate checks the request before anything is forwarded. The first
// failing check determines the returned error.
func (r *Request) Validate() error {
	n := len(r.Pubkeys)
	if n != len(r.Signatures) {
		return ErrSignaturesLengthMismatch
	}
	if n != len(r.DepositDataRoots) {
		return ErrDepositDataRootsLengthMismatch
	}

	value := r.Value
	if value == nil {
		value = new(uint256.Int)
	}
	if n == 0 || !value.Eq(ExpectedValue(n)) {
		return ErrInvalidTransactionAmount
	}

	for _, pub := range r.Pubkeys {
		if len(pub) != PubkeyLength {
			return ErrPublicKeyLengthMismatch
		}
	}
	for _, sig := range r.Signatures {
		if len(sig) != SignatureLength {
			return ErrSignatureLengthMismatch
		}
	}
	return nil
}

// Entries derives the per validator deposits of a validated request.
func (r *Request) Entries() []*Entry {
	cred := WithdrawalCredential(r.WithdrawalAddress)

	entries := make([]*Entry, 0, len(r.Pubkeys))
	for i := range r.Pubkeys {
		entries = append(entries, &Entry{
			Pubkey:                r.Pubkeys[i],
			WithdrawalCredentials: cred,
			Signature:             r.Signatures[i],
			Root:                  r.DepositDataRoots[i],
			Amount:                PerValidatorGwei,
		})
	}
	return entries
}
