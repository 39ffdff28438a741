package deposit

import (
	"bytes"

	"github.com/ethereum/go-ethereum/crypto"
)

// Kind is the closed set of failures of a batch deposit.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindNotPayable
	KindInvalidTransactionAmount
	KindSignaturesLengthMismatch
	KindDepositDataRootsLengthMismatch
	KindPublicKeyLengthMismatch
	KindSignatureLengthMismatch
)

var kindNames = map[Kind]string{
	KindNotPayable:                     "NotPayable",
	KindInvalidTransactionAmount:       "InvalidTransactionAmount",
	KindSignaturesLengthMismatch:       "SignaturesLengthMismatch",
	KindDepositDataRootsLengthMismatch: "DepositDataRootsLengthMismatch",
	KindPublicKeyLengthMismatch:        "PublicKeyLengthMismatch",
	KindSignatureLengthMismatch:        "SignatureLengthMismatch",
}

// Kinds returns every known kind.
func Kinds() []Kind {
	return []Kind{
		KindNotPayable,
		KindInvalidTransactionAmount,
		KindSignaturesLengthMismatch,
		KindDepositDataRootsLengthMismatch,
		KindPublicKeyLengthMismatch,
		KindSignatureLengthMismatch,
	}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Selector returns the 4 byte custom error selector used as revert data.
func (k Kind) Selector() []byte {
	return crypto.Keccak256([]byte(k.String() + "()"))[:4]
}

// KindFromRevert maps revert data back to the kind that produced it.
func KindFromRevert(data []byte) (Kind, bool) {
	if len(data) < 4 {
		return KindUnknown, false
	}
	for _, k := range Kinds() {
		if bytes.Equal(data[:4], k.Selector()) {
			return k, true
		}
	}
	return KindUnknown, false
}

// Error is a batch deposit failure. It carries nothing but its kind.
type Error struct {
	Kind Kind
}

func (e *Error) Error() string {
	return e.Kind.String()
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// RevertData returns the revert payload of the error.
func (e *Error) RevertData() []byte {
	return e.Kind.Selector()
}

var (
	ErrNotPayable                     = &Error{Kind: KindNotPayable}
	ErrInvalidTransactionAmount       = &Error{Kind: KindInvalidTransactionAmount}
	ErrSignaturesLengthMismatch       = &Error{Kind: KindSignaturesLengthMismatch}
	ErrDepositDataRootsLengthMismatch = &Error{Kind: KindDepositDataRootsLengthMismatch}
	ErrPublicKeyLengthMismatch        = &Error{Kind: KindPublicKeyLengthMismatch}
	ErrSignatureLengthMismatch        = &Error{Kind: KindSignatureLengthMismatch}
)

// FromKind returns the error for a kind.
func FromKind(k Kind) error {
	if _, ok := kindNames[k]; !ok {
		return nil
	}
	return &Error{Kind: k}
}
