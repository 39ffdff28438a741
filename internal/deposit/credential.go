package deposit

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/umbracle/ethgo"
)

// EthAddressWithdrawalPrefix is the credential type that binds withdrawals
// to an execution layer address.
const EthAddressWithdrawalPrefix = byte(0x01)

// WithdrawalCredential returns 0x01 || 11 zero bytes || address.
func WithdrawalCredential(addr ethgo.Address) [32]byte {
	var cred [32]byte
	cred[0] = EthAddressWithdrawalPrefix
	copy(cred[32-len(addr):], addr[:])
	return cred
}

// CredentialAddress returns the address bound by an eth1 credential.
func CredentialAddress(cred [32]byte) (ethgo.Address, bool) {
	var addr ethgo.Address
	if cred[0] != EthAddressWithdrawalPrefix {
		return addr, false
	}
	for _, b := range cred[1:12] {
		if b != 0 {
			return addr, false
		}
	}
	copy(addr[:], cred[12:])
	return addr, true
}

// ParseAddress parses a 20 byte hex address, with or without the 0x prefix.
func ParseAddress(str string) (ethgo.Address, error) {
	if !common.IsHexAddress(str) {
		return ethgo.Address{}, fmt.Errorf("invalid address '%s'", str)
	}
	return ethgo.Address(common.HexToAddress(str)), nil
}
