package depositdata

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/tomknig/ethereum-batch-deposit/internal/deposit"
	"github.com/umbracle/ethgo"
)

var (
	// DomainDeposit is the domain type of deposit signatures
	DomainDeposit = [4]byte{0x03, 0x00, 0x00, 0x00}

	// MainnetForkVersion is the genesis fork version of mainnet
	MainnetForkVersion = [4]byte{0x00, 0x00, 0x00, 0x00}
)

// ParseForkVersion parses a 4 byte hex fork version, with or without the
// 0x prefix.
func ParseForkVersion(str string) ([4]byte, error) {
	var res [4]byte
	if !strings.HasPrefix(str, "0x") {
		str = "0x" + str
	}
	buf, err := hexutil.Decode(str)
	if err != nil {
		return res, fmt.Errorf("invalid fork version '%s': %v", str, err)
	}
	if len(buf) != 4 {
		return res, fmt.Errorf("invalid fork version '%s': expected 4 bytes", str)
	}
	copy(res[:], buf)
	return res, nil
}

// ComputeDomain returns the deposit domain for a genesis fork version.
// Deposits are valid across forks so the genesis validators root is zero.
func ComputeDomain(forkVersion [4]byte) ([32]byte, error) {
	forkData := &deposit.ForkData{
		CurrentVersion:        forkVersion[:],
		GenesisValidatorsRoot: make([]byte, 32),
	}
	forkRoot, err := forkData.HashTreeRoot()
	if err != nil {
		return [32]byte{}, err
	}

	var domain [32]byte
	copy(domain[:4], DomainDeposit[:])
	copy(domain[4:], forkRoot[:28])
	return domain, nil
}

func signingRoot(msg *deposit.DepositMessage, forkVersion [4]byte) ([32]byte, error) {
	msgRoot, err := msg.HashTreeRoot()
	if err != nil {
		return [32]byte{}, err
	}
	domain, err := ComputeDomain(forkVersion)
	if err != nil {
		return [32]byte{}, err
	}
	signing := &deposit.SigningData{
		ObjectRoot: msgRoot[:],
		Domain:     domain[:],
	}
	return signing.HashTreeRoot()
}

// hexBytes accepts hex with or without the 0x prefix.
type hexBytes []byte

func (h hexBytes) MarshalText() ([]byte, error) {
	return []byte("0x" + hex.EncodeToString(h)), nil
}

func (h *hexBytes) UnmarshalText(text []byte) error {
	buf, err := hex.DecodeString(strings.TrimPrefix(string(text), "0x"))
	if err != nil {
		return err
	}
	*h = buf
	return nil
}

// Data is the deposit data of one validator, in the json layout produced
// by the usual deposit tooling.
type Data struct {
	Pubkey                hexBytes `json:"pubkey"`
	WithdrawalCredentials hexBytes `json:"withdrawal_credentials"`
	Amount                uint64   `json:"amount"`
	Signature             hexBytes `json:"signature"`
	DepositMessageRoot    hexBytes `json:"deposit_message_root"`
	DepositDataRoot       hexBytes `json:"deposit_data_root"`
	ForkVersion           hexBytes `json:"fork_version"`
}

// New signs a deposit of amount gwei for key, withdrawing to an address.
func New(key *Key, withdrawal ethgo.Address, amount uint64, forkVersion [4]byte) (*Data, error) {
	cred := deposit.WithdrawalCredential(withdrawal)
	pub := key.PubKey()

	msg := &deposit.DepositMessage{
		Pubkey:                pub,
		WithdrawalCredentials: cred[:],
		Amount:                amount,
	}
	msgRoot, err := msg.HashTreeRoot()
	if err != nil {
		return nil, err
	}
	root, err := signingRoot(msg, forkVersion)
	if err != nil {
		return nil, err
	}
	sig := key.Sign(root[:])

	data := &deposit.DepositData{
		Pubkey:                pub,
		WithdrawalCredentials: cred[:],
		Amount:                amount,
		Signature:             sig,
	}
	dataRoot, err := data.HashTreeRoot()
	if err != nil {
		return nil, err
	}

	res := &Data{
		Pubkey:                pub,
		WithdrawalCredentials: cred[:],
		Amount:                amount,
		Signature:             sig,
		DepositMessageRoot:    msgRoot[:],
		DepositDataRoot:       dataRoot[:],
		ForkVersion:           forkVersion[:],
	}
	return res, nil
}

// Generate creates n fresh validator keys and their deposit data for a
// full deposit each.
func Generate(withdrawal ethgo.Address, n int, forkVersion [4]byte) ([]*Data, error) {
	res := make([]*Data, 0, n)
	for i := 0; i < n; i++ {
		key, err := NewRandomKey()
		if err != nil {
			return nil, err
		}
		data, err := New(key, withdrawal, deposit.PerValidatorGwei, forkVersion)
		key.Zero()
		if err != nil {
			return nil, fmt.Errorf("failed to create deposit data for validator %d: %v", i, err)
		}
		res = append(res, data)
	}
	return res, nil
}

// Verify checks the signature and both roots of the deposit data.
func Verify(d *Data, forkVersion [4]byte) error {
	msg := &deposit.DepositMessage{
		Pubkey:                d.Pubkey,
		WithdrawalCredentials: d.WithdrawalCredentials,
		Amount:                d.Amount,
	}
	root, err := signingRoot(msg, forkVersion)
	if err != nil {
		return err
	}
	if !VerifySignature(d.Pubkey, d.Signature, root[:]) {
		return fmt.Errorf("invalid signature for 0x%x", []byte(d.Pubkey))
	}

	data := &deposit.DepositData{
		Pubkey:                d.Pubkey,
		WithdrawalCredentials: d.WithdrawalCredentials,
		Amount:                d.Amount,
		Signature:             d.Signature,
	}
	dataRoot, err := data.HashTreeRoot()
	if err != nil {
		return err
	}
	if hex.EncodeToString(dataRoot[:]) != hex.EncodeToString(d.DepositDataRoot) {
		return fmt.Errorf("deposit data root mismatch for 0x%x", []byte(d.Pubkey))
	}
	return nil
}

// ToRequest builds the batch deposit of a set of deposit data.
func ToRequest(withdrawal ethgo.Address, datas []*Data) (*deposit.Request, error) {
	req := &deposit.Request{
		WithdrawalAddress: withdrawal,
		Value:             deposit.ExpectedValue(len(datas)),
	}
	for i, d := range datas {
		if len(d.DepositDataRoot) != deposit.RootLength {
			return nil, fmt.Errorf("deposit %d: invalid deposit data root length %d", i, len(d.DepositDataRoot))
		}
		if d.Amount != deposit.PerValidatorGwei {
			return nil, fmt.Errorf("deposit %d: amount %d gwei is not a full deposit", i, d.Amount)
		}
		if len(d.WithdrawalCredentials) != deposit.CredentialLength {
			return nil, fmt.Errorf("deposit %d: invalid withdrawal credentials length %d", i, len(d.WithdrawalCredentials))
		}
		var cred [32]byte
		copy(cred[:], d.WithdrawalCredentials)
		if cred != deposit.WithdrawalCredential(withdrawal) {
			return nil, fmt.Errorf("deposit %d: withdrawal credentials do not match %s", i, withdrawal.String())
		}

		var root [32]byte
		copy(root[:], d.DepositDataRoot)

		req.Pubkeys = append(req.Pubkeys, d.Pubkey)
		req.Signatures = append(req.Signatures, d.Signature)
		req.DepositDataRoots = append(req.DepositDataRoots, root)
	}
	return req, nil
}

// ReadFile reads a json list of deposit data.
func ReadFile(path string) ([]*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var datas []*Data
	if err := json.Unmarshal(raw, &datas); err != nil {
		return nil, fmt.Errorf("failed to decode deposit data: %v", err)
	}
	return datas, nil
}

// WriteFile writes a json list of deposit data.
func WriteFile(path string, datas []*Data) error {
	raw, err := json.MarshalIndent(datas, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0644)
}
