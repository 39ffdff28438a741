package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-uuid"
	"github.com/holiman/uint256"
	"github.com/tomknig/ethereum-batch-deposit/internal/state"
	"github.com/umbracle/ethgo"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance for transfer")
	ErrOutOfGas            = errors.New("out of gas")
	ErrDepth               = errors.New("max call depth exceeded")
	ErrWriteProtection     = errors.New("write protection")
	ErrNotContract         = errors.New("no contract deployed at address")
)

// Contract is code deployed on the ledger.
type Contract interface {
	Run(env *Env, input []byte) ([]byte, error)
}

// Message is an invocation sent to the ledger.
type Message struct {
	From  ethgo.Address
	To    ethgo.Address
	Value *uint256.Int
	Input []byte

	// Gas is the step budget of the invocation, zero uses the default
	Gas uint64
}

// Ledger executes messages one at a time. Every message runs in its own
// state txn: all its effects are committed together or not at all.
type Ledger struct {
	logger hclog.Logger
	config *Config
	store  *state.Store

	// lock serializes every invocation
	lock sync.Mutex

	contractsLock sync.RWMutex
	contracts     map[ethgo.Address]Contract
	names         map[ethgo.Address]string

	// receipts of the last MaxReceipts invocations, oldest first in history
	receiptsLock sync.RWMutex
	receipts     map[string]*Receipt
	history      []string
}

func New(logger hclog.Logger, store *state.Store, config *Config) *Ledger {
	if config == nil {
		config = DefaultConfig()
	}
	return &Ledger{
		logger:    logger.Named("ledger"),
		config:    config,
		store:     store,
		contracts: map[ethgo.Address]Contract{},
		names:     map[ethgo.Address]string{},
		receipts:  map[string]*Receipt{},
	}
}

// ContractAddress returns the deterministic address of a named deployment.
func ContractAddress(name string) ethgo.Address {
	var addr ethgo.Address
	copy(addr[:], crypto.Keccak256([]byte("contract/" + name))[12:])
	return addr
}

// Deploy registers a contract under a deterministic address.
func (l *Ledger) Deploy(name string, c Contract) (ethgo.Address, error) {
	addr := ContractAddress(name)

	l.contractsLock.Lock()
	defer l.contractsLock.Unlock()

	if _, ok := l.contracts[addr]; ok {
		return ethgo.Address{}, fmt.Errorf("contract '%s' already deployed", name)
	}
	l.contracts[addr] = c
	l.names[addr] = name

	l.logger.Info("contract deployed", "name", name, "addr", addr.String())
	return addr, nil
}

func (l *Ledger) contract(addr ethgo.Address) (Contract, bool) {
	l.contractsLock.RLock()
	defer l.contractsLock.RUnlock()

	c, ok := l.contracts[addr]
	return c, ok
}

// Name returns the deployment name of a contract address.
func (l *Ledger) Name(addr ethgo.Address) (string, bool) {
	l.contractsLock.RLock()
	defer l.contractsLock.RUnlock()

	name, ok := l.names[addr]
	return name, ok
}

func balanceKey(addr ethgo.Address) []byte {
	return state.Key("ledger", "balance", addr.String())
}

// Balance returns the committed balance of an account.
func (l *Ledger) Balance(addr ethgo.Address) (*uint256.Int, error) {
	return state.GetUint256(l.store, balanceKey(addr))
}

// Mint credits an account out of thin air. Used to fund development accounts.
func (l *Ledger) Mint(addr ethgo.Address, value *uint256.Int) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	txn := l.store.Txn()
	defer txn.Discard()

	if err := credit(txn, addr, value); err != nil {
		return err
	}
	return txn.Commit()
}

var genesisKey = state.Key("ledger", "genesis")

// Genesis credits the initial balances of a new ledger. The allocation is
// applied once per store, later calls are no-ops and return false.
func (l *Ledger) Genesis(alloc map[ethgo.Address]*uint256.Int) (bool, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	txn := l.store.Txn()
	defer txn.Discard()

	_, ok, err := txn.Get(genesisKey)
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}
	for addr, value := range alloc {
		if err := credit(txn, addr, value); err != nil {
			return false, err
		}
	}
	if err := txn.Set(genesisKey, []byte{0x1}); err != nil {
		return false, err
	}
	if err := txn.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func credit(w state.Writer, addr ethgo.Address, value *uint256.Int) error {
	balance, err := state.GetUint256(w, balanceKey(addr))
	if err != nil {
		return err
	}
	res, overflow := new(uint256.Int).AddOverflow(balance, value)
	if overflow {
		return fmt.Errorf("balance overflow for %s", addr.String())
	}
	return state.SetUint256(w, balanceKey(addr), res)
}

// Storage returns a read only view of the committed storage of a contract.
func (l *Ledger) Storage(addr ethgo.Address) state.Reader {
	return &prefixReader{r: l.store, prefix: storagePrefix(addr)}
}

// Call executes a message. The returned receipt is nil only if the message
// was never executed. On a failed execution both a failed receipt and the
// execution error are returned, and none of the effects of the message
// (value transfer included) are persisted.
func (l *Ledger) Call(ctx context.Context, msg *Message) (*Receipt, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	// once started, an invocation runs to completion
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id, err := uuid.GenerateUUID()
	if err != nil {
		return nil, err
	}

	limit := msg.Gas
	if limit == 0 {
		limit = l.config.DefaultGas
	}
	value := msg.Value
	if value == nil {
		value = new(uint256.Int)
	}

	receipt := &Receipt{
		ID:    id,
		From:  msg.From,
		To:    msg.To,
		Value: value.Clone(),
		Gas:   limit,
	}

	txn := l.store.Txn()
	defer txn.Discard()

	tx := &txContext{
		txn: txn,
		gas: &gasMeter{limit: limit},
	}
	root := &Env{ledger: l, tx: tx}

	output, execErr := root.execute(msg.From, msg.To, value, msg.Input, l.config.TxCost)
	receipt.GasUsed = tx.gas.used

	if execErr == nil {
		if err := txn.Commit(); err != nil {
			return nil, err
		}
		receipt.Status = StatusSuccess
		receipt.Output = output
		receipt.Logs = tx.logs
	} else {
		receipt.Status = StatusFailed
		receipt.Err = execErr.Error()
		receipt.Revert = revertData(execErr)
	}

	l.logger.Debug("call", "id", id, "from", msg.From.String(), "to", msg.To.String(), "value", value.Dec(), "status", receipt.Status.String(), "gas", receipt.GasUsed)
	if execErr != nil {
		l.logger.Debug("call reverted", "id", id, "err", execErr)
	}
	l.storeReceipt(receipt)

	return receipt, execErr
}

// View runs a read only call against committed state.
func (l *Ledger) View(ctx context.Context, to ethgo.Address, input []byte) ([]byte, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	txn := l.store.Txn()
	defer txn.Discard()

	tx := &txContext{
		txn:    txn,
		gas:    &gasMeter{limit: l.config.DefaultGas},
		static: true,
	}
	root := &Env{ledger: l, tx: tx}

	if _, ok := l.contract(to); !ok {
		return nil, ErrNotContract
	}
	return root.execute(ethgo.Address{}, to, new(uint256.Int), input, 0)
}

func (l *Ledger) storeReceipt(r *Receipt) {
	l.receiptsLock.Lock()
	defer l.receiptsLock.Unlock()

	l.receipts[r.ID] = r
	l.history = append(l.history, r.ID)

	if limit := l.config.MaxReceipts; limit > 0 && len(l.history) > limit {
		evict := len(l.history) - limit
		for _, id := range l.history[:evict] {
			delete(l.receipts, id)
		}
		l.history = append([]string{}, l.history[evict:]...)
	}
}

// Receipt returns the receipt of a recently executed message.
func (l *Ledger) Receipt(id string) (*Receipt, bool) {
	l.receiptsLock.RLock()
	defer l.receiptsLock.RUnlock()

	r, ok := l.receipts[id]
	return r, ok
}

type revertError interface {
	RevertData() []byte
}

func revertData(err error) []byte {
	var rErr revertError
	if errors.As(err, &rErr) {
		return rErr.RevertData()
	}
	return nil
}

type gasMeter struct {
	limit uint64
	used  uint64
}

func (g *gasMeter) consume(n uint64) error {
	if g.limit-g.used < n {
		g.used = g.limit
		return ErrOutOfGas
	}
	g.used += n
	return nil
}
