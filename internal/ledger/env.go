package ledger

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/holiman/uint256"
	"github.com/tomknig/ethereum-batch-deposit/internal/state"
	"github.com/umbracle/ethgo"
)

// txContext is shared by every frame of one invocation.
type txContext struct {
	txn    *state.Txn
	gas    *gasMeter
	logs   []*Log
	static bool
}

// Env is the execution frame handed to a contract.
type Env struct {
	ledger *Ledger
	tx     *txContext
	depth  int

	// Caller is the account that invoked the contract
	Caller ethgo.Address

	// Address is the address of the running contract
	Address ethgo.Address

	// Value is the amount transferred with the call
	Value *uint256.Int
}

func (e *Env) Logger() hclog.Logger {
	if name, ok := e.ledger.Name(e.Address); ok {
		return e.ledger.logger.Named(name)
	}
	return e.ledger.logger
}

// Call invokes another account from the running contract, transferring value.
func (e *Env) Call(to ethgo.Address, value *uint256.Int, input []byte) ([]byte, error) {
	if value == nil {
		value = new(uint256.Int)
	}
	return e.execute(e.Address, to, value, input, e.ledger.config.CallCost)
}

func (e *Env) execute(from, to ethgo.Address, value *uint256.Int, input []byte, cost uint64) ([]byte, error) {
	if e.depth >= e.ledger.config.MaxDepth {
		return nil, ErrDepth
	}
	if err := e.tx.gas.consume(cost); err != nil {
		return nil, err
	}

	if !value.IsZero() {
		if e.tx.static {
			return nil, ErrWriteProtection
		}
		if err := e.tx.gas.consume(e.ledger.config.ValueCost); err != nil {
			return nil, err
		}
		if err := e.transfer(from, to, value); err != nil {
			return nil, err
		}
	}

	c, ok := e.ledger.contract(to)
	if !ok {
		// plain account
		return nil, nil
	}
	frame := &Env{
		ledger:  e.ledger,
		tx:      e.tx,
		depth:   e.depth + 1,
		Caller:  from,
		Address: to,
		Value:   value.Clone(),
	}
	return c.Run(frame, input)
}

func (e *Env) transfer(from, to ethgo.Address, value *uint256.Int) error {
	txn := e.tx.txn

	fromBalance, err := state.GetUint256(txn, balanceKey(from))
	if err != nil {
		return err
	}
	if fromBalance.Lt(value) {
		return fmt.Errorf("%w: %s has %s, needs %s", ErrInsufficientBalance, from.String(), fromBalance.Dec(), value.Dec())
	}
	if err := state.SetUint256(txn, balanceKey(from), new(uint256.Int).Sub(fromBalance, value)); err != nil {
		return err
	}

	toBalance, err := state.GetUint256(txn, balanceKey(to))
	if err != nil {
		return err
	}
	res, overflow := new(uint256.Int).AddOverflow(toBalance, value)
	if overflow {
		return fmt.Errorf("balance overflow for %s", to.String())
	}
	return state.SetUint256(txn, balanceKey(to), res)
}

// Balance returns the balance of an account as seen by the invocation.
func (e *Env) Balance(addr ethgo.Address) (*uint256.Int, error) {
	if err := e.tx.gas.consume(e.ledger.config.ReadCost); err != nil {
		return nil, err
	}
	return state.GetUint256(e.tx.txn, balanceKey(addr))
}

// Storage returns the storage of the running contract.
func (e *Env) Storage() state.Writer {
	return &storage{env: e, prefix: storagePrefix(e.Address)}
}

// Emit appends a log to the invocation.
func (e *Env) Emit(topics []ethgo.Hash, data []byte) error {
	if e.tx.static {
		return ErrWriteProtection
	}
	if err := e.tx.gas.consume(e.ledger.config.LogCost); err != nil {
		return err
	}
	e.tx.logs = append(e.tx.logs, &Log{
		Address: e.Address,
		Topics:  topics,
		Data:    data,
	})
	return nil
}

func storagePrefix(addr ethgo.Address) []byte {
	return state.Key("contract", addr.String(), "")
}

func prefixed(prefix, key []byte) []byte {
	res := make([]byte, 0, len(prefix)+len(key))
	res = append(res, prefix...)
	return append(res, key...)
}

type storage struct {
	env    *Env
	prefix []byte
}

func (s *storage) Get(key []byte) ([]byte, bool, error) {
	if err := s.env.tx.gas.consume(s.env.ledger.config.ReadCost); err != nil {
		return nil, false, err
	}
	return s.env.tx.txn.Get(prefixed(s.prefix, key))
}

func (s *storage) Set(key, value []byte) error {
	if s.env.tx.static {
		return ErrWriteProtection
	}
	if err := s.env.tx.gas.consume(s.env.ledger.config.WriteCost); err != nil {
		return err
	}
	return s.env.tx.txn.Set(prefixed(s.prefix, key), value)
}

func (s *storage) Delete(key []byte) error {
	if s.env.tx.static {
		return ErrWriteProtection
	}
	if err := s.env.tx.gas.consume(s.env.ledger.config.WriteCost); err != nil {
		return err
	}
	return s.env.tx.txn.Delete(prefixed(s.prefix, key))
}

type prefixReader struct {
	r      state.Reader
	prefix []byte
}

func (p *prefixReader) Get(key []byte) ([]byte, bool, error) {
	return p.r.Get(prefixed(p.prefix, key))
}
