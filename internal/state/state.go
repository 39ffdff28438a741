package state

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/hashicorp/go-hclog"
	"github.com/holiman/uint256"
)

// ErrTxnClosed is returned when a committed or discarded txn is used.
var ErrTxnClosed = errors.New("txn already closed")

// Reader reads committed or pending state.
type Reader interface {
	Get(key []byte) ([]byte, bool, error)
}

// Writer writes pending state.
type Writer interface {
	Reader
	Set(key, value []byte) error
	Delete(key []byte) error
}

// Store is the persisted state backed by pebble.
type Store struct {
	db     *pebble.DB
	logger hclog.Logger
}

// Open opens the store at path. An empty path opens an in memory store.
func Open(path string, logger hclog.Logger) (*Store, error) {
	logger = logger.Named("state")

	opts := &pebble.Options{
		Logger: &pebbleLogger{logger: logger},
	}
	if path == "" {
		opts.FS = vfs.NewMem()
	}
	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open state at '%s': %v", path, err)
	}
	s := &Store{
		db:     db,
		logger: logger,
	}
	return s, nil
}

func get(g func(key []byte) ([]byte, io.Closer, error), key []byte) ([]byte, bool, error) {
	val, closer, err := g(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer closer.Close()

	res := make([]byte, len(val))
	copy(res, val)
	return res, true, nil
}

// Get returns the committed value of key.
func (s *Store) Get(key []byte) ([]byte, bool, error) {
	return get(s.db.Get, key)
}

// Txn opens a new transaction. Writes are only visible to the txn itself
// until Commit.
func (s *Store) Txn() *Txn {
	return &Txn{
		batch: s.db.NewIndexedBatch(),
	}
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Txn is an all-or-nothing set of writes.
type Txn struct {
	batch  *pebble.Batch
	closed bool
	writes int
}

func (t *Txn) Get(key []byte) ([]byte, bool, error) {
	if t.closed {
		return nil, false, ErrTxnClosed
	}
	return get(t.batch.Get, key)
}

func (t *Txn) Set(key, value []byte) error {
	if t.closed {
		return ErrTxnClosed
	}
	t.writes++
	return t.batch.Set(key, value, nil)
}

func (t *Txn) Delete(key []byte) error {
	if t.closed {
		return ErrTxnClosed
	}
	t.writes++
	return t.batch.Delete(key, nil)
}

// Writes returns the number of writes staged in the txn.
func (t *Txn) Writes() int {
	return t.writes
}

// Commit applies every write of the txn atomically.
func (t *Txn) Commit() error {
	if t.closed {
		return ErrTxnClosed
	}
	t.closed = true

	if err := t.batch.Commit(pebble.Sync); err != nil {
		t.batch.Close()
		return fmt.Errorf("failed to commit txn: %v", err)
	}
	return t.batch.Close()
}

// Discard drops every write of the txn. It is safe to call after Commit.
func (t *Txn) Discard() {
	if t.closed {
		return
	}
	t.closed = true
	t.batch.Close()
}

// GetUint64 reads a big endian uint64, zero if missing.
func GetUint64(r Reader, key []byte) (uint64, error) {
	val, ok, err := r.Get(key)
	if err != nil || !ok {
		return 0, err
	}
	if len(val) != 8 {
		return 0, fmt.Errorf("corrupted uint64 at '%s'", key)
	}
	return binary.BigEndian.Uint64(val), nil
}

// SetUint64 writes a big endian uint64.
func SetUint64(w Writer, key []byte, i uint64) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, i)
	return w.Set(key, buf)
}

// GetUint256 reads a 32 byte big endian integer, zero if missing.
func GetUint256(r Reader, key []byte) (*uint256.Int, error) {
	val, ok, err := r.Get(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return new(uint256.Int), nil
	}
	if len(val) != 32 {
		return nil, fmt.Errorf("corrupted uint256 at '%s'", key)
	}
	return new(uint256.Int).SetBytes32(val), nil
}

// SetUint256 writes a 32 byte big endian integer.
func SetUint256(w Writer, key []byte, i *uint256.Int) error {
	buf := i.Bytes32()
	return w.Set(key, buf[:])
}

// Key joins the parts of a key with '/'.
func Key(parts ...string) []byte {
	var res []byte
	for i, p := range parts {
		if i != 0 {
			res = append(res, '/')
		}
		res = append(res, p...)
	}
	return res
}

type pebbleLogger struct {
	logger hclog.Logger
}

func (p *pebbleLogger) Infof(format string, args ...interface{}) {
	p.logger.Trace(fmt.Sprintf(format, args...))
}

func (p *pebbleLogger) Errorf(format string, args ...interface{}) {
	p.logger.Error(fmt.Sprintf(format, args...))
}

func (p *pebbleLogger) Fatalf(format string, args ...interface{}) {
	p.logger.Error(fmt.Sprintf(format, args...))
	panic(fmt.Sprintf(format, args...))
}
