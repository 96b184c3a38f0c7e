package storage

import (
	"sort"
	"strings"
)

// MemoryDB implements DB using an in-memory map. It backs tests and the
// dry-run paths of the CLI; production state lives in Badger.
type MemoryDB struct {
	data map[string][]byte
}

// NewMemory creates a new in-memory database.
func NewMemory() *MemoryDB {
	return &MemoryDB{
		data: make(map[string][]byte),
	}
}

// Get retrieves a value by key. Returns ErrNotFound if the key does not exist.
func (m *MemoryDB) Get(key []byte) ([]byte, error) {
	v, ok := m.data[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

// Put stores a key-value pair.
func (m *MemoryDB) Put(key, value []byte) error {
	m.data[string(key)] = value
	return nil
}

// Delete removes a key.
func (m *MemoryDB) Delete(key []byte) error {
	delete(m.data, string(key))
	return nil
}

// Has checks if a key exists.
func (m *MemoryDB) Has(key []byte) (bool, error) {
	_, ok := m.data[string(key)]
	return ok, nil
}

// ForEach iterates over all keys with the given prefix in ascending key
// order, matching BadgerDB's iteration order so ledger reads behave the
// same against either backend.
func (m *MemoryDB) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	p := string(prefix)
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		if strings.HasPrefix(k, p) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := fn([]byte(k), m.data[k]); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (m *MemoryDB) Close() error {
	return nil
}

// NewBatch creates a batch that buffers writes and applies them on Commit.
func (m *MemoryDB) NewBatch() Batch {
	return &memoryBatch{db: m}
}

type memoryBatch struct {
	db  *MemoryDB
	ops []memoryOp
}

type memoryOp struct {
	key   []byte
	value []byte // nil means delete
}

func (mb *memoryBatch) Put(key, value []byte) error {
	k := append([]byte(nil), key...)
	v := append([]byte(nil), value...)
	if v == nil {
		v = []byte{}
	}
	mb.ops = append(mb.ops, memoryOp{key: k, value: v})
	return nil
}

func (mb *memoryBatch) Delete(key []byte) error {
	k := append([]byte(nil), key...)
	mb.ops = append(mb.ops, memoryOp{key: k})
	return nil
}

func (mb *memoryBatch) Commit() error {
	for _, op := range mb.ops {
		if op.value == nil {
			delete(mb.db.data, string(op.key))
		} else {
			mb.db.data[string(op.key)] = op.value
		}
	}
	mb.ops = nil
	return nil
}
