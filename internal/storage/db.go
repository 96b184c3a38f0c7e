// Package storage provides the key-value persistence layer for bridge state.
package storage

import "errors"

// ErrNotFound is returned by Get when a key does not exist.
var ErrNotFound = errors.New("key not found")

// DB is the interface for key-value storage.
type DB interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Has(key []byte) (bool, error)
	// ForEach iterates over all keys with the given prefix in ascending
	// key order. The callback receives a copy of the key and value.
	// Return a non-nil error from fn to stop iteration early.
	ForEach(prefix []byte, fn func(key, value []byte) error) error
	Close() error
}

// Batch accumulates writes that commit atomically. A call's state changes
// (replay mark + supply credit, or ledger append + supply debit) go through
// a single batch so a failed call leaves no partial writes behind.
type Batch interface {
	Put(key, value []byte) error
	Delete(key []byte) error
	Commit() error
}

// Batcher is implemented by DBs that support atomic batches.
type Batcher interface {
	NewBatch() Batch
}
