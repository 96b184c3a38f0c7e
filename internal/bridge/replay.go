package bridge

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/glacierlabs/synthbtc/internal/storage"
)

// observe marks txid as processed, writing the mark through batch so it
// commits in the same unit of work as the mint it authorizes. Returns
// ErrAlreadyProcessed if the txid has been seen before; marks are never
// deleted.
func (b *Bridge) observe(batch storage.Batch, txid chainhash.Hash) error {
	key := seenKey(txid)
	seen, err := b.db.Has(key)
	if err != nil {
		return fmt.Errorf("seen check: %w", err)
	}
	if seen {
		return fmt.Errorf("%w: %s", ErrAlreadyProcessed, txid)
	}
	return batch.Put(key, []byte{0x01})
}

// Seen reports whether a wrap has already been credited for txid.
func (b *Bridge) Seen(txid chainhash.Hash) (bool, error) {
	return b.db.Has(seenKey(txid))
}

func seenKey(txid chainhash.Hash) []byte {
	key := make([]byte, len(prefixSeen)+chainhash.HashSize)
	copy(key, prefixSeen)
	copy(key[len(prefixSeen):], txid[:])
	return key
}
