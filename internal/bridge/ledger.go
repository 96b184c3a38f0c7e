package bridge

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/glacierlabs/synthbtc/internal/log"
	"github.com/glacierlabs/synthbtc/internal/storage"
	"github.com/glacierlabs/synthbtc/pkg/payment"
)

// The payout ledger is append-only and bucketed by block height. Records
// within a bucket carry a big-endian sequence number so iteration returns
// them in insertion order.

// appendPayment writes one payout obligation through batch and bumps the
// height's sequence counter.
func (b *Bridge) appendPayment(batch storage.Batch, height uint64, p *payment.Payment) error {
	seq, err := b.nextSeq(height)
	if err != nil {
		return err
	}
	if err := batch.Put(paymentKey(height, seq), p.Bytes()); err != nil {
		return err
	}
	var next [4]byte
	binary.BigEndian.PutUint32(next[:], seq+1)
	if err := batch.Put(seqKey(height), next[:]); err != nil {
		return err
	}
	log.Ledger.Debug().Uint64("height", height).Uint32("seq", seq).Msg("payment queued")
	return nil
}

func (b *Bridge) nextSeq(height uint64) (uint32, error) {
	raw, err := b.db.Get(seqKey(height))
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("payment seq get: %w", err)
	}
	if len(raw) != 4 {
		return 0, fmt.Errorf("%w: seq record %d bytes", ErrCorruptLedger, len(raw))
	}
	return binary.BigEndian.Uint32(raw), nil
}

// ListPending returns the payout obligations queued at height, oldest first.
// No height ever has its bucket cleared; settlement is the relayer's
// business, not the bridge's.
func (b *Bridge) ListPending(height uint64) ([]*payment.Payment, error) {
	var pending []*payment.Payment
	prefix := paymentPrefix(height)
	err := b.db.ForEach(prefix, func(key, value []byte) error {
		p, err := payment.Decode(value)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorruptLedger, err)
		}
		pending = append(pending, &p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pending, nil
}

// PendingBytes returns the height's queued obligations as one concatenated
// byte string of consensus-encoded records, the form relayers consume.
func (b *Bridge) PendingBytes(height uint64) ([]byte, error) {
	pending, err := b.ListPending(height)
	if err != nil {
		return nil, err
	}
	var out []byte
	for _, p := range pending {
		out = append(out, p.Bytes()...)
	}
	return out, nil
}

func paymentPrefix(height uint64) []byte {
	key := make([]byte, len(prefixPayments)+8)
	copy(key, prefixPayments)
	binary.BigEndian.PutUint64(key[len(prefixPayments):], height)
	return key
}

func paymentKey(height uint64, seq uint32) []byte {
	key := paymentPrefix(height)
	key = append(key, '/')
	var s [4]byte
	binary.BigEndian.PutUint32(s[:], seq)
	return append(key, s[:]...)
}

func seqKey(height uint64) []byte {
	key := make([]byte, len(prefixPaymentSeq)+8)
	copy(key, prefixPaymentSeq)
	binary.BigEndian.PutUint64(key[len(prefixPaymentSeq):], height)
	return key
}
