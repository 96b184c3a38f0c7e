// Package payment defines the payout obligation record produced by an
// unwrap and its canonical serialized form.
//
// A record is the consensus-style concatenation of the spendable outpoint
// (32-byte txid, 4-byte little-endian index) and the owed output (8-byte
// little-endian satoshi value, compact-size script length, script bytes).
// Records are self-delimiting, so the ledger can store and return them as a
// single concatenated stream with no separators.
package payment

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/wire"
)

// ErrCorruptPayment reports a stored record that no longer decodes. The
// ledger is append-only and written atomically, so this is an internal
// consistency failure, never expected in normal operation.
var ErrCorruptPayment = errors.New("corrupt payment record")

// Payment is one queued real-BTC payout obligation.
type Payment struct {
	// Spendable is the outpoint of the burn transaction's custodian-paying
	// output. The relayer spends it to fund and prove the payout.
	Spendable wire.OutPoint

	// Value is the owed amount in satoshis.
	Value uint64

	// Script is the locking script the payout must be sent to.
	Script []byte
}

// Encode appends the canonical encoding of p to buf and returns it.
func (p *Payment) Encode(buf []byte) []byte {
	buf = append(buf, p.Spendable.Hash[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, p.Spendable.Index)
	buf = binary.LittleEndian.AppendUint64(buf, p.Value)

	var lenBuf bytes.Buffer
	// WriteVarInt on an in-memory buffer cannot fail.
	_ = wire.WriteVarInt(&lenBuf, 0, uint64(len(p.Script)))
	buf = append(buf, lenBuf.Bytes()...)
	buf = append(buf, p.Script...)
	return buf
}

// Bytes returns the canonical encoding of p.
func (p *Payment) Bytes() []byte {
	return p.Encode(nil)
}

// decode reads one record from r.
func decode(r *bytes.Reader) (Payment, error) {
	var p Payment
	if _, err := io.ReadFull(r, p.Spendable.Hash[:]); err != nil {
		return p, fmt.Errorf("%w: spendable txid: %v", ErrCorruptPayment, err)
	}
	var fixed [12]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return p, fmt.Errorf("%w: spendable index/value: %v", ErrCorruptPayment, err)
	}
	p.Spendable.Index = binary.LittleEndian.Uint32(fixed[:4])
	p.Value = binary.LittleEndian.Uint64(fixed[4:])

	scriptLen, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return p, fmt.Errorf("%w: script length: %v", ErrCorruptPayment, err)
	}
	if scriptLen > uint64(r.Len()) {
		return p, fmt.Errorf("%w: script length %d exceeds remaining %d", ErrCorruptPayment, scriptLen, r.Len())
	}
	p.Script = make([]byte, scriptLen)
	if _, err := io.ReadFull(r, p.Script); err != nil {
		return p, fmt.Errorf("%w: script: %v", ErrCorruptPayment, err)
	}
	return p, nil
}

// Decode parses a single record occupying the whole of data.
func Decode(data []byte) (Payment, error) {
	r := bytes.NewReader(data)
	p, err := decode(r)
	if err != nil {
		return p, err
	}
	if r.Len() != 0 {
		return p, fmt.Errorf("%w: %d trailing bytes", ErrCorruptPayment, r.Len())
	}
	return p, nil
}

// DecodeAll parses a concatenated stream of records.
func DecodeAll(data []byte) ([]Payment, error) {
	r := bytes.NewReader(data)
	var payments []Payment
	for r.Len() > 0 {
		p, err := decode(r)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, nil
}
