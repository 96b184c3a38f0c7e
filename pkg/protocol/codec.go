package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Flag bits for the optional message fields.
const (
	flagPointer = 1 << 0
	flagRefund  = 1 << 1
)

// Per-message payload layout, all integers LEB128 varints:
//
//	nEdicts, (block, tx, amount, output)*nEdicts,
//	flags, [pointer], [refund],
//	nCalldata, calldata*nCalldata
//
// Messages are concatenated back to back; the payload is exhausted exactly.

// encodePayload serializes messages into a payload.
func encodePayload(msgs []Message) []byte {
	var buf []byte
	for _, m := range msgs {
		buf = binary.AppendUvarint(buf, uint64(len(m.Edicts)))
		for _, e := range m.Edicts {
			buf = binary.AppendUvarint(buf, e.Block)
			buf = binary.AppendUvarint(buf, e.Tx)
			buf = binary.AppendUvarint(buf, e.Amount)
			buf = binary.AppendUvarint(buf, uint64(e.Output))
		}

		var flags uint64
		if m.Pointer != nil {
			flags |= flagPointer
		}
		if m.Refund != nil {
			flags |= flagRefund
		}
		buf = binary.AppendUvarint(buf, flags)
		if m.Pointer != nil {
			buf = binary.AppendUvarint(buf, uint64(*m.Pointer))
		}
		if m.Refund != nil {
			buf = binary.AppendUvarint(buf, uint64(*m.Refund))
		}

		buf = binary.AppendUvarint(buf, uint64(len(m.Calldata)))
		for _, v := range m.Calldata {
			buf = binary.AppendUvarint(buf, v)
		}
	}
	return buf
}

// decodePayload parses a payload into its messages.
func decodePayload(payload []byte) ([]Message, error) {
	r := &payloadReader{buf: payload}
	var msgs []Message
	for !r.done() {
		var m Message

		nEdicts, err := r.uvarint("edict count")
		if err != nil {
			return nil, err
		}
		if nEdicts > uint64(len(r.buf)) {
			// Each edict needs at least 4 bytes; an oversized count is a
			// truncation in disguise.
			return nil, fmt.Errorf("%w: edict count %d exceeds payload", ErrMalformedPayload, nEdicts)
		}
		for i := uint64(0); i < nEdicts; i++ {
			var e Edict
			if e.Block, err = r.uvarint("edict block"); err != nil {
				return nil, err
			}
			if e.Tx, err = r.uvarint("edict tx"); err != nil {
				return nil, err
			}
			if e.Amount, err = r.uvarint("edict amount"); err != nil {
				return nil, err
			}
			out, err := r.uvarint("edict output")
			if err != nil {
				return nil, err
			}
			if out > math.MaxUint32 {
				return nil, fmt.Errorf("%w: edict output %d out of range", ErrMalformedPayload, out)
			}
			e.Output = uint32(out)
			m.Edicts = append(m.Edicts, e)
		}

		flags, err := r.uvarint("flags")
		if err != nil {
			return nil, err
		}
		if flags&^uint64(flagPointer|flagRefund) != 0 {
			return nil, fmt.Errorf("%w: unknown flag bits %#x", ErrMalformedPayload, flags)
		}
		if flags&flagPointer != 0 {
			v, err := r.uvarint("pointer")
			if err != nil {
				return nil, err
			}
			if v > math.MaxUint32 {
				return nil, fmt.Errorf("%w: pointer %d out of range", ErrMalformedPayload, v)
			}
			p := uint32(v)
			m.Pointer = &p
		}
		if flags&flagRefund != 0 {
			v, err := r.uvarint("refund")
			if err != nil {
				return nil, err
			}
			if v > math.MaxUint32 {
				return nil, fmt.Errorf("%w: refund %d out of range", ErrMalformedPayload, v)
			}
			p := uint32(v)
			m.Refund = &p
		}

		nCalldata, err := r.uvarint("calldata count")
		if err != nil {
			return nil, err
		}
		if nCalldata > uint64(len(r.buf)) {
			return nil, fmt.Errorf("%w: calldata count %d exceeds payload", ErrMalformedPayload, nCalldata)
		}
		for i := uint64(0); i < nCalldata; i++ {
			v, err := r.uvarint("calldata")
			if err != nil {
				return nil, err
			}
			m.Calldata = append(m.Calldata, v)
		}

		msgs = append(msgs, m)
	}
	return msgs, nil
}

// payloadReader walks a varint payload with bounds checking.
type payloadReader struct {
	buf []byte
}

func (r *payloadReader) done() bool {
	return len(r.buf) == 0
}

func (r *payloadReader) uvarint(field string) (uint64, error) {
	v, n := binary.Uvarint(r.buf)
	if n <= 0 {
		return 0, fmt.Errorf("%w: truncated or oversized %s varint", ErrMalformedPayload, field)
	}
	r.buf = r.buf[n:]
	return v, nil
}
