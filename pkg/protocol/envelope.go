package protocol

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// The envelope magic: a provably unspendable null-data output tagged with
// OP_13 to distinguish bridge payloads from ordinary OP_RETURN data.
const (
	opReturn = txscript.OP_RETURN
	opMagic  = txscript.OP_13
)

// EncodeScript builds the null-data script carrying the given messages.
// Payloads larger than the maximum script element size are split across
// multiple pushes; Decipher concatenates them back.
func EncodeScript(msgs []Message) ([]byte, error) {
	payload := encodePayload(msgs)

	builder := txscript.NewScriptBuilder()
	builder.AddOp(opReturn)
	builder.AddOp(opMagic)
	for len(payload) > 0 {
		n := len(payload)
		if n > txscript.MaxScriptElementSize {
			n = txscript.MaxScriptElementSize
		}
		builder.AddData(payload[:n])
		payload = payload[n:]
	}
	script, err := builder.Script()
	if err != nil {
		return nil, fmt.Errorf("build envelope script: %w", err)
	}
	return script, nil
}

// envelopePayload extracts the concatenated push data from an envelope
// script, or ok=false if the script is not an envelope.
func envelopePayload(script []byte) (payload []byte, ok bool, err error) {
	if len(script) < 2 || script[0] != opReturn || script[1] != opMagic {
		return nil, false, nil
	}

	tokenizer := txscript.MakeScriptTokenizer(0, script[2:])
	for tokenizer.Next() {
		data := tokenizer.Data()
		if data == nil {
			return nil, true, fmt.Errorf("%w: non-push opcode in envelope", ErrMalformedPayload)
		}
		payload = append(payload, data...)
	}
	if err := tokenizer.Err(); err != nil {
		return nil, true, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return payload, true, nil
}

// Decipher locates the transaction's envelope output and decodes its
// messages. Returns ErrNoProtocolMessage if the transaction carries no
// envelope. Only the first envelope output is honored.
func Decipher(tx *wire.MsgTx) ([]Message, error) {
	for _, out := range tx.TxOut {
		payload, ok, err := envelopePayload(out.PkScript)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		return decodePayload(payload)
	}
	return nil, ErrNoProtocolMessage
}
