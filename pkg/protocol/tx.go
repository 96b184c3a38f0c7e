package protocol

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/wire"
)

// DecodeTx consensus-deserializes a raw Bitcoin transaction.
func DecodeTx(raw []byte) (*wire.MsgTx, error) {
	var tx wire.MsgTx
	if err := tx.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTransaction, err)
	}
	return &tx, nil
}

// MessageForCall selects the message addressed to the call executing at
// virtual output index callVout of a transaction with numOutputs real
// outputs. Virtual outputs are appended after the real ones, with index
// numOutputs reserved for the envelope itself, so the first message sits at
// callVout = numOutputs+1.
func MessageForCall(msgs []Message, callVout uint32, numOutputs int) (*Message, error) {
	idx := int(callVout) - numOutputs - 1
	if idx < 0 || idx >= len(msgs) {
		return nil, fmt.Errorf("%w: call vout %d, %d outputs, %d messages",
			ErrNoProtocolMessage, callVout, numOutputs, len(msgs))
	}
	return &msgs[idx], nil
}
