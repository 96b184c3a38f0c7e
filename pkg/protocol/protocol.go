// Package protocol decodes the out-of-band instruction channel that rides on
// a Bitcoin transaction's null-data output.
//
// The envelope is a script of the form OP_RETURN OP_13 <push>... whose
// concatenated push data is a varint payload carrying an ordered list of
// messages. Each message holds the value-transfer edicts, an optional
// pointer and refund output index, and the calldata (opcode plus arguments)
// for the contract call it authorizes. A call executing at virtual output
// index v of a transaction with n real outputs reads message v-n-1.
package protocol

import "errors"

// Decode errors.
var (
	// ErrMalformedTransaction reports raw transaction bytes that do not
	// consensus-decode.
	ErrMalformedTransaction = errors.New("malformed transaction")

	// ErrMalformedPayload reports an envelope whose payload does not decode.
	ErrMalformedPayload = errors.New("malformed protocol payload")

	// ErrNoProtocolMessage reports a call with no corresponding message.
	// Execution without a message means the call was never authorized at the
	// transaction level; callers treat this as fatal, not recoverable.
	ErrNoProtocolMessage = errors.New("no protocol message for call")
)

// Edict instructs the host to move an asset amount to a transaction output.
// The settlement core never executes edicts itself; their presence on a
// bridge message is a protocol violation.
type Edict struct {
	Block  uint64 // asset identifier, block part
	Tx     uint64 // asset identifier, tx part
	Amount uint64
	Output uint32
}

// Message is one decoded protocol message.
type Message struct {
	Edicts   []Edict
	Pointer  *uint32  // output index designated for change/target
	Refund   *uint32  // output index refunded on failure
	Calldata []uint64 // opcode followed by its arguments
}

// HasPointer reports whether the message carries a pointer.
func (m *Message) HasPointer() bool {
	return m.Pointer != nil
}
