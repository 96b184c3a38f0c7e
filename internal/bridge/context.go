package bridge

import "github.com/glacierlabs/synthbtc/internal/token"

// Call is the parsed inbound call context handed over by the host dispatch
// layer. Every operation takes it as an explicit argument; the engines keep
// no ambient per-call state.
type Call struct {
	// Caller identifies the invoking principal. The zero ID means an
	// externally-owned account; anything else is another contract.
	Caller token.ID

	// Vout is the virtual output index this call executes at, used to
	// locate the call's protocol message within the transaction.
	Vout uint32

	// Height is the block height of the containing transaction. Hosts
	// that do not track heights pass zero and the ledger degenerates to
	// a single bucket.
	Height uint64

	// RawTx is the consensus-encoded Bitcoin transaction containing the
	// call.
	RawTx []byte

	// Incoming lists the value transfers attached to the call.
	Incoming []token.Transfer
}

// CallerIsExternal reports whether the call came from an externally-owned
// account rather than another contract.
func (c *Call) CallerIsExternal() bool {
	return c.Caller.IsZero()
}
