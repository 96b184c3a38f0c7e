// Package auth implements the owner gate for privileged bridge operations.
//
// Ownership is proven by possession: a privileged call must attach at least
// one unit of the auth token minted at initialization. The host returns the
// attachment to the caller after the call, so proving ownership does not
// spend it.
package auth

import (
	"errors"

	"github.com/glacierlabs/synthbtc/internal/token"
)

// ErrNotAuthorized reports a privileged call without the auth token attached.
var ErrNotAuthorized = errors.New("auth token not attached")

// Gate checks call attachments against the auth token.
type Gate struct {
	authAsset token.ID
}

// NewGate creates a gate keyed to the given auth token.
func NewGate(authAsset token.ID) *Gate {
	return &Gate{authAsset: authAsset}
}

// RequireOwner returns nil if incoming carries at least one unit of the auth
// token, ErrNotAuthorized otherwise.
func (g *Gate) RequireOwner(incoming []token.Transfer) error {
	for _, transfer := range incoming {
		if transfer.Asset != g.authAsset {
			continue
		}
		if transfer.Amount != nil && !transfer.Amount.IsZero() {
			return nil
		}
	}
	return ErrNotAuthorized
}
