// Package token implements the synthetic asset's supply accounting.
//
// The bridge mints the asset against verified Bitcoin payments and burns it
// when holders unwrap. Balances live with the host's value-transfer layer;
// this package owns the asset identity, its metadata, and the total supply.
package token

import (
	"encoding/hex"

	"github.com/holiman/uint256"
	"github.com/zeebo/blake3"
)

// IDSize is the length of an asset identifier in bytes.
const IDSize = 32

// ID identifies an asset. Derived deterministically from a domain label so
// every deployment of the same bridge instance agrees on it.
type ID [IDSize]byte

// DeriveID computes an asset ID from a domain label.
// ID = BLAKE3("asset/" || label).
func DeriveID(label string) ID {
	return ID(blake3.Sum256(append([]byte("asset/"), label...)))
}

// String returns the hex-encoded ID.
func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

// IsZero returns true if the ID is all zeros.
func (id ID) IsZero() bool {
	return id == ID{}
}

// Transfer is a call-scoped value movement of an asset: an attachment on an
// inbound call, or a mint/forward instruction on the response.
type Transfer struct {
	Asset  ID
	Amount *uint256.Int
}

// Metadata holds descriptive information about the asset.
type Metadata struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}
