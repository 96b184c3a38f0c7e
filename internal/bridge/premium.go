package bridge

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/glacierlabs/synthbtc/config"
	"github.com/glacierlabs/synthbtc/internal/storage"
)

// Premium returns the fee rate applied to wraps, scaled by
// config.PremiumScale. Unset storage yields the compiled-in default.
func (b *Bridge) Premium() (*uint256.Int, error) {
	raw, err := b.db.Get(keyPremium)
	if errors.Is(err, storage.ErrNotFound) {
		return uint256.NewInt(config.DefaultPremium), nil
	}
	if err != nil {
		return nil, fmt.Errorf("premium get: %w", err)
	}
	premium, err := decodePremium(raw)
	if err != nil {
		return nil, err
	}
	return premium, nil
}

// SetPremium stores a new fee rate. The owner gate has already been checked
// by the entry point. Rates above config.MaxPremium (100% of payout) are
// rejected.
func (b *Bridge) SetPremium(premium *uint256.Int) error {
	if premium.GtUint64(config.MaxPremium) {
		return fmt.Errorf("%w: got %s", ErrInvalidPremium, premium)
	}
	if err := b.db.Put(keyPremium, encodePremium(premium)); err != nil {
		return fmt.Errorf("premium put: %w", err)
	}
	b.log.Info().Str("premium", premium.String()).Msg("premium updated")
	return nil
}

// The premium is persisted as a 16-byte little-endian value. SetPremium
// bounds it well under 2^64, but the width is kept for layout stability.
func encodePremium(v *uint256.Int) []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf[0:8], v[0])
	binary.LittleEndian.PutUint64(buf[8:16], v[1])
	return buf
}

func decodePremium(raw []byte) (*uint256.Int, error) {
	if len(raw) != 16 {
		return nil, fmt.Errorf("premium record: want 16 bytes, got %d", len(raw))
	}
	v := new(uint256.Int)
	v[0] = binary.LittleEndian.Uint64(raw[0:8])
	v[1] = binary.LittleEndian.Uint64(raw[8:16])
	return v, nil
}
