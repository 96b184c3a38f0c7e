package token

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/glacierlabs/synthbtc/internal/storage"
)

// Supply accounting errors.
var (
	ErrSupplyOverflow  = errors.New("total supply overflow")
	ErrSupplyUnderflow = errors.New("burn exceeds total supply")
)

// Storage keys.
var (
	keyMetadata = []byte("token/meta")
	keySupply   = []byte("token/supply")
)

// Store persists asset metadata and total supply.
type Store struct {
	db storage.DB
}

// NewStore creates an asset store on db.
func NewStore(db storage.DB) *Store {
	return &Store{db: db}
}

// SetMetadata stores the asset metadata through the given batch.
func (s *Store) SetMetadata(batch storage.Batch, meta *Metadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("token marshal: %w", err)
	}
	return batch.Put(keyMetadata, data)
}

// Metadata retrieves the stored asset metadata.
func (s *Store) Metadata() (*Metadata, error) {
	data, err := s.db.Get(keyMetadata)
	if err != nil {
		return nil, fmt.Errorf("token get: %w", err)
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("token unmarshal: %w", err)
	}
	return &meta, nil
}

// TotalSupply returns the current total supply in base units.
// An unset supply reads as zero.
func (s *Store) TotalSupply() (uint64, error) {
	data, err := s.db.Get(keySupply)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("supply get: %w", err)
	}
	if len(data) != 8 {
		return 0, fmt.Errorf("supply record is %d bytes, want 8", len(data))
	}
	return binary.LittleEndian.Uint64(data), nil
}

// Mint credits amount to the total supply, writing through batch so the
// credit commits together with the rest of the call's state changes.
func (s *Store) Mint(batch storage.Batch, amount uint64) (uint64, error) {
	supply, err := s.TotalSupply()
	if err != nil {
		return 0, err
	}
	if supply > math.MaxUint64-amount {
		return 0, ErrSupplyOverflow
	}
	newSupply := supply + amount
	if err := batch.Put(keySupply, supplyBytes(newSupply)); err != nil {
		return 0, err
	}
	return newSupply, nil
}

// Burn debits amount from the total supply through batch.
func (s *Store) Burn(batch storage.Batch, amount uint64) (uint64, error) {
	supply, err := s.TotalSupply()
	if err != nil {
		return 0, err
	}
	if amount > supply {
		return 0, ErrSupplyUnderflow
	}
	newSupply := supply - amount
	if err := batch.Put(keySupply, supplyBytes(newSupply)); err != nil {
		return 0, err
	}
	return newSupply, nil
}

func supplyBytes(supply uint64) []byte {
	return binary.LittleEndian.AppendUint64(nil, supply)
}
