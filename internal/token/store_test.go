package token

import (
	"errors"
	"math"
	"testing"

	"github.com/glacierlabs/synthbtc/internal/storage"
)

func TestStore_Metadata(t *testing.T) {
	db := storage.NewMemory()
	store := NewStore(db)

	meta := &Metadata{Name: "SUBFROST BTC", Symbol: "frBTC", Decimals: 8}
	batch := db.NewBatch()
	if err := store.SetMetadata(batch, meta); err != nil {
		t.Fatalf("SetMetadata: %v", err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got, err := store.Metadata()
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if got.Name != meta.Name || got.Symbol != meta.Symbol || got.Decimals != meta.Decimals {
		t.Errorf("Metadata = %+v, want %+v", got, meta)
	}
}

func TestStore_Metadata_Unset(t *testing.T) {
	store := NewStore(storage.NewMemory())
	if _, err := store.Metadata(); err == nil {
		t.Error("expected error for unset metadata")
	}
}

func TestStore_MintBurnSupply(t *testing.T) {
	db := storage.NewMemory()
	store := NewStore(db)

	supply, err := store.TotalSupply()
	if err != nil {
		t.Fatalf("TotalSupply: %v", err)
	}
	if supply != 0 {
		t.Errorf("initial supply = %d, want 0", supply)
	}

	batch := db.NewBatch()
	newSupply, err := store.Mint(batch, 99_500_000)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if newSupply != 99_500_000 {
		t.Errorf("Mint supply = %d, want 99500000", newSupply)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	batch = db.NewBatch()
	newSupply, err = store.Burn(batch, 40_000_000)
	if err != nil {
		t.Fatalf("Burn: %v", err)
	}
	if newSupply != 59_500_000 {
		t.Errorf("Burn supply = %d, want 59500000", newSupply)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	supply, err = store.TotalSupply()
	if err != nil {
		t.Fatalf("TotalSupply: %v", err)
	}
	if supply != 59_500_000 {
		t.Errorf("supply = %d, want 59500000", supply)
	}
}

func TestStore_MintUncommittedInvisible(t *testing.T) {
	db := storage.NewMemory()
	store := NewStore(db)

	batch := db.NewBatch()
	if _, err := store.Mint(batch, 1000); err != nil {
		t.Fatalf("Mint: %v", err)
	}
	// Batch never committed: supply must remain zero.
	supply, err := store.TotalSupply()
	if err != nil {
		t.Fatalf("TotalSupply: %v", err)
	}
	if supply != 0 {
		t.Errorf("supply = %d, want 0 before commit", supply)
	}
}

func TestStore_MintOverflow(t *testing.T) {
	db := storage.NewMemory()
	store := NewStore(db)

	batch := db.NewBatch()
	if _, err := store.Mint(batch, math.MaxUint64); err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if err := batch.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	batch = db.NewBatch()
	_, err := store.Mint(batch, 1)
	if !errors.Is(err, ErrSupplyOverflow) {
		t.Errorf("Mint overflow error = %v, want ErrSupplyOverflow", err)
	}
}

func TestStore_BurnUnderflow(t *testing.T) {
	db := storage.NewMemory()
	store := NewStore(db)

	batch := db.NewBatch()
	_, err := store.Burn(batch, 1)
	if !errors.Is(err, ErrSupplyUnderflow) {
		t.Errorf("Burn underflow error = %v, want ErrSupplyUnderflow", err)
	}
}

func TestDeriveID_Deterministic(t *testing.T) {
	a := DeriveID("frbtc/mainnet")
	b := DeriveID("frbtc/mainnet")
	c := DeriveID("frbtc/testnet")

	if a != b {
		t.Error("same label should derive same ID")
	}
	if a == c {
		t.Error("different labels should derive different IDs")
	}
	if a.IsZero() {
		t.Error("derived ID should not be zero")
	}
}
