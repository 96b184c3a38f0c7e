// Package bridge implements the wrap/unwrap verification and settlement
// core of the synthetic Bitcoin bridge.
//
// The bridge mints the synthetic asset when a Bitcoin transaction pays the
// custodian script, and burns it to queue a real-BTC payout obligation for
// the external relayer. The host environment serializes calls, so no
// internal locking is needed; atomicity within a call is provided by the
// storage batch each mutating operation commits through.
package bridge

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"

	"github.com/glacierlabs/synthbtc/config"
	"github.com/glacierlabs/synthbtc/internal/log"
	"github.com/glacierlabs/synthbtc/internal/storage"
	"github.com/glacierlabs/synthbtc/internal/token"
)

// Storage keys. The exact layout is part of a deployment's persistent
// contract; changing it requires a migration.
var (
	keySigner        = []byte("signer")
	keyPremium       = []byte("premium")
	keyInitialized   = []byte("initialized")
	prefixSeen       = []byte("seen/")
	prefixPayments   = []byte("payments/byheight/")
	prefixPaymentSeq = []byte("payments/seq/")
)

// Bridge owns the settlement core's persistent state and engines.
type Bridge struct {
	db      storage.DB
	batcher storage.Batcher
	tokens  *token.Store
	params  *chaincfg.Params

	asset         token.ID // the synthetic asset
	authAsset     token.ID // the owner-gate auth token
	defaultSigner []byte   // compiled-in custodian script

	log zerolog.Logger
}

// New creates a bridge instance over db, configured for cfg's network.
func New(db storage.DB, cfg *config.Config) (*Bridge, error) {
	batcher, ok := db.(storage.Batcher)
	if !ok {
		return nil, fmt.Errorf("storage backend does not support atomic batches")
	}

	defaultSigner, err := taprootScript(config.DefaultSignerPubKey)
	if err != nil {
		return nil, fmt.Errorf("derive default custodian script: %w", err)
	}

	return &Bridge{
		db:            db,
		batcher:       batcher,
		tokens:        token.NewStore(db),
		params:        cfg.ChainParams(),
		asset:         token.DeriveID("frbtc/" + string(cfg.Network)),
		authAsset:     token.DeriveID("frbtc-auth/" + string(cfg.Network)),
		defaultSigner: defaultSigner,
		log:           log.Bridge,
	}, nil
}

// Asset returns the synthetic asset's identifier.
func (b *Bridge) Asset() token.ID {
	return b.asset
}

// AuthAsset returns the owner-gate auth token's identifier.
func (b *Bridge) AuthAsset() token.ID {
	return b.authAsset
}

// Tokens exposes the asset accounting store.
func (b *Bridge) Tokens() *token.Store {
	return b.tokens
}

// Initialize performs the one-time setup: marks the instance initialized,
// stores the asset metadata, and returns the mint instruction for the
// requested number of auth-token units, which the host delivers to the
// deployer.
func (b *Bridge) Initialize(call *Call, authUnits uint64) (*token.Transfer, error) {
	initialized, err := b.db.Has(keyInitialized)
	if err != nil {
		return nil, fmt.Errorf("initialized check: %w", err)
	}
	if initialized {
		return nil, ErrAlreadyInitialized
	}

	batch := b.batcher.NewBatch()
	if err := batch.Put(keyInitialized, []byte{0x01}); err != nil {
		return nil, err
	}
	meta := &token.Metadata{
		Name:     config.AssetName,
		Symbol:   config.AssetSymbol,
		Decimals: config.AssetDecimals,
	}
	if err := b.tokens.SetMetadata(batch, meta); err != nil {
		return nil, err
	}
	if err := batch.Commit(); err != nil {
		return nil, fmt.Errorf("initialize commit: %w", err)
	}

	b.log.Info().
		Str("asset", b.asset.String()).
		Uint64("auth_units", authUnits).
		Msg("bridge initialized")

	return &token.Transfer{Asset: b.authAsset, Amount: uint256.NewInt(authUnits)}, nil
}
