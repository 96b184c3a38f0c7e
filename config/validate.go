package config

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// Validate checks runtime config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	switch cfg.Network {
	case Mainnet, Testnet, Regtest:
	default:
		return fmt.Errorf("network must be %q, %q, or %q", Mainnet, Testnet, Regtest)
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("datadir must not be empty")
	}
	switch cfg.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn, or error")
	}

	// The default custodian script is derived from this key at startup, so a
	// broken build constant should surface here rather than on first wrap.
	if _, err := schnorr.ParsePubKey(DefaultSignerPubKey[:]); err != nil {
		return fmt.Errorf("default signer pubkey invalid: %w", err)
	}
	return nil
}
