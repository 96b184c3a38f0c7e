// Package config handles bridge configuration.
//
// Configuration is split into two categories:
//   - Protocol rules: compiled-in constants (premium bounds, default signer,
//     asset identity) that must match across all deployments of a network
//   - Operator settings: runtime configuration that can vary per instance
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/btcsuite/btcd/chaincfg"
)

// NetworkType identifies the Bitcoin network the bridge verifies against.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
	Regtest NetworkType = "regtest"
)

// Config holds operator-facing runtime configuration.
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// Logging
	Log LogConfig
}

// LogConfig controls log output.
type LogConfig struct {
	Level string `conf:"log.level"`
	JSON  bool   `conf:"log.json"`
	File  string `conf:"log.file"`
}

// ChainParams returns the btcd chain parameters for the configured network.
// Address rendering of the custodian script depends on these.
func (c *Config) ChainParams() *chaincfg.Params {
	return ChainParams(c.Network)
}

// ChainParams maps a network type to btcd chain parameters.
func ChainParams(network NetworkType) *chaincfg.Params {
	switch network {
	case Testnet:
		return &chaincfg.TestNet3Params
	case Regtest:
		return &chaincfg.RegressionNetParams
	default:
		return &chaincfg.MainNetParams
	}
}

// DefaultDataDir returns the platform-specific default data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".synthbtc"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Synthbtc")
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "Synthbtc")
	default:
		return filepath.Join(home, ".synthbtc")
	}
}
