package config

// Protocol constants. These are consensus-critical for a deployment: every
// verifier of the same bridge instance must agree on them.
const (
	// PremiumScale is the fixed-point denominator for the wrap fee.
	// A premium of PremiumScale would consume the entire payout.
	PremiumScale = 100_000_000

	// DefaultPremium is the wrap fee applied when none has been set:
	// 500_000 / 1e8 = 0.5%.
	DefaultPremium = 500_000

	// MaxPremium is the largest settable premium (inclusive).
	MaxPremium = PremiumScale

	// AssetName is the display name of the synthetic asset.
	AssetName = "SUBFROST BTC"

	// AssetSymbol is the ticker of the synthetic asset.
	AssetSymbol = "frBTC"

	// AssetDecimals matches Bitcoin's satoshi precision.
	AssetDecimals = 8
)

// DefaultSignerPubKey is the compiled-in x-only public key the custodian
// script falls back to before the first signer rotation. The taproot
// output script is derived from it at startup.
var DefaultSignerPubKey = [32]byte{
	0x07, 0x9a, 0x54, 0xd0, 0xae, 0xf2, 0xb3, 0x43, 0xaa, 0xc8, 0x9c, 0x0f, 0xd7, 0x89, 0xaa, 0xb4,
	0xac, 0xb9, 0x1f, 0x00, 0xca, 0xa0, 0xf8, 0xd5, 0x15, 0x01, 0x45, 0x2c, 0xe4, 0x7c, 0xc9, 0x7d,
}

// Default returns the default configuration for the given network.
func Default(network NetworkType) *Config {
	return &Config{
		Network: network,
		DataDir: DefaultDataDir(),
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}
