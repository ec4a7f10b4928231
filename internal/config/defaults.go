package config

// DefaultRPCURL is the default Ethereum RPC endpoint.
// Uses PublicNode (Allnodes), a privacy-first provider that requires no API key.
const DefaultRPCURL = "https://ethereum-rpc.publicnode.com"

// DefaultFallbackRPCs are backup RPC endpoints tried when the primary fails.
// All are reputable, free, no-API-key providers with strong privacy policies.
//
//nolint:gochecknoglobals // Configuration default constant, same pattern as DefaultRPCURL
var DefaultFallbackRPCs = []string{
	"https://rpc.ankr.com/eth", // Ankr - well-established, claims no IP correlation
	"https://1rpc.io/eth",      // 1RPC - zero-trace privacy, burn-after-relaying
}

// DefaultPollIntervalMS is how often the provider is polled for out-of-band
// account and chain changes.
const DefaultPollIntervalMS = 2000

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.fargift",
		Network: NetworkConfig{
			Name:         "mainnet",
			RPC:          DefaultRPCURL,
			FallbackRPCs: DefaultFallbackRPCs,
			ChainID:      1,
			Explorer:     "https://etherscan.io",
		},
		Provider: ProviderConfig{
			PollIntervalMS: DefaultPollIntervalMS,
			RatePerSecond:  5,
			RateBurst:      10,
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Color:         "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.fargift/fargift.log",
		},
	}
}
