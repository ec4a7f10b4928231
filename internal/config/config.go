// Package config provides configuration management for FarGift.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fargift/fargift/internal/fileutil"
)

// Config represents the application configuration.
type Config struct {
	Version  int            `yaml:"version"`
	Home     string         `yaml:"home"`
	Network  NetworkConfig  `yaml:"network"`
	Provider ProviderConfig `yaml:"provider"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// NetworkConfig defines the target network settings.
type NetworkConfig struct {
	Name         string   `yaml:"name"`
	RPC          string   `yaml:"rpc"`
	FallbackRPCs []string `yaml:"fallback_rpcs,omitempty"`
	ChainID      int      `yaml:"chain_id"`
	Explorer     string   `yaml:"explorer"`
}

// ProviderConfig defines wallet provider polling and throttling settings.
type ProviderConfig struct {
	// PollIntervalMS is the interval between account/chain change polls.
	PollIntervalMS int `yaml:"poll_interval_ms"`

	// RatePerSecond limits outbound provider requests per endpoint.
	RatePerSecond float64 `yaml:"rate_per_second"`

	// RateBurst is the maximum burst of provider requests.
	RateBurst int `yaml:"rate_burst"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Color         string `yaml:"color"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from the specified file.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to the specified file. The write is atomic so
// a crash mid-save never leaves a truncated config behind.
func Save(cfg *Config, path string) error {
	if err := fileutil.EnsureDir(path); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return fileutil.WriteAtomic(path, data, 0o600)
}

// Path returns the default config file path.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// GetHome returns the fargift home directory path.
func (c *Config) GetHome() string {
	return c.Home
}

// GetRPC returns the configured RPC URL.
func (c *Config) GetRPC() string {
	return c.Network.RPC
}

// GetFallbackRPCs returns the fallback RPC URLs.
func (c *Config) GetFallbackRPCs() []string {
	return c.Network.FallbackRPCs
}

// GetChainID returns the configured chain ID.
func (c *Config) GetChainID() int {
	return c.Network.ChainID
}

// GetExplorer returns the block explorer base URL.
func (c *Config) GetExplorer() string {
	return c.Network.Explorer
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// GetOutputFormat returns the default output format.
func (c *Config) GetOutputFormat() string {
	return c.Output.DefaultFormat
}

// IsVerbose returns true if verbose output is enabled.
func (c *Config) IsVerbose() bool {
	return c.Output.Verbose
}

// DefaultHome returns the default fargift home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fargift"
	}
	return filepath.Join(home, ".fargift")
}
