package config

import (
	"os"
	"strconv"
	"strings"

	sanitize "github.com/mrz1836/go-sanitize"
)

// Environment variable names.
const (
	EnvHome         = "FARGIFT_HOME"
	EnvRPC          = "FARGIFT_RPC"
	EnvExplorer     = "FARGIFT_EXPLORER"
	EnvOutputFormat = "FARGIFT_OUTPUT_FORMAT"
	EnvVerbose      = "FARGIFT_VERBOSE"
	EnvLogLevel     = "FARGIFT_LOG_LEVEL"
	EnvNoColor      = "NO_COLOR"
	EnvPollInterval = "FARGIFT_POLL_INTERVAL_MS"
)

// ApplyEnvironment applies environment variable overrides to the configuration.
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvRPC); v != "" {
		cfg.Network.RPC = SanitizeURL(v)
	}

	if v := os.Getenv(EnvExplorer); v != "" {
		cfg.Network.Explorer = SanitizeURL(v)
	}

	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.Output.DefaultFormat = strings.ToLower(v)
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		cfg.Output.Verbose = parseBool(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	// NO_COLOR disables colored output
	if _, ok := os.LookupEnv(EnvNoColor); ok {
		cfg.Output.Color = "never"
	}

	if v := os.Getenv(EnvPollInterval); v != "" {
		if interval, err := strconv.Atoi(v); err == nil && interval > 0 {
			cfg.Provider.PollIntervalMS = interval
		}
	}
}

// parseBool parses a boolean string value.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// SanitizeURL cleans a URL string by removing invalid characters and trimming whitespace.
func SanitizeURL(url string) string {
	return sanitize.URL(strings.TrimSpace(url))
}
