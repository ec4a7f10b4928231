package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/cobra"

	"github.com/fargift/fargift/internal/config"
	"github.com/fargift/fargift/internal/output"
	gifterr "github.com/fargift/fargift/pkg/errors"
)

// configCmd is the parent command for configuration operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and modify fargift configuration settings.`,
}

// configInitCmd initializes the configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a default configuration file at ~/.fargift/config.yaml.

If a configuration file already exists, this command will not overwrite it
unless --force is specified.

Example:
  fargift config init
  fargift config init --force`,
	RunE: runConfigInit,
}

// configShowCmd shows the current configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the current configuration settings.

Example:
  fargift config show
  fargift config show -o json`,
	RunE: runConfigShow,
}

// configGetCmd gets a specific configuration value.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a configuration value by its dotted key.

Examples:
  fargift config get network.rpc
  fargift config get output.default_format
  fargift config get logging.level`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

// configSetCmd sets a configuration value.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value by its dotted key and save the file.

Examples:
  fargift config set network.rpc https://ethereum-rpc.publicnode.com
  fargift config set output.default_format json
  fargift config set logging.level debug`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var configForce bool

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite existing configuration")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	configPath := config.Path(cfg.Home)

	if _, err := os.Stat(configPath); err == nil && !configForce {
		return gifterr.WithSuggestion(
			gifterr.ErrGeneral,
			fmt.Sprintf("configuration already exists at %s. Use --force to overwrite.", configPath),
		)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaultCfg := config.Defaults()
	defaultCfg.Home = cfg.Home

	if err := config.Save(defaultCfg, configPath); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	w := cmd.OutOrStdout()
	out(w, "Configuration initialized at %s\n", configPath)
	outln(w)
	outln(w, "Edit this file to configure:")
	outln(w, "  - network.rpc: Your Ethereum RPC endpoint")
	outln(w, "  - network.explorer: Block explorer base URL")
	outln(w, "  - output.default_format: Output format (text/json)")
	outln(w, "  - logging.level: Log level (off/error/warn/debug)")

	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()

	if formatter.Format() == output.FormatJSON {
		return writeJSON(w, cfg)
	}

	outln(w, "Configuration:")
	for _, key := range configKeys() {
		value, _ := getConfigValue(cfg, key)
		out(w, "  %-26s %s\n", key, value)
	}

	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	value, err := getConfigValue(cfg, args[0])
	if err != nil {
		return err
	}

	outln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	// Validate the key before touching the file.
	if _, err := getConfigValue(cfg, key); err != nil {
		return err
	}

	configPath := config.Path(cfg.Home)
	currentCfg, err := config.Load(configPath)
	if err != nil {
		currentCfg = config.Defaults()
		currentCfg.Home = cfg.Home
	}

	if err := setConfigValue(currentCfg, key, value); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := config.Save(currentCfg, configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	return output.FormatSuccess(cmd.OutOrStdout(),
		fmt.Sprintf("Set %s = %s", key, value), formatter.Format())
}

// configKeys returns every settable dotted key, sorted.
func configKeys() []string {
	keys := make([]string, 0, len(configAccessors))
	for key := range configAccessors {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// accessor reads and writes one config key as a string.
type accessor struct {
	get func(*config.Config) string
	set func(*config.Config, string) error
}

//nolint:gochecknoglobals // Static key registry shared by get, set, and show
var configAccessors = map[string]accessor{
	"home": {
		get: func(c *config.Config) string { return c.Home },
		set: func(c *config.Config, v string) error { c.Home = v; return nil },
	},
	"network.name": {
		get: func(c *config.Config) string { return c.Network.Name },
		set: func(c *config.Config, v string) error { c.Network.Name = v; return nil },
	},
	"network.rpc": {
		get: func(c *config.Config) string { return c.Network.RPC },
		set: func(c *config.Config, v string) error {
			c.Network.RPC = config.SanitizeURL(v)
			return nil
		},
	},
	"network.chain_id": {
		get: func(c *config.Config) string { return strconv.Itoa(c.Network.ChainID) },
		set: func(c *config.Config, v string) error {
			id, err := strconv.Atoi(v)
			if err != nil || id <= 0 {
				return gifterr.WithDetails(gifterr.ErrInvalidInput,
					map[string]string{"chain_id": v})
			}
			c.Network.ChainID = id
			return nil
		},
	},
	"network.explorer": {
		get: func(c *config.Config) string { return c.Network.Explorer },
		set: func(c *config.Config, v string) error {
			c.Network.Explorer = config.SanitizeURL(v)
			return nil
		},
	},
	"provider.poll_interval_ms": {
		get: func(c *config.Config) string { return strconv.Itoa(c.Provider.PollIntervalMS) },
		set: func(c *config.Config, v string) error {
			ms, err := strconv.Atoi(v)
			if err != nil || ms <= 0 {
				return gifterr.WithDetails(gifterr.ErrInvalidInput,
					map[string]string{"poll_interval_ms": v})
			}
			c.Provider.PollIntervalMS = ms
			return nil
		},
	},
	"provider.rate_per_second": {
		get: func(c *config.Config) string {
			return strconv.FormatFloat(c.Provider.RatePerSecond, 'f', -1, 64)
		},
		set: func(c *config.Config, v string) error {
			r, err := strconv.ParseFloat(v, 64)
			if err != nil || r <= 0 {
				return gifterr.WithDetails(gifterr.ErrInvalidInput,
					map[string]string{"rate_per_second": v})
			}
			c.Provider.RatePerSecond = r
			return nil
		},
	},
	"provider.rate_burst": {
		get: func(c *config.Config) string { return strconv.Itoa(c.Provider.RateBurst) },
		set: func(c *config.Config, v string) error {
			b, err := strconv.Atoi(v)
			if err != nil || b <= 0 {
				return gifterr.WithDetails(gifterr.ErrInvalidInput,
					map[string]string{"rate_burst": v})
			}
			c.Provider.RateBurst = b
			return nil
		},
	},
	"output.default_format": {
		get: func(c *config.Config) string { return c.Output.DefaultFormat },
		set: func(c *config.Config, v string) error {
			switch strings.ToLower(v) {
			case "text", "json", "auto":
				c.Output.DefaultFormat = strings.ToLower(v)
				return nil
			default:
				return gifterr.WithSuggestion(gifterr.ErrInvalidInput,
					"format must be text, json, or auto")
			}
		},
	},
	"output.color": {
		get: func(c *config.Config) string { return c.Output.Color },
		set: func(c *config.Config, v string) error { c.Output.Color = v; return nil },
	},
	"output.verbose": {
		get: func(c *config.Config) string { return strconv.FormatBool(c.Output.Verbose) },
		set: func(c *config.Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return gifterr.WithDetails(gifterr.ErrInvalidInput,
					map[string]string{"verbose": v})
			}
			c.Output.Verbose = b
			return nil
		},
	},
	"logging.level": {
		get: func(c *config.Config) string { return c.Logging.Level },
		set: func(c *config.Config, v string) error {
			switch strings.ToLower(v) {
			case "off", "error", "warn", "debug":
				c.Logging.Level = strings.ToLower(v)
				return nil
			default:
				return gifterr.WithSuggestion(gifterr.ErrInvalidInput,
					"level must be off, error, warn, or debug")
			}
		},
	},
	"logging.file": {
		get: func(c *config.Config) string { return c.Logging.File },
		set: func(c *config.Config, v string) error { c.Logging.File = v; return nil },
	},
}

// getConfigValue resolves a dotted key, suggesting the nearest valid key
// when it does not exist.
func getConfigValue(c *config.Config, key string) (string, error) {
	acc, ok := configAccessors[key]
	if !ok {
		return "", unknownKeyError(key)
	}
	return acc.get(c), nil
}

// setConfigValue writes a dotted key.
func setConfigValue(c *config.Config, key, value string) error {
	acc, ok := configAccessors[key]
	if !ok {
		return unknownKeyError(key)
	}
	return acc.set(c, value)
}

// maxKeyDistance is the largest edit distance still worth suggesting.
const maxKeyDistance = 5

func unknownKeyError(key string) error {
	err := gifterr.WithDetails(gifterr.ErrUnknownConfigKey,
		map[string]string{"key": key})

	if nearest := nearestConfigKey(key); nearest != "" {
		return gifterr.WithSuggestion(err,
			fmt.Sprintf("did you mean '%s'?", nearest))
	}
	return err
}

// nearestConfigKey returns the closest known key by edit distance, or an
// empty string when nothing is close enough to be a plausible typo.
func nearestConfigKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))

	best := ""
	bestDistance := maxKeyDistance + 1
	for _, candidate := range configKeys() {
		d := levenshtein.ComputeDistance(key, candidate)
		if d < bestDistance {
			best = candidate
			bestDistance = d
		}
	}

	if bestDistance > maxKeyDistance {
		return ""
	}
	return best
}
