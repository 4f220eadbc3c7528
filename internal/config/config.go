// Package config loads and saves aifinacker configuration from a TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all aifinacker configuration.
type Config struct {
	General    GeneralConfig      `toml:"general"`
	Rates      RatesConfig        `toml:"rates"`
	Appearance AppearanceConfig   `toml:"appearance"`
	Heuristics HeuristicOverrides `toml:"heuristics"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	BaseCurrency  string `toml:"base_currency"`
	DefaultMonths int    `toml:"default_months"`
	AccountID     string `toml:"account_id,omitempty"`
	DataDir       string `toml:"data_dir,omitempty"`
}

// RatesConfig holds exchange-rate API settings.
type RatesConfig struct {
	BaseURL string `toml:"base_url,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// HeuristicOverrides allows tuning the insight thresholds. Nil fields keep
// the built-in defaults.
type HeuristicOverrides struct {
	IncreasePercent    *float64 `toml:"increase_percent,omitempty"`
	IncreaseNoiseFloor *float64 `toml:"increase_noise_floor,omitempty"`
	TopCategoryShare   *float64 `toml:"top_category_share,omitempty"`
	SavingsWatchlist   []string `toml:"savings_watchlist,omitempty"`
	SavingsMonthlyAvg  *float64 `toml:"savings_monthly_avg,omitempty"`
	SavingsMinTxCount  *int     `toml:"savings_min_tx_count,omitempty"`
	SavingsFallbackAvg *float64 `toml:"savings_fallback_avg,omitempty"`
	TrailingMonths     *int     `toml:"trailing_months,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			BaseCurrency:  "USD",
			DefaultMonths: 6,
		},
		Appearance: AppearanceConfig{
			Theme: "dark",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "aifinacker")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "aifinacker")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DataDir returns the directory holding the expense database, honoring the
// config override, then XDG, then the home fallback.
func DataDir(cfg Config) string {
	if cfg.General.DataDir != "" {
		return cfg.General.DataDir
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "aifinacker")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "aifinacker")
}

// DBPath returns the full path to the records database.
func DBPath(cfg Config) string {
	return filepath.Join(DataDir(cfg), "records.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
