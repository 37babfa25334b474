// Package config handles TOML-based configuration loading and validation,
// plus the XDG paths for the persisted history and watchlist documents.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration.
type Config struct {
	CatalogBase  string `toml:"catalog_base"`  // Paginated/genre catalog host
	MetaBase     string `toml:"meta_base"`     // Search + details host
	SubsBase     string `toml:"subs_base"`     // Caption provider host
	StreamBase   string `toml:"stream_base"`   // Embed host for stream resolution
	Player       string `toml:"player"`
	SubsLanguage string `toml:"subs_language"`
	History      bool   `toml:"history"`
	Debug        bool   `toml:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		CatalogBase:  "cinemeta-catalogs.strem.io",
		MetaBase:     "v3-cinemeta.strem.io",
		SubsBase:     "rest.opensubtitles.org",
		StreamBase:   "vidsrc-embed.ru",
		Player:       "mpv",
		SubsLanguage: "eng",
		History:      true,
		Debug:        false,
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "baggedflix"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "baggedflix"), nil
}

// dataDir returns the XDG-compliant data directory for persisted state.
func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "baggedflix"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "baggedflix"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// HistoryPath returns the path to the watch-history document.
func HistoryPath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.json"), nil
}

// WatchlistPath returns the path to the watchlist document.
func WatchlistPath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "watchlist.json"), nil
}

// Load reads the config file and merges with defaults.
// If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	validPlayers := map[string]bool{
		"mpv": true,
	}
	if !validPlayers[strings.ToLower(c.Player)] {
		return fmt.Errorf("unsupported player %q (valid: mpv)", c.Player)
	}

	if c.CatalogBase == "" {
		return fmt.Errorf("catalog base cannot be empty")
	}
	if c.MetaBase == "" {
		return fmt.Errorf("meta base cannot be empty")
	}
	if c.StreamBase == "" {
		return fmt.Errorf("stream base cannot be empty")
	}

	if len(c.SubsLanguage) != 3 {
		return fmt.Errorf("subs_language must be a 3-letter code (e.g., eng), got %q", c.SubsLanguage)
	}

	return nil
}
