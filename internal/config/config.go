package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the global ~/.mvx/config.toml.
type Config struct {
	// DialPrefix is the country code assumed for local numbers.
	DialPrefix string `toml:"dial_prefix"`
	// LocalNumberLength is the digit count of a bare local number.
	LocalNumberLength int `toml:"local_number_length"`
	// SearchDebounceMs delays search dispatch after the last keystroke.
	SearchDebounceMs int `toml:"search_debounce_ms"`
	// SearchTimeoutSeconds bounds how long a query may stay in flight
	// before it resolves to an empty result.
	SearchTimeoutSeconds int `toml:"search_timeout_seconds"`
	// SnippetContext is the character budget on each side of a match.
	SnippetContext int `toml:"snippet_context"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DialPrefix:           "960",
		LocalNumberLength:    7,
		SearchDebounceMs:     150,
		SearchTimeoutSeconds: 5,
		SnippetContext:       20,
	}
}

// Load reads config from the given path, filling unset fields with
// defaults. Returns an error if the file is missing or malformed.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// LoadOrDefault reads config from the given path, returning defaults when
// the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// Debounce returns the search debounce interval.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.SearchDebounceMs) * time.Millisecond
}

// SearchTimeout returns the query timeout.
func (c *Config) SearchTimeout() time.Duration {
	return time.Duration(c.SearchTimeoutSeconds) * time.Second
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.DialPrefix == "" {
		c.DialPrefix = d.DialPrefix
	}
	if c.LocalNumberLength == 0 {
		c.LocalNumberLength = d.LocalNumberLength
	}
	if c.SearchDebounceMs == 0 {
		c.SearchDebounceMs = d.SearchDebounceMs
	}
	if c.SearchTimeoutSeconds == 0 {
		c.SearchTimeoutSeconds = d.SearchTimeoutSeconds
	}
	if c.SnippetContext == 0 {
		c.SnippetContext = d.SnippetContext
	}
}
