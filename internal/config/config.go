// Package config holds the ChatList application configuration, stored as a
// JSON file next to the data directory.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds all ChatList configuration.
type Config struct {
	// Data directory; the SQLite database lives here
	DataDir string `json:"dataDir"`

	// Log level: debug, info, warn, error
	LogLevel string `json:"logLevel"`

	// Request settings applied to every endpoint invocation
	Request RequestConfig `json:"request"`

	// API keys by provider name (openai, anthropic, deepseek, groq,
	// custom). Keys set here win over the conventional environment
	// variables.
	APIKeys map[string]string `json:"apiKeys,omitempty"`
}

// RequestConfig bounds a single endpoint invocation.
type RequestConfig struct {
	TimeoutSeconds int `json:"timeoutSeconds"`
	MaxTokens      int `json:"maxTokens"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDir:  "./data",
		LogLevel: "info",
		Request: RequestConfig{
			TimeoutSeconds: 30,
			MaxTokens:      4096,
		},
	}
}

// DBPath returns the location of the SQLite database inside the data dir.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "chatlist.db")
}

// Load reads config from a JSON file. Missing fields keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Request.TimeoutSeconds <= 0 {
		cfg.Request.TimeoutSeconds = 30
	}
	if cfg.Request.MaxTokens <= 0 {
		cfg.Request.MaxTokens = 4096
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	return cfg, nil
}

// LoadOrInit loads the config at path, writing the defaults there first if
// the file does not exist yet.
func LoadOrInit(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.Save(path); err != nil {
			return nil, err
		}
	}
	return Load(path)
}

// Save writes config to a JSON file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0640)
}
