// Package config provides user-level configuration for chatterm.
// The configuration is stored in ~/.config/chatterm/config.yaml.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/natefinch/atomic"

	"github.com/chatterm/chatterm/pkg/paths"
)

// DefaultServerURL is used when no server is configured anywhere.
const DefaultServerURL = "http://localhost:8000"

// serverEnvVar overrides the config file when set.
const serverEnvVar = "CHATTERM_SERVER"

// CurrentVersion is the current version of the config format
const CurrentVersion = "v1"

// Config represents the user-level chatterm configuration
type Config struct {
	// Version is the config format version
	Version string `yaml:"version,omitempty"`
	// ServerURL is the base URL of the chat backend
	ServerURL string `yaml:"server_url,omitempty"`
	// MaxReconnects caps automatic websocket reconnection attempts.
	// Zero means the default of 5.
	MaxReconnects int `yaml:"max_reconnects,omitempty"`
}

// Path returns the path to the config file
func Path() string {
	return filepath.Join(paths.GetConfigDir(), "config.yaml")
}

// Load loads the user configuration from the config file.
// A missing file yields an empty config, not an error.
func Load() (*Config, error) {
	return loadFrom(Path())
}

func loadFrom(path string) (*Config, error) {
	config := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Save saves the configuration to the config file
func (c *Config) Save() error {
	return c.saveTo(Path())
}

func (c *Config) saveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Ensure version is always set to current version when saving
	c.Version = CurrentVersion

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return atomic.WriteFile(path, bytes.NewReader(data))
}

// ResolveServerURL picks the server URL, in order of precedence:
// the --server flag, the CHATTERM_SERVER environment variable, the
// config file, and finally DefaultServerURL.
func (c *Config) ResolveServerURL(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(serverEnvVar); env != "" {
		return env
	}
	if c.ServerURL != "" {
		return c.ServerURL
	}
	return DefaultServerURL
}
