// Package config provides configuration loading and structs for the docsearch server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Server   ServerConfig   `yaml:"server"`
	Corpus   CorpusConfig   `yaml:"corpus"`
	Search   SearchConfig   `yaml:"search"`
	Sessions SessionsConfig `yaml:"sessions"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// CorpusConfig selects the document corpus. An empty path uses the corpus
// embedded in the binary.
type CorpusConfig struct {
	Path string `yaml:"path"`
}

// SearchConfig holds query settings.
type SearchConfig struct {
	// MaxResults caps results per query; 0 returns every match.
	MaxResults int `yaml:"max_results"`
	// Wildcard matches each query token as a substring of content words.
	Wildcard bool `yaml:"wildcard"`
}

// SessionsConfig holds headless session settings.
type SessionsConfig struct {
	// Max caps live sessions; creating one past the cap fails until a
	// session is deleted or expires.
	Max int `yaml:"max"`
	// IdleTimeout expires sessions unused for this long, e.g. "30m".
	// Negative keeps sessions until deleted.
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	if cfg.Corpus.Path != "" {
		cfg.Corpus.Path = expandPath(cfg.Corpus.Path, filepath.Dir(path))
	}
	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
