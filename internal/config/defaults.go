package config

import "time"

// DefaultSessionIdleTimeout is used when sessions.idle_timeout is unset.
const DefaultSessionIdleTimeout = 30 * time.Minute

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Search.MaxResults < 0 {
		cfg.Search.MaxResults = 0
	}
	if cfg.Sessions.Max == 0 {
		cfg.Sessions.Max = 1000
	}
	if cfg.Sessions.IdleTimeout == 0 {
		cfg.Sessions.IdleTimeout = DefaultSessionIdleTimeout
	}
}
