// Package config handles loading tempo.toml configuration files.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	internalstrings "github.com/tempoapp/tempo/internal/strings"
)

// EnvSecret overrides the configured auth secret when set.
const EnvSecret = "TEMPO_AUTH_SECRET"

// Config represents the tempo.toml configuration file.
type Config struct {
	Server Server `toml:"server"`
	Auth   Auth   `toml:"auth"`
}

// Server contains HTTP server configuration.
type Server struct {
	// Addr is the listen address, e.g. ":8377" or "127.0.0.1:8377".
	Addr string `toml:"addr"`

	// DatabasePath is the sqlite database file.
	DatabasePath string `toml:"database-path"`

	// LogLevel is one of zerolog's level names (debug, info, warn, error).
	LogLevel string `toml:"log-level"`
}

// Auth contains token configuration.
type Auth struct {
	// Secret signs bearer tokens. TEMPO_AUTH_SECRET takes precedence.
	Secret string `toml:"secret"`

	// TokenTTLHours is the bearer token lifetime. Defaults to 720 (30 days).
	TokenTTLHours int `toml:"token-ttl-hours"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: Server{
			Addr:         ":8377",
			DatabasePath: "tempo.db",
			LogLevel:     "info",
		},
		Auth: Auth{
			TokenTTLHours: 720,
		},
	}
}

// Load loads configuration from path, filling unset fields with defaults.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}

	if internalstrings.IsBlank(cfg.Server.Addr) {
		cfg.Server.Addr = Default().Server.Addr
	}
	if internalstrings.IsBlank(cfg.Server.DatabasePath) {
		cfg.Server.DatabasePath = Default().Server.DatabasePath
	}
	if internalstrings.IsBlank(cfg.Server.LogLevel) {
		cfg.Server.LogLevel = Default().Server.LogLevel
	}
	if cfg.Auth.TokenTTLHours <= 0 {
		cfg.Auth.TokenTTLHours = Default().Auth.TokenTTLHours
	}

	applyEnv(cfg)
	return cfg, nil
}

// TokenTTL returns the configured token lifetime as a duration.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLHours) * time.Hour
}

func applyEnv(cfg *Config) {
	if secret := os.Getenv(EnvSecret); secret != "" {
		cfg.Auth.Secret = secret
	}
}
