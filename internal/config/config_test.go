package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "tempo.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":8377" {
		t.Errorf("expected default addr, got %q", cfg.Server.Addr)
	}
	if cfg.Server.DatabasePath != "tempo.db" {
		t.Errorf("expected default database path, got %q", cfg.Server.DatabasePath)
	}
	if cfg.Auth.TokenTTLHours != 720 {
		t.Errorf("expected default TTL, got %d", cfg.Auth.TokenTTLHours)
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tempo.toml")
	content := `
[server]
addr = "127.0.0.1:9000"
database-path = "/var/lib/tempo/tempo.db"

[auth]
secret = "file-secret"
token-ttl-hours = 24
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("expected configured addr, got %q", cfg.Server.Addr)
	}
	if cfg.Auth.Secret != "file-secret" {
		t.Errorf("expected configured secret, got %q", cfg.Auth.Secret)
	}
	if cfg.TokenTTL() != 24*time.Hour {
		t.Errorf("expected 24h TTL, got %v", cfg.TokenTTL())
	}
	if cfg.Server.LogLevel != "info" {
		t.Errorf("expected default log level to fill in, got %q", cfg.Server.LogLevel)
	}
}

func TestLoad_EnvSecretOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tempo.toml")
	if err := os.WriteFile(path, []byte("[auth]\nsecret = \"file-secret\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvSecret, "env-secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Auth.Secret != "env-secret" {
		t.Errorf("expected env secret to win, got %q", cfg.Auth.Secret)
	}
}

func TestLoad_UnknownKeyFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tempo.toml")
	if err := os.WriteFile(path, []byte("[server]\nlisten = \":1\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected unknown key error")
	}
}
