package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_FileOverridesDefaults(t *testing.T) {
	home := filepath.Join(t.TempDir(), ".agentic")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home dir: %v", err)
	}
	t.Setenv("AGENTIC_HOME", home)

	configBody := `
[server]
port = "8080"
environment = "production"

[jwt]
secret = "file-secret"
access_ttl = "30m"

[database]
path = "/tmp/platform.db"
`
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(configBody), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Fatalf("expected port %q, got %q", "8080", cfg.Server.Port)
	}
	if cfg.Server.Environment != "production" {
		t.Fatalf("expected environment %q, got %q", "production", cfg.Server.Environment)
	}
	if cfg.JWT.Secret != "file-secret" {
		t.Fatalf("expected jwt secret from file, got %q", cfg.JWT.Secret)
	}
	if cfg.JWT.AccessTTL != 30*time.Minute {
		t.Fatalf("expected access ttl 30m, got %v", cfg.JWT.AccessTTL)
	}
	if cfg.Database.Path != "/tmp/platform.db" {
		t.Fatalf("expected database path from file, got %q", cfg.Database.Path)
	}

	// Untouched sections keep defaults.
	if cfg.JWT.RefreshTTL != 7*24*time.Hour {
		t.Fatalf("expected default refresh ttl, got %v", cfg.JWT.RefreshTTL)
	}
	if cfg.Gateway.RequestTimeout != 60*time.Second {
		t.Fatalf("expected default gateway timeout, got %v", cfg.Gateway.RequestTimeout)
	}
}

func TestLoad_ExpandsEnvVarsInStringValues(t *testing.T) {
	home := filepath.Join(t.TempDir(), ".agentic")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home dir: %v", err)
	}
	t.Setenv("AGENTIC_HOME", home)
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_abc123")
	t.Setenv("RAZORPAY_KEY_SECRET", "shhh")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Payment.KeyID != "rzp_test_abc123" {
		t.Fatalf("expected expanded key id, got %q", cfg.Payment.KeyID)
	}
	if cfg.Payment.KeySecret != "shhh" {
		t.Fatalf("expected expanded key secret, got %q", cfg.Payment.KeySecret)
	}
}

func TestLoad_MissingConfigFileUsesDefaults(t *testing.T) {
	t.Setenv("AGENTIC_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Port != "5000" {
		t.Fatalf("expected default port, got %q", cfg.Server.Port)
	}
}

func TestValidate_RejectsEmptySecret(t *testing.T) {
	cfg := defaultConfig
	cfg.JWT.Secret = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for empty jwt secret")
	}
}
