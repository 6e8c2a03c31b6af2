package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "port: \"9000\"\nlogLevel: debug\ndatabaseURL: postgres://file\ncredentialFallback: true\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("CREDENTIAL_FALLBACK", "false")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9000" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected file values: %+v", cfg)
	}
	if cfg.DatabaseURL != "postgres://env" {
		t.Fatalf("env override not applied: %q", cfg.DatabaseURL)
	}
	if cfg.CredentialFallback {
		t.Fatal("env override for credentialFallback not applied")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestParseSessionTTL(t *testing.T) {
	ttl, err := ParseSessionTTL("")
	if err != nil || ttl != 24*time.Hour {
		t.Fatalf("default ttl: got %v, %v", ttl, err)
	}
	ttl, err = ParseSessionTTL("90m")
	if err != nil || ttl != 90*time.Minute {
		t.Fatalf("parsed ttl: got %v, %v", ttl, err)
	}
	if _, err := ParseSessionTTL("-1h"); err == nil {
		t.Fatal("expected error for negative ttl")
	}
	if _, err := ParseSessionTTL("bogus"); err == nil {
		t.Fatal("expected error for invalid ttl")
	}
}
