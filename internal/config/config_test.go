package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("OWNER_ID", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without token")
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("prefix: \"!\"\nowner_id: \"from-file\"\npresence: \"hello\"\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("DISCORD_TOKEN", "tok")
	t.Setenv("OWNER_ID", "1234")
	t.Setenv("METRICS_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Prefix != "!" {
		t.Fatalf("expected prefix from file, got %q", cfg.Prefix)
	}
	if cfg.OwnerID != "1234" {
		t.Fatalf("expected env to override owner, got %q", cfg.OwnerID)
	}
	if cfg.Presence != "hello" {
		t.Fatalf("expected presence from file, got %q", cfg.Presence)
	}
	if !cfg.Metrics.Enabled {
		t.Fatal("expected metrics enabled via env")
	}
	if cfg.DatabasePath != "embedium.db" {
		t.Fatalf("expected default database path, got %q", cfg.DatabasePath)
	}
}

func TestBuildLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		logger, err := BuildLogger(level)
		if err != nil {
			t.Fatalf("build logger %q: %v", level, err)
		}
		_ = logger.Sync()
	}
}
