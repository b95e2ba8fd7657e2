package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %s", cfg.HTTP.Addr)
	}
	if cfg.Moderation.AutoHide.Enabled {
		t.Error("auto-hide must default to disabled")
	}
	if cfg.Moderation.AutoHide.MinPriorityTier != "critical" {
		t.Errorf("MinPriorityTier = %s, want critical", cfg.Moderation.AutoHide.MinPriorityTier)
	}
	if cfg.Moderation.AutoHide.MinUniqueReporters != 3 {
		t.Errorf("MinUniqueReporters = %d, want 3", cfg.Moderation.AutoHide.MinUniqueReporters)
	}
	if got := cfg.Moderation.Queue; got.DefaultPageSize != 20 || got.MaxPageSize != 100 || got.MaxBulkItems != 50 || got.BulkConfirmThreshold != 10 {
		t.Errorf("Queue defaults = %+v", got)
	}
	if cfg.Moderation.Trust.LookbackDays != 30 {
		t.Errorf("LookbackDays = %d, want 30", cfg.Moderation.Trust.LookbackDays)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := `
env: prod
http:
  addr: ":9090"
moderation:
  auto_hide:
    enabled: true
    actor_id: system-moderator
  queue:
    max_bulk_items: 25
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Env != "prod" {
		t.Errorf("Env = %s, want prod", cfg.Env)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("HTTP.Addr = %s, want :9090", cfg.HTTP.Addr)
	}
	if !cfg.Moderation.AutoHide.Enabled || cfg.Moderation.AutoHide.ActorID != "system-moderator" {
		t.Errorf("AutoHide = %+v", cfg.Moderation.AutoHide)
	}
	if cfg.Moderation.Queue.MaxBulkItems != 25 {
		t.Errorf("MaxBulkItems = %d, want 25", cfg.Moderation.Queue.MaxBulkItems)
	}
	// Untouched keys keep their defaults.
	if cfg.Moderation.Queue.DefaultPageSize != 20 {
		t.Errorf("DefaultPageSize = %d, want default 20", cfg.Moderation.Queue.DefaultPageSize)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %s, want default", cfg.HTTP.Addr)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("HTTP_READ_TIMEOUT", "2s")
	t.Setenv("AUTO_HIDE_ENABLED", "true")
	t.Setenv("AUTO_HIDE_MIN_UNIQUE_REPORTERS", "5")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTP.Addr != ":7070" {
		t.Errorf("HTTP.Addr = %s", cfg.HTTP.Addr)
	}
	if cfg.HTTP.ReadTimeout != 2*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.HTTP.ReadTimeout)
	}
	if !cfg.Moderation.AutoHide.Enabled {
		t.Error("AUTO_HIDE_ENABLED should flip the flag")
	}
	if cfg.Moderation.AutoHide.MinUniqueReporters != 5 {
		t.Errorf("MinUniqueReporters = %d, want 5", cfg.Moderation.AutoHide.MinUniqueReporters)
	}
	if cfg.Redis.DB != 3 {
		t.Errorf("Redis.DB = %d, want 3", cfg.Redis.DB)
	}
}

func TestEnvOverrideParseError(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "soon")

	if _, err := Load(""); err == nil {
		t.Fatal("expected parse error for bad duration")
	}
}
