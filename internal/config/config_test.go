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
	raw := []byte("storage:\n  driver: memory\nnarrator:\n  apiKey: from-file\ngame:\n  advanceDelay: 2s\n")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "from-env")
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("PORT", "9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Narrator.APIKey != "from-env" {
		t.Fatalf("expected API_KEY fallback, got %q", cfg.Narrator.APIKey)
	}
	if cfg.Storage.Driver != DriverRedis {
		t.Fatalf("expected redis driver, got %q", cfg.Storage.Driver)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected port override, got %q", cfg.Server.Port)
	}
	if d := TTLDuration(cfg.Game.AdvanceDelay, time.Second); d != 2*time.Second {
		t.Fatalf("expected 2s, got %v", d)
	}
	if cfg.Game.RewardStars != 5 {
		t.Fatalf("expected default reward, got %d", cfg.Game.RewardStars)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("PORT", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != DriverFile || cfg.Storage.Path != "data/store.json" || cfg.Server.Port != "8080" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [oops"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if d := TTLDuration("", time.Minute); d != time.Minute {
		t.Fatalf("expected fallback, got %v", d)
	}
	if d := TTLDuration("nonsense", time.Minute); d != time.Minute {
		t.Fatalf("expected fallback on bad input, got %v", d)
	}
}
