package config

import (
	"testing"
	"time"
)

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_PORT", "8080")
	t.Setenv("AUTO_SYNC_INTERVAL", "0")
	t.Setenv("SESSION_TTL", "10m")
	t.Setenv("JWT_ACCESS_EXPIRY", "not-a-duration")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.App.Port != "8080" {
		t.Errorf("App.Port = %q, want 8080", cfg.App.Port)
	}
	if cfg.Sync.Interval != 0 {
		t.Errorf("Sync.Interval = %v, want 0 (disabled)", cfg.Sync.Interval)
	}
	if cfg.Session.TTL != 10*time.Minute {
		t.Errorf("Session.TTL = %v, want 10m", cfg.Session.TTL)
	}
	if cfg.JWT.AccessExpiry != 12*time.Hour {
		t.Errorf("JWT.AccessExpiry = %v, want fallback 12h", cfg.JWT.AccessExpiry)
	}
	if cfg.DB.Name != "healthmon_db" {
		t.Errorf("DB.Name = %q, want default healthmon_db", cfg.DB.Name)
	}
}
