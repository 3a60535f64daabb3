package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.AutosaveInterval != 30*time.Second {
		t.Fatalf("unexpected AutosaveInterval: %s", cfg.AutosaveInterval)
	}
	if cfg.RateLimitWindow != time.Minute || cfg.RateLimitMax != 120 {
		t.Fatalf("unexpected rate limit defaults: %s/%d", cfg.RateLimitWindow, cfg.RateLimitMax)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected CORS default: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_ProdRequiresAPIKey(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when APP_ENV=prod without API_KEY")
	}
}

func TestLoad_ParsesClientSettings(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("API_BASE_URL", "https://api.example.org/")
	t.Setenv("AUTOSAVE_INTERVAL", "45s")
	t.Setenv("SYNC_WORKERS", "8")
	t.Setenv("SYNC_CIRCUIT_OPEN_TIMEOUT", "1m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.APIBaseURL != "https://api.example.org" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.APIBaseURL)
	}
	if cfg.AutosaveInterval != 45*time.Second {
		t.Fatalf("unexpected AutosaveInterval: %s", cfg.AutosaveInterval)
	}
	if cfg.SyncWorkers != 8 {
		t.Fatalf("unexpected SyncWorkers: %d", cfg.SyncWorkers)
	}
	if cfg.SyncCircuitOpenTimeout != time.Minute {
		t.Fatalf("unexpected SyncCircuitOpenTimeout: %s", cfg.SyncCircuitOpenTimeout)
	}
}

func TestLoad_RejectsBadDurations(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("RATE_LIMIT_WINDOW", "soon")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unparseable RATE_LIMIT_WINDOW")
	}
}
