package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_PATH", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Rates.CacheTTL.Duration != 24*time.Hour {
		t.Errorf("CacheTTL = %v, want 24h", cfg.Rates.CacheTTL)
	}
}

func TestFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboardly.toml")
	body := `
log_level = "debug"

[database]
path = "/var/lib/dashboardly.db"

[auth]
jwt_secret = "from-file"
token_ttl = "15m"

[stripe.prices]
premium = "price_file"
`
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("STRIPE_PRICE_BASIC", "price_env")
	t.Setenv("SCRAPE_SUCCESS_RATIO", "0.25")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != "debug" || cfg.Database.Path != "/var/lib/dashboardly.db" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Errorf("JWTSecret = %q, want env override", cfg.Auth.JWTSecret)
	}
	if cfg.Auth.TokenTTL.Duration != 15*time.Minute {
		t.Errorf("TokenTTL = %v, want 15m", cfg.Auth.TokenTTL)
	}
	if cfg.Stripe.Prices["premium"] != "price_file" || cfg.Stripe.Prices["basic"] != "price_env" {
		t.Errorf("Prices = %v", cfg.Stripe.Prices)
	}
	if cfg.Jobs.ScrapeSuccessRatio != 0.25 {
		t.Errorf("ScrapeSuccessRatio = %v, want 0.25", cfg.Jobs.ScrapeSuccessRatio)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty secret", func(c *Config) { c.Auth.JWTSecret = "" }},
		{"ratio above one", func(c *Config) { c.Jobs.ScrapeSuccessRatio = 1.5 }},
		{"stripe without webhook secret", func(c *Config) { c.Stripe.SecretKey = "sk_test" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() expected error")
			}
		})
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Server.Addr = ":9090"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file permission = %o, want 0600", perm)
	}

	t.Setenv("ADDR", "")
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Server.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", loaded.Server.Addr)
	}
}
