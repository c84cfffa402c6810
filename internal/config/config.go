// Package config loads server settings from an optional TOML file, a .env
// file and the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Duration is a time.Duration that decodes from TOML strings like "24h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type Server struct {
	Addr        string   `toml:"addr"`
	StaticDir   string   `toml:"static_dir"`
	BaseURL     string   `toml:"base_url"`
	CORSOrigins []string `toml:"cors_origins"`
}

type Database struct {
	Path string `toml:"path"`
}

type Auth struct {
	JWTSecret     string   `toml:"jwt_secret"`
	TokenTTL      Duration `toml:"token_ttl"`
	RefreshTTL    Duration `toml:"refresh_ttl"`
	LoginRPM      int      `toml:"login_rpm"`
	LoginBurst    int      `toml:"login_burst"`
	InvitationTTL Duration `toml:"invitation_ttl"`
}

type Redis struct {
	// URL enables the Redis cache and the asynq queue. Empty means in-process.
	URL         string `toml:"url"`
	Concurrency int    `toml:"concurrency"`
}

type Rates struct {
	APIURL   string   `toml:"api_url"`
	CacheTTL Duration `toml:"cache_ttl"`
}

type Email struct {
	APIURL string `toml:"api_url"`
	APIKey string `toml:"api_key"`
	From   string `toml:"from"`
}

type Stripe struct {
	SecretKey     string            `toml:"secret_key"`
	WebhookSecret string            `toml:"webhook_secret"`
	Prices        map[string]string `toml:"prices"`
	SuccessURL    string            `toml:"success_url"`
	CancelURL     string            `toml:"cancel_url"`
}

type Storage struct {
	Dir        string   `toml:"dir"`
	SignSecret string   `toml:"sign_secret"`
	URLTTL     Duration `toml:"url_ttl"`
}

type Jobs struct {
	ScrapeSuccessRatio float64 `toml:"scrape_success_ratio"`
}

// Config is the complete server configuration.
type Config struct {
	LogLevel string   `toml:"log_level"`
	Server   Server   `toml:"server"`
	Database Database `toml:"database"`
	Auth     Auth     `toml:"auth"`
	Redis    Redis    `toml:"redis"`
	Rates    Rates    `toml:"rates"`
	Email    Email    `toml:"email"`
	Stripe   Stripe   `toml:"stripe"`
	Storage  Storage  `toml:"storage"`
	Jobs     Jobs     `toml:"jobs"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Server: Server{
			Addr:      ":8080",
			StaticDir: "./web",
			BaseURL:   "http://localhost:8080",
		},
		Database: Database{Path: "./data/dashboardly.db"},
		Auth: Auth{
			JWTSecret:     "dev-secret-change-me",
			TokenTTL:      Duration{time.Hour},
			RefreshTTL:    Duration{30 * 24 * time.Hour},
			LoginRPM:      10,
			LoginBurst:    5,
			InvitationTTL: Duration{7 * 24 * time.Hour},
		},
		Redis: Redis{Concurrency: 10},
		Rates: Rates{
			APIURL:   "https://open.er-api.com/v6",
			CacheTTL: Duration{24 * time.Hour},
		},
		Email: Email{
			APIURL: "https://api.resend.com/emails",
			From:   "Dashboardly <no-reply@dashboardly.app>",
		},
		Stripe: Stripe{
			Prices: map[string]string{},
		},
		Storage: Storage{
			Dir:        "./data/files",
			SignSecret: "dev-sign-secret",
			URLTTL:     Duration{15 * time.Minute},
		},
		Jobs: Jobs{ScrapeSuccessRatio: 0.8},
	}
}

// Load builds the configuration. path may be empty or point at a missing
// file, in which case only defaults and the environment apply.
func Load(path string) (*Config, error) {
	// Ignore a missing .env; real environment variables still win over it.
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as TOML, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// Validate reports settings that make the server unusable.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("config: auth.jwt_secret is required")
	}
	if c.Auth.TokenTTL.Duration <= 0 || c.Auth.RefreshTTL.Duration <= 0 {
		return errors.New("config: token ttls must be positive")
	}
	if r := c.Jobs.ScrapeSuccessRatio; r < 0 || r > 1 {
		return fmt.Errorf("config: jobs.scrape_success_ratio %v is outside [0, 1]", r)
	}
	if c.Stripe.SecretKey != "" && c.Stripe.WebhookSecret == "" {
		return errors.New("config: stripe.webhook_secret is required with stripe.secret_key")
	}
	return nil
}

func (c *Config) applyEnv() error {
	str := map[string]*string{
		"LOG_LEVEL":             &c.LogLevel,
		"ADDR":                  &c.Server.Addr,
		"STATIC_PATH":           &c.Server.StaticDir,
		"BASE_URL":              &c.Server.BaseURL,
		"DB_PATH":               &c.Database.Path,
		"JWT_SECRET":            &c.Auth.JWTSecret,
		"REDIS_URL":             &c.Redis.URL,
		"RATES_API_URL":         &c.Rates.APIURL,
		"EMAIL_API_URL":         &c.Email.APIURL,
		"EMAIL_API_KEY":         &c.Email.APIKey,
		"EMAIL_FROM":            &c.Email.From,
		"STRIPE_SECRET_KEY":     &c.Stripe.SecretKey,
		"STRIPE_WEBHOOK_SECRET": &c.Stripe.WebhookSecret,
		"STRIPE_SUCCESS_URL":    &c.Stripe.SuccessURL,
		"STRIPE_CANCEL_URL":     &c.Stripe.CancelURL,
		"STORAGE_DIR":           &c.Storage.Dir,
		"STORAGE_SIGN_SECRET":   &c.Storage.SignSecret,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	durations := map[string]*Duration{
		"TOKEN_TTL":       &c.Auth.TokenTTL,
		"REFRESH_TTL":     &c.Auth.RefreshTTL,
		"RATES_CACHE_TTL": &c.Rates.CacheTTL,
	}
	for key, dst := range durations {
		if v := os.Getenv(key); v != "" {
			if err := dst.UnmarshalText([]byte(v)); err != nil {
				return fmt.Errorf("config: %s: %w", key, err)
			}
		}
	}

	if v := os.Getenv("LOGIN_RPM"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: LOGIN_RPM: %w", err)
		}
		c.Auth.LoginRPM = n
	}
	if v := os.Getenv("SCRAPE_SUCCESS_RATIO"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: SCRAPE_SUCCESS_RATIO: %w", err)
		}
		c.Jobs.ScrapeSuccessRatio = f
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = strings.Split(v, ",")
	}
	// STRIPE_PRICE_BASIC=price_123 style variables add plan prices.
	for _, kv := range os.Environ() {
		name, value, _ := strings.Cut(kv, "=")
		if plan, ok := strings.CutPrefix(name, "STRIPE_PRICE_"); ok && value != "" {
			c.Stripe.Prices[strings.ToLower(plan)] = value
		}
	}
	return nil
}
