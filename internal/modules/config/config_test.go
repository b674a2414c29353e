package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("expected defaults, got %v", err)
	}
	if cfg.Pipeline.Lookback != 2 {
		t.Fatalf("lookback default = %d, want 2", cfg.Pipeline.Lookback)
	}
	if cfg.MarketData.MaxRetries != 3 {
		t.Fatalf("max_retries default = %d, want 3", cfg.MarketData.MaxRetries)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "values.yaml")
	body := `
db_dsn: postgres://file
strategies_dir: /srv/strategies
market_data:
  request_timeout: 3s
  futures_prefixes: ["FUT:"]
pipeline:
  lookback: 5
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(databaseDSN, "postgres://env")
	t.Setenv(chatTelegramENV, "42")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DB != "postgres://env" {
		t.Fatalf("env must override dsn, got %q", cfg.DB)
	}
	if cfg.Telegram.ChatID != 42 {
		t.Fatalf("chat id = %d, want 42", cfg.Telegram.ChatID)
	}
	if cfg.MarketData.RequestTimeout != 3*time.Second {
		t.Fatalf("request_timeout = %s", cfg.MarketData.RequestTimeout)
	}
	if cfg.Pipeline.Lookback != 5 || cfg.StrategiesDir != "/srv/strategies" {
		t.Fatalf("unexpected pipeline/dir: %+v %q", cfg.Pipeline, cfg.StrategiesDir)
	}
	if len(cfg.MarketData.FuturesPrefixes) != 1 || cfg.MarketData.FuturesPrefixes[0] != "FUT:" {
		t.Fatalf("prefixes = %v", cfg.MarketData.FuturesPrefixes)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"timeout":  func(c *Config) { c.MarketData.RequestTimeout = 0 },
		"retries":  func(c *Config) { c.MarketData.MaxRetries = 0 },
		"backoff":  func(c *Config) { c.MarketData.MaxBackoff = time.Millisecond },
		"lookback": func(c *Config) { c.Pipeline.Lookback = 0 },
		"prefix":   func(c *Config) { c.MarketData.FuturesPrefixes = []string{" "} },
	}
	for name, mutate := range cases {
		c := Default()
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}
