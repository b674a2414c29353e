package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	configDirENV      = "CONFIG_DIR"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	chatTelegramENV   = "TELEGRAM_CHAT_ID"
	databaseDSN       = "DATABASE_DSN"
)

// Config ...
type Config struct {
	Service struct {
		Name     string `yaml:"name"`
		HTTPAddr string `yaml:"http_addr"`
	} `yaml:"service"`

	DB string `yaml:"db_dsn"`

	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	StrategiesDir string `yaml:"strategies_dir"`

	Log struct {
		Level    string `yaml:"level"`
		Encoding string `yaml:"encoding"` // json | console
	} `yaml:"log"`

	Tracing struct {
		Enabled bool   `yaml:"enabled"`
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
	} `yaml:"tracing"`

	MarketData MarketData `yaml:"market_data"`
	Pipeline   Pipeline   `yaml:"pipeline"`
}

type MarketData struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`

	// Префиксы символа, которые означают фьючерсный инструмент.
	FuturesPrefixes []string `yaml:"futures_prefixes"`

	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxRetries     int           `yaml:"max_retries"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	RatePerSecond  float64       `yaml:"rate_per_second"`
	RateBurst      int           `yaml:"rate_burst"`
}

type Pipeline struct {
	// Сколько последних свечей получают снапшот индикаторов.
	Lookback   int           `yaml:"lookback"`
	RunTimeout time.Duration `yaml:"run_timeout"`
}

// Default значения, поверх которых декодируется yaml.
func Default() Config {
	var c Config
	c.Service.Name = "strategy-orchestrator"
	c.Service.HTTPAddr = ":8080"
	c.StrategiesDir = "strategies"
	c.Log.Level = "info"
	c.Log.Encoding = "json"
	c.Tracing.Host = "localhost"
	c.Tracing.Port = 6831
	c.MarketData = MarketData{
		FuturesPrefixes: []string{"PF_", "PI_"},
		RequestTimeout:  10 * time.Second,
		MaxRetries:      3,
		InitialBackoff:  500 * time.Millisecond,
		MaxBackoff:      5 * time.Second,
		CacheTTL:        10 * time.Second,
		RatePerSecond:   10,
		RateBurst:       5,
	}
	c.Pipeline = Pipeline{
		Lookback:   2,
		RunTimeout: 2 * time.Minute,
	}
	return c
}

func NewConfig() (*Config, error) {
	configFileName := getenvDefault(configFilePathENV, "values_local.yaml")
	dir := getenvDefault(configDirENV, "configs")

	config, err := Load(dir + "/" + configFileName)
	if err != nil {
		return nil, err
	}
	return config, nil
}

// Load читает yaml, применяет env-переопределения и валидирует.
// Отсутствующий файл не ошибка: работаем на дефолтах и env.
func Load(path string) (*Config, error) {
	config := Default()

	file, err := os.Open(path)
	switch {
	case err == nil:
		defer func() {
			_ = file.Close()
		}()
		if err := yaml.NewDecoder(file).Decode(&config); err != nil {
			return nil, errors.Wrapf(err, "decode config file %s", path)
		}
	case os.IsNotExist(err):
	default:
		return nil, errors.Wrapf(err, "open config file %s", path)
	}

	applyEnv(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func applyEnv(c *Config) {
	if token := os.Getenv(tokenTelegramENV); token != "" {
		c.Telegram.Token = token
	}
	c.Telegram.ChatID = int64FromEnv(chatTelegramENV, c.Telegram.ChatID)
	if dsn := os.Getenv(databaseDSN); dsn != "" {
		c.DB = dsn
	}
	c.StrategiesDir = getenvDefault("STRATEGIES_DIR", c.StrategiesDir)
	c.Service.HTTPAddr = getenvDefault("HTTP_ADDR", c.Service.HTTPAddr)
	c.Log.Level = getenvDefault("LOG_LEVEL", c.Log.Level)
	c.MarketData.APIKey = getenvDefault("BINANCE_API_KEY", c.MarketData.APIKey)
	c.MarketData.APISecret = getenvDefault("BINANCE_API_SECRET", c.MarketData.APISecret)
	c.Tracing.Enabled = boolFromEnv("TRACING_ENABLED", c.Tracing.Enabled)
	c.Pipeline.Lookback = intFromEnv("PIPELINE_LOOKBACK", c.Pipeline.Lookback)
}

// Validate проверяет числовые параметры до старта.
func (c *Config) Validate() error {
	md := c.MarketData
	if md.RequestTimeout <= 0 {
		return fmt.Errorf("market_data.request_timeout must be positive, got %s", md.RequestTimeout)
	}
	if md.MaxRetries < 1 {
		return fmt.Errorf("market_data.max_retries must be >= 1, got %d", md.MaxRetries)
	}
	if md.InitialBackoff <= 0 || md.MaxBackoff < md.InitialBackoff {
		return fmt.Errorf("market_data backoff window invalid: initial=%s max=%s", md.InitialBackoff, md.MaxBackoff)
	}
	if md.RatePerSecond <= 0 || md.RateBurst < 1 {
		return fmt.Errorf("market_data rate limit invalid: rate=%.2f burst=%d", md.RatePerSecond, md.RateBurst)
	}
	for _, p := range md.FuturesPrefixes {
		if strings.TrimSpace(p) == "" {
			return errors.New("market_data.futures_prefixes contains an empty prefix")
		}
	}
	if c.Pipeline.Lookback < 1 {
		return fmt.Errorf("pipeline.lookback must be >= 1, got %d", c.Pipeline.Lookback)
	}
	if c.Pipeline.RunTimeout <= 0 {
		return fmt.Errorf("pipeline.run_timeout must be positive, got %s", c.Pipeline.RunTimeout)
	}
	if c.StrategiesDir == "" {
		return errors.New("strategies_dir is required")
	}
	return nil
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func int64FromEnv(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func boolFromEnv(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if v == "1" || v == "true" || v == "TRUE" {
			return true
		}
		if v == "0" || v == "false" || v == "FALSE" {
			return false
		}
	}
	return def
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
