package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"ticker_bot/internal/models"
)

const (
	configFilePathENV = "CONFIG_FILE"
	configDir         = "configs"
	defaultConfigFile = "values_local.yaml"

	// env overrides: BOT_<SECTION>_<KEY>, e.g. BOT_TRADING_UP_THRESHOLD
	envPrefix = "BOT"
)

var ErrNoSymbolPairs = errors.New("symbol_pairs is empty")

// Config ...
type Config struct {
	ServiceName string `yaml:"service_name"`
	LogLevel    string `yaml:"log_level"`

	Trading     Trading      `yaml:"trading"`
	SymbolPairs []SymbolPair `yaml:"symbol_pairs"`

	Binance  Binance  `yaml:"binance"`
	Telegram Telegram `yaml:"telegram"`
	Health   Health   `yaml:"health"`
	Tracing  Tracing  `yaml:"tracing"`
}

type Trading struct {
	UpThreshold           float64 `yaml:"up_threshold"`   // percent, 5.0 => +5%
	DownThreshold         float64 `yaml:"down_threshold"` // percent, -5.0 => -5%
	IgnoreExpirationHours int     `yaml:"ignore_expiration_hours"`
	CooldownHours         float64 `yaml:"cooldown_hours"`

	Workers   int `yaml:"workers"`    // shard goroutines in the runner
	QueueSize int `yaml:"queue_size"` // per shard

	RejectDuplicateSymbols bool `yaml:"reject_duplicate_symbols"`
	CheckBalance           bool `yaml:"check_balance"`
}

type SymbolPair struct {
	BaseAsset      string  `yaml:"base_asset"`
	QuoteAsset     string  `yaml:"quote_asset"`
	MinQuoteAmount float64 `yaml:"min_quote_amount"`
}

type Binance struct {
	APIKey        string `yaml:"api_key"`
	APISecret     string `yaml:"api_secret"`
	Testnet       bool   `yaml:"testnet"`
	DryRun        bool   `yaml:"dry_run"`
	WSURL         string `yaml:"ws_url"`
	MaxReconnects int    `yaml:"max_reconnects"`
}

type Telegram struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

type Health struct {
	Addr string `yaml:"addr"`
}

type Tracing struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// Default returns the configuration used for every key the file omits.
func Default() Config {
	return Config{
		ServiceName: "ticker_bot",
		LogLevel:    "info",
		Trading: Trading{
			UpThreshold:           5.0,
			DownThreshold:         -5.0,
			IgnoreExpirationHours: 6,
			CooldownHours:         6,
			Workers:               4,
			QueueSize:             256,
		},
		Binance: Binance{
			DryRun:        true,
			WSURL:         "wss://stream.binance.com:9443/stream",
			MaxReconnects: 10,
		},
		Health:  Health{Addr: ":8080"},
		Tracing: Tracing{Host: "localhost", Port: 6831},
	}
}

// NewConfig reads configs/$CONFIG_FILE, applies BOT_* env overrides and validates the result.
func NewConfig() (*Config, error) {
	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = defaultConfigFile
	}
	return Load(filepath.Join(configDir, configFileName))
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config file")
	}
	defer func() {
		_ = file.Close()
	}()

	return Parse(file)
}

func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "decode config file")
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setString(v, "service_name", &cfg.ServiceName)
	setString(v, "log_level", &cfg.LogLevel)

	setFloat(v, "trading.up_threshold", &cfg.Trading.UpThreshold)
	setFloat(v, "trading.down_threshold", &cfg.Trading.DownThreshold)
	setInt(v, "trading.ignore_expiration_hours", &cfg.Trading.IgnoreExpirationHours)
	setFloat(v, "trading.cooldown_hours", &cfg.Trading.CooldownHours)
	setInt(v, "trading.workers", &cfg.Trading.Workers)
	setInt(v, "trading.queue_size", &cfg.Trading.QueueSize)
	setBool(v, "trading.reject_duplicate_symbols", &cfg.Trading.RejectDuplicateSymbols)
	setBool(v, "trading.check_balance", &cfg.Trading.CheckBalance)

	setString(v, "binance.api_key", &cfg.Binance.APIKey)
	setString(v, "binance.api_secret", &cfg.Binance.APISecret)
	setBool(v, "binance.testnet", &cfg.Binance.Testnet)
	setBool(v, "binance.dry_run", &cfg.Binance.DryRun)
	setString(v, "binance.ws_url", &cfg.Binance.WSURL)
	setInt(v, "binance.max_reconnects", &cfg.Binance.MaxReconnects)

	setString(v, "telegram.token", &cfg.Telegram.Token)
	if v.IsSet("telegram.chat_id") {
		cfg.Telegram.ChatID = v.GetInt64("telegram.chat_id")
	}

	setString(v, "health.addr", &cfg.Health.Addr)

	setBool(v, "tracing.enabled", &cfg.Tracing.Enabled)
	setString(v, "tracing.host", &cfg.Tracing.Host)
	setInt(v, "tracing.port", &cfg.Tracing.Port)
}

func setString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
}

func setFloat(v *viper.Viper, key string, dst *float64) {
	if v.IsSet(key) {
		*dst = v.GetFloat64(key)
	}
}

func setInt(v *viper.Viper, key string, dst *int) {
	if v.IsSet(key) {
		*dst = v.GetInt(key)
	}
}

func setBool(v *viper.Viper, key string, dst *bool) {
	if v.IsSet(key) {
		*dst = v.GetBool(key)
	}
}

func (c *Config) Validate() error {
	if c.Trading.UpThreshold <= 0 || c.Trading.DownThreshold >= 0 {
		return errors.Wrapf(models.ErrInvalidThresholds, "got up=%v down=%v",
			c.Trading.UpThreshold, c.Trading.DownThreshold)
	}
	if c.Trading.IgnoreExpirationHours <= 0 {
		return errors.Errorf("ignore_expiration_hours must be > 0, got %d", c.Trading.IgnoreExpirationHours)
	}
	if c.Trading.CooldownHours <= 0 {
		return errors.Errorf("cooldown_hours must be > 0, got %v", c.Trading.CooldownHours)
	}
	if c.Trading.Workers <= 0 {
		c.Trading.Workers = 1
	}
	if c.Trading.QueueSize <= 0 {
		c.Trading.QueueSize = 1
	}

	if len(c.SymbolPairs) == 0 {
		return ErrNoSymbolPairs
	}
	for i, p := range c.SymbolPairs {
		if strings.TrimSpace(p.BaseAsset) == "" || strings.TrimSpace(p.QuoteAsset) == "" {
			return errors.Errorf("symbol_pairs[%d]: base_asset and quote_asset are required", i)
		}
		if p.MinQuoteAmount <= 0 {
			return errors.Errorf("symbol_pairs[%d] %s%s: min_quote_amount must be > 0",
				i, p.BaseAsset, p.QuoteAsset)
		}
	}
	return nil
}

func (t Trading) Up() decimal.Decimal   { return decimal.NewFromFloat(t.UpThreshold) }
func (t Trading) Down() decimal.Decimal { return decimal.NewFromFloat(t.DownThreshold) }

func (t Trading) IgnoreExpiration() time.Duration {
	return time.Duration(t.IgnoreExpirationHours) * time.Hour
}

func (t Trading) Cooldown() time.Duration {
	return time.Duration(t.CooldownHours * float64(time.Hour))
}

// Pairs converts the configured pairs to domain records, keeping configuration order.
func (c *Config) Pairs() []models.SymbolPairConfig {
	out := make([]models.SymbolPairConfig, 0, len(c.SymbolPairs))
	for _, p := range c.SymbolPairs {
		out = append(out, models.SymbolPairConfig{
			BaseAsset:      strings.ToUpper(strings.TrimSpace(p.BaseAsset)),
			QuoteAsset:     strings.ToUpper(strings.TrimSpace(p.QuoteAsset)),
			MinQuoteAmount: decimal.NewFromFloat(p.MinQuoteAmount),
		})
	}
	return out
}
