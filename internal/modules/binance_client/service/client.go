package service

import (
	"net/http"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"ticker_bot/internal/modules/config"
)

var ErrNoCredentials = errors.New("binance api credentials are not configured")

// Client is the spot trading gateway and account balance source.
type Client struct {
	log    *zap.Logger
	api    *binance.Client
	dryRun bool
	creds  bool
}

type Option func(*Client)

// WithBaseURL points the REST client at another host (testnet mirror, tests).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.api.BaseURL = url
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.api.HTTPClient = hc
	}
}

func NewClient(cfg *config.Config, log *zap.Logger, opts ...Option) *Client {
	binance.UseTestnet = cfg.Binance.Testnet

	log = log.Named("gateway")
	creds := cfg.Binance.APIKey != "" && cfg.Binance.APISecret != ""
	if !creds {
		log.Warn("binance api credentials not configured, trading works in dry-run only")
	}

	api := binance.NewClient(cfg.Binance.APIKey, cfg.Binance.APISecret)
	api.HTTPClient = &http.Client{Timeout: 10 * time.Second}

	c := &Client{
		log:    log,
		api:    api,
		dryRun: cfg.Binance.DryRun,
		creds:  creds,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DryRun reports whether orders are logged instead of sent.
func (c *Client) DryRun() bool { return c.dryRun }
