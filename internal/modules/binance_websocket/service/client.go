package service

import (
	"context"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"ticker_bot/internal/metrics"
	"ticker_bot/internal/models"
	"ticker_bot/internal/modules/config"
)

const (
	pongWait     = 60 * time.Second
	pingInterval = 20 * time.Second
	writeWait    = 5 * time.Second
)

// ConnState receives connection and liveness updates from the stream.
type ConnState interface {
	SetWSConnected(v bool)
	TouchTick(t time.Time)
}

type nopState struct{}

func (nopState) SetWSConnected(bool) {}
func (nopState) TouchTick(time.Time) {}

// Client streams Binance 24h ticker updates over one combined websocket.
type Client struct {
	log    *zap.Logger
	dialer *websocket.Dialer
	state  ConnState

	wsURL         string
	maxReconnects int
	backoffBase   time.Duration
	backoffMax    time.Duration
	buffer        int
}

type Option func(*Client)

func WithState(s ConnState) Option {
	return func(c *Client) {
		if s != nil {
			c.state = s
		}
	}
}

// WithBackoff sets the first reconnect delay and its cap.
func WithBackoff(base, max time.Duration) Option {
	return func(c *Client) {
		c.backoffBase, c.backoffMax = base, max
	}
}

func WithURL(u string) Option {
	return func(c *Client) {
		c.wsURL = u
	}
}

func NewClient(cfg *config.Config, log *zap.Logger, opts ...Option) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		log:           log,
		dialer:        &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		state:         nopState{},
		wsURL:         cfg.Binance.WSURL,
		maxReconnects: cfg.Binance.MaxReconnects,
		backoffBase:   time.Second,
		backoffMax:    30 * time.Second,
		buffer:        cfg.Trading.QueueSize,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Stream subscribes to the ticker stream of every symbol and emits parsed
// ticks until ctx is cancelled or the reconnect budget is spent. The returned
// channel is closed in both cases.
func (c *Client) Stream(ctx context.Context, symbols []string) <-chan models.Tick {
	out := make(chan models.Tick, c.buffer)

	go func() {
		defer close(out)
		defer c.state.SetWSConnected(false)

		if len(symbols) == 0 {
			c.log.Warn("no symbols to stream")
			return
		}

		u := c.streamURL(symbols)
		failures := 0
		for {
			connected, err := c.consume(ctx, u, out)
			if ctx.Err() != nil {
				c.log.Info("market stream stopped")
				return
			}
			if connected {
				failures = 0
			}
			failures++

			if failures > c.maxReconnects {
				c.log.Error("market stream reconnect limit reached",
					zap.Int("attempts", failures-1), zap.Error(err))
				return
			}

			delay := c.backoff(failures)
			metrics.FeedReconnectsTotal.Inc()
			c.log.Warn("market stream disconnected, reconnecting",
				zap.Int("attempt", failures),
				zap.Duration("delay", delay),
				zap.Error(err),
			)

			t := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case <-t.C:
			}
		}
	}()

	return out
}

// consume runs one connection until it fails. connected reports whether the
// handshake succeeded.
func (c *Client) consume(ctx context.Context, u string, out chan<- models.Tick) (connected bool, err error) {
	conn, _, err := c.dialer.DialContext(ctx, u, nil)
	if err != nil {
		return false, errors.Wrap(err, "dial")
	}
	defer conn.Close()

	c.state.SetWSConnected(true)
	defer c.state.SetWSConnected(false)
	c.log.Info("market stream connected", zap.String("url", u))

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		t := time.NewTicker(pingInterval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				// unblocks ReadMessage
				_ = conn.Close()
				return
			case <-t.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			}
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return true, errors.Wrap(err, "read")
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		tick, err := parseTicker(msg)
		if err != nil {
			if !errors.Is(err, errNotTicker) {
				c.log.Debug("ticker frame skipped", zap.Error(err))
			}
			continue
		}
		c.state.TouchTick(time.Now())

		select {
		case out <- tick:
		case <-ctx.Done():
			return true, ctx.Err()
		}
	}
}

func (c *Client) streamURL(symbols []string) string {
	streams := make([]string, 0, len(symbols))
	for _, s := range symbols {
		streams = append(streams, strings.ToLower(models.NormSymbol(s))+"@ticker")
	}
	return strings.TrimRight(c.wsURL, "/?") + "?streams=" + strings.Join(streams, "/")
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.backoffBase
	for i := 1; i < attempt && d < c.backoffMax; i++ {
		d *= 2
	}
	if d > c.backoffMax {
		d = c.backoffMax
	}
	return d
}
