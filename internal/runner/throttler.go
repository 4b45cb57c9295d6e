package runner

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"ticker_bot/internal/helper"
	"ticker_bot/internal/models"
)

// Throttler enforces a cooldown between actual trades of one symbol.
// A single mutex guards the whole map; the symbol set is small.
type Throttler struct {
	log      *zap.Logger
	cooldown time.Duration

	mu        sync.Mutex
	lastTrade map[string]time.Time
}

func NewThrottler(log *zap.Logger, cooldown time.Duration) *Throttler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Throttler{
		log:       log,
		cooldown:  cooldown,
		lastTrade: make(map[string]time.Time),
	}
}

// CanTrade is true for a symbol that never traded or whose cooldown has elapsed.
func (t *Throttler) CanTrade(symbol string, now time.Time) bool {
	sym := models.NormSymbol(symbol)

	t.mu.Lock()
	defer t.mu.Unlock()

	last, ok := t.lastTrade[sym]
	if !ok {
		return true
	}

	since := now.Sub(last)
	if since >= t.cooldown {
		return true
	}

	t.log.Info("trade cooldown active",
		zap.String("symbol", sym),
		zap.String("last_trade", helper.UTCStamp(last)),
		zap.String("remaining", helper.FormatCooldown(t.cooldown-since)),
	)
	return false
}

// RecordTrade must only be called after the gateway confirmed the order.
func (t *Throttler) RecordTrade(symbol string, now time.Time) {
	sym := models.NormSymbol(symbol)

	t.mu.Lock()
	t.lastTrade[sym] = now
	t.mu.Unlock()

	t.log.Info("trade recorded", zap.String("symbol", sym), zap.String("at", helper.UTCStamp(now)))
}

// RemainingCooldown is zero when the symbol is tradeable.
func (t *Throttler) RemainingCooldown(symbol string, now time.Time) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	last, ok := t.lastTrade[models.NormSymbol(symbol)]
	if !ok {
		return 0
	}
	if rem := t.cooldown - now.Sub(last); rem > 0 {
		return rem
	}
	return 0
}

func (t *Throttler) LastTradeTime(symbol string) (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	last, ok := t.lastTrade[models.NormSymbol(symbol)]
	return last, ok
}

func (t *Throttler) Cooldown() time.Duration { return t.cooldown }
