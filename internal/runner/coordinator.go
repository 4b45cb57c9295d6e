package runner

import (
	"context"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ticker_bot/internal/metrics"
	"ticker_bot/internal/models"
	"ticker_bot/internal/registry"
	"ticker_bot/internal/strategy"
)

// ErrFeedClosed is returned by Run when the tick stream ends.
var ErrFeedClosed = errors.New("market feed closed")

// Gateway places market orders for a quote amount.
type Gateway interface {
	PlaceMarketOrder(ctx context.Context, symbol string, direction models.TradeDirection, quoteAmount decimal.Decimal) (models.OrderConfirmation, error)
}

// BalanceChecker is the optional pre-dispatch balance check.
type BalanceChecker interface {
	HasSufficientBalance(ctx context.Context, pair models.SymbolPairConfig, direction models.TradeDirection, quoteAmount decimal.Decimal) (bool, error)
}

type ServiceNotifier interface {
	SendService(ctx context.Context, format string, args ...any)
}

// Outcome is how a single tick left the pipeline.
type Outcome string

const (
	OutcomeSuppressed          Outcome = "suppressed"
	OutcomeNoSignal            Outcome = "no_signal"
	OutcomeUnknownSymbol       Outcome = "unknown_symbol"
	OutcomeThrottled           Outcome = "throttled"
	OutcomeInsufficientBalance Outcome = "insufficient_balance"
	OutcomeGatewayFailed       Outcome = "gateway_failed"
	OutcomeDispatched          Outcome = "dispatched"
	OutcomePanic               Outcome = "panic"
)

type Options struct {
	Workers   int
	QueueSize int

	Balances BalanceChecker  // nil disables the balance check
	Notifier ServiceNotifier // nil disables notifications
	Now      func() time.Time
}

// Coordinator wires feed ticks through evaluation, suppression, cooldown and
// symbol resolution into the trading gateway.
type Coordinator struct {
	log *zap.Logger

	evaluator  *strategy.Evaluator
	suppressor *Suppressor
	throttler  *Throttler
	registry   *registry.Registry
	gateway    Gateway

	balances BalanceChecker
	n        ServiceNotifier
	now      func() time.Time

	workers   int
	queueSize int
}

func NewCoordinator(
	log *zap.Logger,
	evaluator *strategy.Evaluator,
	suppressor *Suppressor,
	throttler *Throttler,
	reg *registry.Registry,
	gateway Gateway,
	opts Options,
) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Coordinator{
		log:        log,
		evaluator:  evaluator,
		suppressor: suppressor,
		throttler:  throttler,
		registry:   reg,
		gateway:    gateway,
		balances:   opts.Balances,
		n:          opts.Notifier,
		now:        opts.Now,
		workers:    opts.Workers,
		queueSize:  opts.QueueSize,
	}
}

// Run consumes ticks until ctx is cancelled or the feed closes. Ticks of one
// symbol always land on the same worker, so they are handled in arrival order.
// Returns ctx.Err() on cancellation and ErrFeedClosed when ticks is closed.
func (c *Coordinator) Run(ctx context.Context, ticks <-chan models.Tick) error {
	shards := make([]chan models.Tick, c.workers)
	var wg sync.WaitGroup
	for i := range shards {
		shards[i] = make(chan models.Tick, c.queueSize)
		wg.Add(1)
		go func(in <-chan models.Tick) {
			defer wg.Done()
			c.worker(ctx, in)
		}(shards[i])
	}
	defer func() {
		for _, ch := range shards {
			close(ch)
		}
		wg.Wait()
	}()

	c.log.Info("runner started",
		zap.Int("workers", c.workers),
		zap.Strings("symbols", c.registry.Symbols()),
		zap.String("up_threshold", c.evaluator.Up().String()),
		zap.String("down_threshold", c.evaluator.Down().String()),
		zap.Duration("ignore_window", c.suppressor.Window()),
		zap.Duration("cooldown", c.throttler.Cooldown()),
	)

	for {
		select {
		case <-ctx.Done():
			c.log.Info("runner stopping", zap.Error(ctx.Err()))
			return ctx.Err()

		case t, ok := <-ticks:
			if !ok {
				// the feed closes its channel on shutdown too
				if ctx.Err() != nil {
					c.log.Info("runner stopping", zap.Error(ctx.Err()))
					return ctx.Err()
				}
				c.log.Error("market feed closed, stopping runner")
				return ErrFeedClosed
			}

			shard := shards[c.shardOf(t.Symbol)]
			select {
			case shard <- t:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (c *Coordinator) shardOf(symbol string) uint64 {
	return xxhash.Sum64String(models.NormSymbol(symbol)) % uint64(c.workers)
}

func (c *Coordinator) worker(ctx context.Context, in <-chan models.Tick) {
	for t := range in {
		// drain without dispatching once cancelled
		if ctx.Err() != nil {
			continue
		}
		c.safeHandle(ctx, t)
	}
}

func (c *Coordinator) safeHandle(ctx context.Context, t models.Tick) {
	defer func() {
		if p := recover(); p != nil {
			c.log.Error("tick handler panic", zap.String("symbol", t.Symbol), zap.Any("panic", p))
			metrics.OutcomesTotal.WithLabelValues(string(OutcomePanic)).Inc()
		}
	}()
	c.HandleTick(ctx, t)
}

// HandleTick runs the full pipeline for one tick. It never returns an error:
// every failure is logged and reported as an Outcome.
func (c *Coordinator) HandleTick(ctx context.Context, t models.Tick) Outcome {
	sym := models.NormSymbol(t.Symbol)
	now := c.now().UTC()

	metrics.TicksTotal.WithLabelValues(sym).Inc()
	c.log.Debug("price update",
		zap.String("symbol", sym),
		zap.String("price", t.LastPrice.String()),
		zap.String("change_24h", t.PercentChange.StringFixed(2)),
		zap.String("volume", t.Volume.StringFixed(2)),
	)

	if !c.suppressor.ShouldProcess(sym, now) {
		return c.done(OutcomeSuppressed)
	}

	sig, ok := c.evaluator.Signal(t, now)
	if !ok {
		return c.done(OutcomeNoSignal)
	}
	dir := sig.Direction

	// unknown instruments are dropped before any state changes
	pair, ok := c.registry.Resolve(sym)
	if !ok {
		c.log.Warn("signal for unknown symbol dropped",
			zap.String("symbol", sym), zap.Stringer("side", dir))
		return c.done(OutcomeUnknownSymbol)
	}

	c.suppressor.Suppress(sym, now)
	metrics.SignalsTotal.WithLabelValues(sym, dir.String()).Inc()
	c.log.Info("threshold crossed",
		zap.String("symbol", sym),
		zap.Stringer("side", dir),
		zap.String("change_24h", sig.PercentChange.StringFixed(2)),
		zap.Time("suppressed_until", now.Add(c.suppressor.Window())),
	)

	if !c.throttler.CanTrade(sym, now) {
		return c.done(OutcomeThrottled)
	}

	amount := pair.MinQuoteAmount

	if c.balances != nil {
		enough, err := c.balances.HasSufficientBalance(ctx, pair, dir, amount)
		if err != nil {
			c.log.Error("balance check failed", zap.String("symbol", sym), zap.Stringer("side", dir), zap.Error(err))
			return c.done(OutcomeInsufficientBalance)
		}
		if !enough {
			c.log.Warn("insufficient balance, order skipped", zap.String("symbol", sym), zap.Stringer("side", dir))
			return c.done(OutcomeInsufficientBalance)
		}
	}

	conf, err := c.gateway.PlaceMarketOrder(ctx, sym, dir, amount)
	if err != nil {
		metrics.OrdersTotal.WithLabelValues(sym, dir.String(), "error").Inc()
		c.log.Error("market order failed",
			zap.String("symbol", sym),
			zap.Stringer("side", dir),
			zap.String("quote_amount", amount.String()),
			zap.Error(err),
		)
		c.notify(ctx, "❗️ [%s] %s %s %s failed: %v", sym, dir, amount, pair.QuoteAsset, err)
		return c.done(OutcomeGatewayFailed)
	}

	c.throttler.RecordTrade(sym, c.now().UTC())
	metrics.OrdersTotal.WithLabelValues(sym, dir.String(), "ok").Inc()

	c.log.Info("market order dispatched",
		zap.String("symbol", sym),
		zap.Stringer("side", dir),
		zap.String("quote_amount", amount.String()),
		zap.Int64("order_id", conf.OrderID),
		zap.String("status", conf.Status),
		zap.Bool("dry_run", conf.DryRun),
	)
	c.notify(ctx, "✅ [%s] %s %s %s | change %s%% | orderId=%d status=%s",
		sym, dir, amount, pair.QuoteAsset, t.PercentChange.StringFixed(2), conf.OrderID, conf.Status)

	return c.done(OutcomeDispatched)
}

func (c *Coordinator) done(o Outcome) Outcome {
	metrics.OutcomesTotal.WithLabelValues(string(o)).Inc()
	return o
}

func (c *Coordinator) notify(ctx context.Context, format string, args ...any) {
	if c.n != nil {
		c.n.SendService(ctx, format, args...)
	}
}
