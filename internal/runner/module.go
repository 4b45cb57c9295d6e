package runner

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"ticker_bot/internal/models"
	"ticker_bot/internal/modules/config"
	"ticker_bot/internal/registry"
	"ticker_bot/internal/strategy"
)

// Feed is the market data subscription; the channel closes when the feed gives up.
type Feed interface {
	Stream(ctx context.Context, symbols []string) <-chan models.Tick
}

type Readiness interface {
	SetReady(v bool)
}

type coordinatorParams struct {
	fx.In

	Log        *zap.Logger
	Cfg        *config.Config
	Evaluator  *strategy.Evaluator
	Suppressor *Suppressor
	Throttler  *Throttler
	Registry   *registry.Registry
	Gateway    Gateway
	Balances   BalanceChecker  `optional:"true"`
	Notifier   ServiceNotifier `optional:"true"`
}

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			NewRegistry,
			func(cfg *config.Config) *Suppressor {
				return NewSuppressor(cfg.Trading.IgnoreExpiration())
			},
			func(log *zap.Logger, cfg *config.Config) *Throttler {
				return NewThrottler(log.Named("throttler"), cfg.Trading.Cooldown())
			},
			newCoordinator,
		),
		fx.Invoke(run),
	)
}

func NewRegistry(cfg *config.Config) (*registry.Registry, error) {
	policy := registry.DuplicateOverwrite
	if cfg.Trading.RejectDuplicateSymbols {
		policy = registry.DuplicateReject
	}
	return registry.New(cfg.Pairs(), policy)
}

func newCoordinator(p coordinatorParams) *Coordinator {
	opts := Options{
		Workers:   p.Cfg.Trading.Workers,
		QueueSize: p.Cfg.Trading.QueueSize,
		Notifier:  p.Notifier,
	}
	if p.Cfg.Trading.CheckBalance {
		opts.Balances = p.Balances
	}
	return NewCoordinator(p.Log.Named("runner"), p.Evaluator, p.Suppressor, p.Throttler, p.Registry, p.Gateway, opts)
}

func run(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	parent context.Context,
	log *zap.Logger,
	c *Coordinator,
	feed Feed,
	reg *registry.Registry,
	ready Readiness,
) {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			ticks := feed.Stream(ctx, reg.Symbols())
			go func() {
				defer close(done)
				ready.SetReady(true)
				err := c.Run(ctx, ticks)
				ready.SetReady(false)

				if errors.Is(err, ErrFeedClosed) {
					log.Error("[RUNNER] feed lost, shutting down", zap.Error(err))
					_ = sd.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
