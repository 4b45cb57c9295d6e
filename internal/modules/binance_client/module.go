package binance_client

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"ticker_bot/internal/modules/binance_client/service"
	"ticker_bot/internal/runner"
)

// Module provides the Binance REST client as the runner's gateway and balance checker.
func Module() fx.Option {
	return fx.Module("binance_client",
		fx.Provide(
			service.NewClient,
			func(c *service.Client) runner.Gateway { return c },
			func(c *service.Client) runner.BalanceChecker { return c },
		),
		fx.Invoke(logStartupBalances),
	)
}

// logStartupBalances prints the account snapshot once; failures are not fatal.
func logStartupBalances(lc fx.Lifecycle, c *service.Client, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("binance gateway ready", zap.Bool("dry_run", c.DryRun()))
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := c.LogBalances(ctx); err != nil {
					log.Warn("startup balance snapshot failed", zap.Error(err))
				}
			}()
			return nil
		},
	})
}
