package binance_websocket

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"ticker_bot/internal/modules/binance_websocket/service"
	"ticker_bot/internal/modules/config"
	health "ticker_bot/internal/modules/health/service"
	"ticker_bot/internal/runner"
)

// Module provides the Binance ticker stream as runner.Feed.
func Module() fx.Option {
	return fx.Module("binance_websocket",
		fx.Provide(
			func(cfg *config.Config, log *zap.Logger, state *health.State) *service.Client {
				return service.NewClient(cfg, log.Named("market_ws"), service.WithState(state))
			},
			func(c *service.Client) runner.Feed { return c },
		),
	)
}
