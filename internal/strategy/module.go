package strategy

import (
	"go.uber.org/fx"

	"ticker_bot/internal/modules/config"
)

func Module() fx.Option {
	return fx.Module("strategy",
		fx.Provide(
			func(cfg *config.Config) (*Evaluator, error) {
				return NewEvaluator(cfg.Trading.Up(), cfg.Trading.Down())
			},
		),
	)
}
