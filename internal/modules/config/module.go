package config

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"ticker_bot/pkg/logger"
)

// Module provides *Config and the root *zap.Logger.
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(
			NewConfig,
			func(cfg *Config) (*zap.Logger, error) {
				return logger.New(cfg.LogLevel, cfg.ServiceName)
			},
		),
	)
}
