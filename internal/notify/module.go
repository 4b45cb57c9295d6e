package notify

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"ticker_bot/internal/modules/config"
	"ticker_bot/internal/runner"
)

// Module provides runner.ServiceNotifier: Telegram when a token and chat are
// configured, the logger otherwise. *Telegram is nil in the latter case.
func Module() fx.Option {
	return fx.Module("notify",
		fx.Provide(newNotifier),
	)
}

func newNotifier(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (runner.ServiceNotifier, *Telegram, error) {
	log = log.Named("notify")
	if cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0 {
		log.Info("telegram not configured, notifications go to the log")
		return NewLog(log), nil, nil
	}

	tg, err := NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, log)
	if err != nil {
		return nil, nil, err
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			tg.Start()
			tg.SendService(context.Background(), "🚀 %s started", cfg.ServiceName)
			return nil
		},
		OnStop: tg.Stop,
	})
	return tg, tg, nil
}
