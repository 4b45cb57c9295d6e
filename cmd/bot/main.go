package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"ticker_bot/internal/modules/binance_client"
	"ticker_bot/internal/modules/binance_client/service"
	"ticker_bot/internal/modules/binance_websocket"
	"ticker_bot/internal/modules/config"
	"ticker_bot/internal/modules/health"
	"ticker_bot/internal/notify"
	"ticker_bot/internal/runner"
	"ticker_bot/internal/strategy"
	"ticker_bot/pkg/tracing"
)

func main() {
	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		config.Module(),
		fx.Invoke(initTracing),
		strategy.Module(),
		health.Module(),
		notify.Module(),
		binance_client.Module(),
		binance_websocket.Module(),
		runner.Module(),
		fx.Provide(
			func(c *runner.Coordinator) health.StatusSource { return c },
		),
		fx.Invoke(registerCommands),
	)
	app.Run()
}

// registerCommands exposes pipeline state and balances to the Telegram chat.
func registerCommands(tg *notify.Telegram, c *runner.Coordinator, gw *service.Client) {
	if tg == nil {
		return
	}
	tg.Handle("status", func(context.Context) string {
		return notify.StatusReport(c.Status())
	})
	tg.Handle("balances", func(ctx context.Context) string {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		all, err := gw.AllBalances(ctx)
		if err != nil {
			return fmt.Sprintf("❗️ balances unavailable: %v", err)
		}
		return notify.BalanceReport(all)
	})
}

func initTracing(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) error {
	tracing.SetServiceName(cfg.ServiceName)
	_, closer, err := tracing.InitTracer(tracing.Config{
		Enabled: cfg.Tracing.Enabled,
		Host:    cfg.Tracing.Host,
		Port:    cfg.Tracing.Port,
	})
	if err != nil {
		return err
	}
	if cfg.Tracing.Enabled {
		log.Info("jaeger tracing enabled", zap.String("agent", cfg.Tracing.Host), zap.Int("port", cfg.Tracing.Port))
	}
	lc.Append(fx.StopHook(closer))
	return nil
}
