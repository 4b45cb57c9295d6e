package health

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"ticker_bot/internal/metrics"
	"ticker_bot/internal/modules/config"
	"ticker_bot/internal/modules/health/service"
	"ticker_bot/internal/runner"
)

type Config struct {
	Addr string // e.g. ":8080"
}

func NewConfig(cfg *config.Config) Config {
	addr := cfg.Health.Addr
	if addr == "" {
		addr = ":8080"
	}
	return Config{Addr: addr}
}

type statusResponse struct {
	Ready          bool  `json:"ready"`
	WSConnected    bool  `json:"wsConnected"`
	UptimeSec      int64 `json:"uptimeSec"`
	LastTickUnix   int64 `json:"lastTickUnix"`
	LastTickAgeSec int64 `json:"lastTickAgeSec"` // -1 until the first tick
}

// StatusSource reports per-symbol pipeline state for /status.
type StatusSource interface {
	Status() []runner.SymbolStatus
}

type muxParams struct {
	fx.In

	State  *service.State
	Status StatusSource `optional:"true"`
}

func newMux(p muxParams) *http.ServeMux { return NewMux(p.State, p.Status) }

// NewMux registers the probes and /metrics; /status only when status is set.
func NewMux(state *service.State, status StatusSource) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if !state.Ready() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		resp := statusResponse{
			Ready:          state.Ready(),
			WSConnected:    state.WSConnected(),
			UptimeSec:      int64(state.Uptime().Seconds()),
			LastTickAgeSec: -1,
		}
		if t := state.LastTick(); !t.IsZero() {
			resp.LastTickUnix = t.Unix()
			resp.LastTickAgeSec = int64(state.TickAge().Seconds())
		}
		writeJSON(w, resp)
	})

	mux.Handle("/metrics", metrics.Handler())

	if status != nil {
		mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, status.Status())
		})
	}

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	body, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func RunHTTP(lc fx.Lifecycle, cfg Config, mux *http.ServeMux, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return err
			}
			log.Info("health server listening", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
					log.Error("health server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

// Module serves liveness, readiness and Prometheus metrics, and provides the
// shared *service.State as runner.Readiness.
func Module() fx.Option {
	return fx.Module("health",
		fx.Provide(
			service.NewState,
			func(s *service.State) runner.Readiness { return s },
			NewConfig,
			newMux,
		),
		fx.Invoke(RunHTTP),
	)
}
