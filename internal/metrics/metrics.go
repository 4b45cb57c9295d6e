package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ticks_total", Help: "Ticker updates received from the feed"},
		[]string{"symbol"},
	)
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signals_total", Help: "Threshold signals produced"},
		[]string{"symbol", "side"},
	)
	OutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "tick_outcomes_total", Help: "Per-tick pipeline outcomes"},
		[]string{"outcome"},
	)
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "orders_total", Help: "Market orders sent to the gateway"},
		[]string{"symbol", "side", "result"},
	)
	FeedReconnectsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "feed_reconnects_total", Help: "Market feed reconnect attempts"},
	)
)

func init() {
	prometheus.MustRegister(TicksTotal, SignalsTotal, OutcomesTotal, OrdersTotal, FeedReconnectsTotal)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
