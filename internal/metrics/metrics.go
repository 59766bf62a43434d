package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PostsFetched = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "posts_fetched_total", Help: "Posts returned by the feed"},
	)
	AdvicesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "trade_advices_total", Help: "Trade advices emitted"},
		[]string{"action"},
	)
	SymbolsSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "symbols_not_tradable_total", Help: "Cashtags skipped because the symbol is not tradable"},
	)
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "orders_total", Help: "Orders submitted"},
		[]string{"symbol", "side", "result"},
	)
	CycleErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "cycle_errors_total", Help: "Failed poll cycles by error class"},
		[]string{"class"},
	)
	// Post IDs exceed float64 precision, so the checkpoint is exported as
	// advances and the newest post's timestamp rather than the ID itself.
	CheckpointAdvances = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "checkpoint_advances_total", Help: "Times the checkpoint moved to a newer post"},
	)
	NewestPostTime = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "newest_post_timestamp_seconds", Help: "Creation time of the newest processed post"},
	)
)

func init() {
	prometheus.MustRegister(PostsFetched, AdvicesTotal, SymbolsSkipped, OrdersTotal, CycleErrors, CheckpointAdvances, NewestPostTime)
}

// Serve exposes /metrics on addr in the background.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
