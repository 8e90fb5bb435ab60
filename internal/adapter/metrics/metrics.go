// Package metrics exposes ledger activity as Prometheus series.
package metrics

import (
	"context"
	"net/http"
	"time"

	"asset-exchange/internal/core/domain"
	"asset-exchange/pkg/apperror"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder implements ports.ActionObserver.
type Recorder struct {
	registry *prometheus.Registry
	actions  *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	deferred *prometheus.CounterVec
	requests *prometheus.CounterVec
}

// NewRecorder registers the ledger series, plus Go runtime and process
// collectors, on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "assetex",
			Name:      "actions_total",
			Help:      "Ledger actions by name and outcome code.",
		}, []string{"action", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "assetex",
			Name:      "action_duration_seconds",
			Help:      "Ledger action latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"action"}),
		deferred: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "assetex",
			Name:      "deferred_settled_total",
			Help:      "Deferred actions settled by the worker, by receipt status.",
		}, []string{"status"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "assetex",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
	}
	r.registry.MustRegister(
		r.actions, r.latency, r.deferred, r.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) ObserveAction(action domain.ActionName, err error, elapsed time.Duration) {
	code := "OK"
	if err != nil {
		code = apperror.CodeOf(err)
	}
	r.actions.WithLabelValues(string(action), code).Inc()
	r.latency.WithLabelValues(string(action)).Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveDeferred(status domain.ReceiptStatus) {
	r.deferred.WithLabelValues(string(status)).Inc()
}

// ObserveRequest counts one served HTTP request. route is the matched
// pattern, not the raw path.
func (r *Recorder) ObserveRequest(method, route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	r.requests.WithLabelValues(method, route, http.StatusText(status)).Inc()
}

// WatchBacklog exports the number of deferred actions still waiting to run as
// assetex_deferred_backlog, read from length at scrape time. A failed read
// reports -1. It must be called at most once.
func (r *Recorder) WatchBacklog(length func(ctx context.Context) (int64, error)) {
	r.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "assetex",
		Name:      "deferred_backlog",
		Help:      "Deferred actions scheduled but not yet claimed.",
	}, func() float64 {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		n, err := length(ctx)
		if err != nil {
			return -1
		}
		return float64(n)
	}))
}

// Registry returns the registry the series live on.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
