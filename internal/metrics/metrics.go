// Package metrics exports Prometheus metrics for RPC traffic and ledger
// activity.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/debty-app/debty/internal/ledger"
)

const namespace = "debty"

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	rpcRequests *prometheus.CounterVec
	rpcDuration *prometheus.HistogramVec
	mutations   *prometheus.CounterVec
	openLedgers prometheus.Gauge
}

var _ ledger.Observer = (*Metrics)(nil)

// New registers all collectors, including the Go runtime and process ones.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "Connect RPCs handled, by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "Connect RPC latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_mutations_total",
			Help:      "Ledger mutations, by operation and outcome.",
		}, []string{"op", "outcome"}),
		openLedgers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_ledgers",
			Help:      "Ledgers currently held in memory.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.rpcRequests,
		m.rpcDuration,
		m.mutations,
		m.openLedgers,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Interceptor records the count and latency of every unary RPC.
func (m *Metrics) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			m.rpcRequests.WithLabelValues(procedure, code).Inc()
			m.rpcDuration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())
			return resp, err
		}
	}
}

// MutationDone implements ledger.Observer.
func (m *Metrics) MutationDone(op string, err error) {
	m.mutations.WithLabelValues(op, outcome(err)).Inc()
}

// BooksOpen implements ledger.Observer.
func (m *Metrics) BooksOpen(n int) {
	m.openLedgers.Set(float64(n))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ledger.ErrValidation):
		return "invalid"
	case errors.Is(err, ledger.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
