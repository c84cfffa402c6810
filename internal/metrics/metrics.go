// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// RPCRequests counts handled RPCs by procedure and result code.
	RPCRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dashboardly",
		Name:      "rpc_requests_total",
		Help:      "Handled RPCs by procedure and code.",
	}, []string{"procedure", "code"})

	// RPCDuration observes RPC latency by procedure.
	RPCDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dashboardly",
		Name:      "rpc_duration_seconds",
		Help:      "RPC latency by procedure.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure"})

	// ChatSubscriptions is the number of open chat change streams.
	ChatSubscriptions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "dashboardly",
		Name:      "chat_subscriptions",
		Help:      "Open chat change streams.",
	})

	// RateFetches counts exchange-rate fetches by outcome (ok, fallback, cached).
	RateFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dashboardly",
		Name:      "exchange_rate_fetches_total",
		Help:      "Exchange-rate lookups by outcome.",
	}, []string{"outcome"})

	// JobOutcomes counts background task executions by type and outcome.
	JobOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dashboardly",
		Name:      "job_outcomes_total",
		Help:      "Background task executions by type and outcome.",
	}, []string{"type", "outcome"})
)

// NewRegistry returns a registry with the application and runtime collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		RPCRequests,
		RPCDuration,
		ChatSubscriptions,
		RateFetches,
		JobOutcomes,
	)
	return reg
}
