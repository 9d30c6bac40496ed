// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

// Package metrics records producer lifecycle events as Prometheus metrics.
// It is wired to the rest of the module as a ProducerEvent listener
// (partprod.Producer.AddEventListener / Client) rather than through any
// direct dependency from the core actor, keeping the hot path free of
// metrics-library calls.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles every metric this module exposes and owns its own
// prometheus.Registry so embedding applications don't collide with the
// default global registry.
type Registry struct {
	registry *prometheus.Registry

	dispatchTotal    *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	batchSize        *prometheus.HistogramVec
	refreshTotal     *prometheus.CounterVec
	producerClosed   *prometheus.CounterVec
	startTime        prometheus.Gauge
}

// NewRegistry builds and registers every metric, plus the standard Go
// runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,

		dispatchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partprod_dispatch_total",
				Help: "Total number of dispatches to the broker connection",
			},
			[]string{"topic", "kind", "status"}, // kind: sync, async, single, batch; status: success, error
		),

		dispatchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "partprod_dispatch_duration_seconds",
				Help:    "Time spent in a single Connection.Send* call",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"topic", "kind"},
		),

		batchSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "partprod_batch_size",
				Help:    "Number of messages in a dispatched batch",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
			},
			[]string{"topic"},
		),

		refreshTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partprod_refresh_total",
				Help: "Total number of broker refresh ticks",
			},
			[]string{"topic", "status"}, // status: unchanged, changed, failed
		),

		producerClosed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "partprod_producer_closed_total",
				Help: "Total number of producer actor exits, by reason",
			},
			[]string{"topic", "reason"},
		),

		startTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "partprod_start_time_seconds",
			Help: "Unix timestamp when this registry was created",
		}),
	}

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	reg.MustRegister(
		r.dispatchTotal,
		r.dispatchDuration,
		r.batchSize,
		r.refreshTotal,
		r.producerClosed,
		r.startTime,
	)
	r.startTime.SetToCurrentTime()

	return r
}

// Handler exposes the registry over HTTP in OpenMetrics-compatible form.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		Registry:          r.registry,
	})
}

// RecordDispatch records one Connection.Send* call.
func (r *Registry) RecordDispatch(topic, kind string, batchSize int, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.dispatchTotal.WithLabelValues(topic, kind, status).Inc()
	r.dispatchDuration.WithLabelValues(topic, kind).Observe(duration.Seconds())
	if kind == "batch" && err == nil {
		r.batchSize.WithLabelValues(topic).Observe(float64(batchSize))
	}
}

// RecordRefresh records one broker refresh tick.
func (r *Registry) RecordRefresh(topic, status string) {
	r.refreshTotal.WithLabelValues(topic, status).Inc()
}

// RecordClosed records one producer actor exit.
func (r *Registry) RecordClosed(topic, reason string) {
	r.producerClosed.WithLabelValues(topic, reason).Inc()
}
