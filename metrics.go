// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

package partprod

import (
	"context"
	"time"

	"github.com/relaycore/partprod/internal/metrics"
)

// MetricsProducer wraps a ProducerAPI and records dispatch latency and
// outcome in a prometheus registry. Layer order mirrors itsHabib-pub's
// decorator chain: TracedProducer -> MetricsProducer -> Producer.
type MetricsProducer struct {
	inner    ProducerAPI
	registry *metrics.Registry
}

// NewMetricsProducer wraps inner with metrics recording against registry.
func NewMetricsProducer(inner ProducerAPI, registry *metrics.Registry) *MetricsProducer {
	return &MetricsProducer{inner: inner, registry: registry}
}

func (m *MetricsProducer) Topic() Topic { return m.inner.Topic() }

func (m *MetricsProducer) Send(ctx context.Context, payload []byte, opts MessageOptions) (MessageID, error) {
	start := time.Now()
	id, err := m.inner.Send(ctx, payload, opts)
	m.registry.RecordDispatch(m.inner.Topic().String(), "sync", 1, time.Since(start), err)
	return id, err
}

func (m *MetricsProducer) SendAsync(payload []byte, opts MessageOptions, callback func(MessageID, error)) {
	start := time.Now()
	topic := m.inner.Topic().String()
	m.inner.SendAsync(payload, opts, func(id MessageID, err error) {
		m.registry.RecordDispatch(topic, "async", 1, time.Since(start), err)
		if callback != nil {
			callback(id, err)
		}
	})
}

func (m *MetricsProducer) Close(ctx context.Context) error {
	err := m.inner.Close(ctx)
	m.registry.RecordClosed(m.inner.Topic().String(), errorMetric(err))
	return err
}

func (m *MetricsProducer) AddEventListener(fn func(*ProducerEvent)) func() {
	return m.inner.AddEventListener(fn)
}

var _ ProducerAPI = (*MetricsProducer)(nil)

// NewMetricsEventListener returns a ProducerEvent listener that records
// connection-side dispatches and lifecycle transitions directly from the
// event bus. Dispatch events are labelled "single"/"batch" (the shape of
// the Connection call), complementing the caller-side "sync"/"async"
// labels recorded by MetricsProducer.
func NewMetricsEventListener(registry *metrics.Registry) func(*ProducerEvent) {
	return func(ev *ProducerEvent) {
		topic := ev.Topic.String()
		switch ev.Type {
		case EventSingleDispatched:
			registry.RecordDispatch(topic, "single", 1, ev.Duration, ev.Err)
		case EventBatchDispatched:
			registry.RecordDispatch(topic, "batch", ev.BatchSize, ev.Duration, ev.Err)
		case EventRefreshed:
			registry.RecordRefresh(topic, "unchanged")
		case EventRefreshFailed:
			registry.RecordRefresh(topic, "failed")
		case EventClosed:
			registry.RecordClosed(topic, errorMetric(ev.Err))
		}
	}
}
