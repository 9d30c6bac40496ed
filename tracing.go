// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

package partprod

import (
	"context"

	"github.com/relaycore/partprod/internal/tracing"
)

// TracedProducer wraps a ProducerAPI with a distributed-tracing span per
// publish call. Layer order: TracedProducer -> MetricsProducer -> Producer.
type TracedProducer struct {
	inner  ProducerAPI
	tracer *tracing.Tracer
}

// NewTracedProducer wraps inner with a span per Send/SendAsync call.
func NewTracedProducer(inner ProducerAPI, tracer *tracing.Tracer) *TracedProducer {
	return &TracedProducer{inner: inner, tracer: tracer}
}

func (t *TracedProducer) Topic() Topic { return t.inner.Topic() }

func (t *TracedProducer) Send(ctx context.Context, payload []byte, opts MessageOptions) (MessageID, error) {
	ctx, span := t.tracer.StartSpan(ctx, "partprod.producer.send")
	defer span.End()

	span.SetAttributes(t.tracer.ProducerAttributes(t.inner.Topic().String(), "sync", 1)...)

	id, err := t.inner.Send(ctx, payload, opts)
	if err != nil {
		t.tracer.RecordError(ctx, err)
	}
	span.SetAttributes(t.tracer.ErrorAttributes(err)...)

	return id, err
}

func (t *TracedProducer) SendAsync(payload []byte, opts MessageOptions, callback func(MessageID, error)) {
	ctx, span := t.tracer.StartSpan(context.Background(), "partprod.producer.send_async")
	span.SetAttributes(t.tracer.ProducerAttributes(t.inner.Topic().String(), "async", 1)...)

	t.inner.SendAsync(payload, opts, func(id MessageID, err error) {
		if err != nil {
			t.tracer.RecordError(ctx, err)
		}
		span.SetAttributes(t.tracer.ErrorAttributes(err)...)
		span.End()
		if callback != nil {
			callback(id, err)
		}
	})
}

func (t *TracedProducer) Close(ctx context.Context) error {
	ctx, span := t.tracer.StartSpan(ctx, "partprod.producer.close")
	defer span.End()
	return t.inner.Close(ctx)
}

func (t *TracedProducer) AddEventListener(fn func(*ProducerEvent)) func() {
	return t.inner.AddEventListener(fn)
}

var _ ProducerAPI = (*TracedProducer)(nil)
