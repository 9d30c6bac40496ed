// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

package partprod

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// ProducerAPI is the interface Producer satisfies. It exists so the
// metrics and tracing decorators below can wrap a producer without
// depending on its concrete type, the same layering itsHabib-pub's
// TracedProducer/MetricsProducer use over pub.Producer.
type ProducerAPI interface {
	Topic() Topic
	Send(ctx context.Context, payload []byte, opts MessageOptions) (MessageID, error)
	SendAsync(payload []byte, opts MessageOptions, callback func(MessageID, error))
	Close(ctx context.Context) error
	AddEventListener(fn func(*ProducerEvent)) func()
}

// Producer is the caller-facing handle for one partition's actor. It is
// safe for concurrent use by multiple goroutines; every call is translated
// into a command sent over the actor's single command channel.
type Producer struct {
	topic  Topic
	a      *actor
	events *eventBroadcaster
}

// newProducer resolves topic to a broker, creates the producer on the
// broker's connection, and starts its actor goroutine. It is called by
// Client.NewProducer (router.go); most callers should go through the
// Client rather than construct a Producer directly, since the Client is
// what restarts a producer after a fatal exit.
func newProducer(ctx context.Context, admin Admin, connMgr ConnectionManager, group *singleflight.Group, topic Topic, opts ProducerOptions, logger Logger) (*Producer, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	opts = opts.normalize()

	if logger == nil {
		logger = nopLogger{}
	}

	binder := newBrokerBinder(admin, connMgr, group, topic, opts.RefreshInterval)
	b, err := binder.bind(ctx, topic, topic.String(), CreateProducerOptions{
		Properties:      opts.Properties,
		CompressionType: opts.CompressionType,
		HashingScheme:   opts.HashingScheme,
	})
	if err != nil {
		return nil, err
	}

	if err := validateAccessMode(b.reply.AccessMode); err != nil {
		return nil, err
	}

	state := producerState{
		broker:         b.broker,
		producerID:     b.reply.ProducerID,
		producerName:   b.reply.ProducerName,
		accessMode:     b.reply.AccessMode,
		maxMessageSize: b.reply.MaxMessageSize,
		properties:     b.reply.Properties,
		lastSequenceID: b.reply.LastSequenceID,
		opts:           opts,
		queue:          newBatchQueue(opts.BatchSize),
	}

	logger.Infow("producer bound",
		"topic", topic.String(),
		"broker", b.broker.String(),
		"producer_id", b.reply.ProducerID,
		"producer_name", b.reply.ProducerName,
		"access_mode", string(b.reply.AccessMode),
	)

	events := &eventBroadcaster{}
	for _, l := range opts.Listeners {
		events.AddEventListener(l)
	}
	events.dispatch(&ProducerEvent{Type: EventBound, Topic: topic, Broker: b.broker, AccessMode: b.reply.AccessMode})

	a := newActor(topic, b.conn, state, binder, logger, events)
	go a.run()

	return &Producer{topic: topic, a: a, events: events}, nil
}

// Topic returns the partition this producer is bound to.
func (p *Producer) Topic() Topic { return p.topic }

// Send publishes payload synchronously, blocking until the broker
// acknowledges it (direct-send) or the batch containing it is dispatched
// (batched). It respects ctx's deadline; a cancelled ctx leaves the reply
// channel orphaned, and the actor's eventual send to it is a no-op.
func (p *Producer) Send(ctx context.Context, payload []byte, opts MessageOptions) (MessageID, error) {
	reply := make(replyChan, 1)
	if err := p.enqueue(ctx, cmdPublish{payload: payload, opts: opts, reply: reply}); err != nil {
		return MessageID{}, err
	}
	select {
	case res := <-reply:
		return res.id, res.err
	case <-ctx.Done():
		return MessageID{}, ctx.Err()
	case <-p.a.done:
		return MessageID{}, ErrClosed
	}
}

// SendAsync publishes payload without waiting for the result. If callback
// is non-nil it is invoked exactly once, from an internal goroutine, with
// the eventual outcome; it must not block.
func (p *Producer) SendAsync(payload []byte, opts MessageOptions, callback func(MessageID, error)) {
	var reply replyChan
	if callback != nil {
		reply = make(replyChan, 1)
		go func() {
			res := <-reply
			callback(res.id, res.err)
		}()
	}

	cmd := cmdPublish{payload: payload, opts: opts, reply: reply}
	select {
	case p.a.cmdCh <- cmd:
	case <-p.a.done:
		if reply != nil {
			reply <- publishResult{err: ErrClosed}
		}
	}
}

// Close asks the actor to terminate gracefully, draining and fast-failing
// any queued entries, and waits for it to exit or ctx to expire.
func (p *Producer) Close(ctx context.Context) error {
	select {
	case p.a.cmdCh <- cmdClose{}:
	case <-p.a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-p.a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done returns a channel closed once the actor has exited, for callers
// (notably the Client) that need to detect a fatal exit and restart.
func (p *Producer) Done() <-chan struct{} { return p.a.done }

// exitReason reports why the actor exited: nil for a graceful close, the
// fatal error otherwise. Only valid after Done is closed.
func (p *Producer) exitReason() error { return p.a.exitErr }

// AddEventListener registers fn to observe this producer's lifecycle
// events and returns a function that removes it.
func (p *Producer) AddEventListener(fn func(*ProducerEvent)) func() {
	return p.events.AddEventListener(fn)
}

var _ ProducerAPI = (*Producer)(nil)

func (p *Producer) enqueue(ctx context.Context, cmd actorCommand) error {
	select {
	case p.a.cmdCh <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.a.done:
		return ErrClosed
	}
}
