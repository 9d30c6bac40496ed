// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

package partprod

import (
	"context"
	"time"
)

// producerState is owned exclusively by the actor goroutine that creates
// it; nothing outside actor.run ever reads or writes it.
type producerState struct {
	broker         Broker
	producerID     uint64
	producerName   string
	accessMode     AccessMode
	maxMessageSize int
	properties     map[string]string

	lastSequenceID uint64

	opts  ProducerOptions
	queue *batchQueue
}

// actorCommand is the closed set of events the actor admits over its
// command channel (publish and close; flush/refresh/connection-down arrive
// via timers and the Connection's Closed channel instead).
type actorCommand interface{ isActorCommand() }

type cmdPublish struct {
	payload []byte
	opts    MessageOptions
	reply   replyChan // nil for fire-and-forget
}

func (cmdPublish) isActorCommand() {}

type cmdClose struct{}

func (cmdClose) isActorCommand() {}

// actor is the single-threaded producer event loop. One
// actor goroutine is spawned per partition by the Client (router.go) and
// runs until a fatal event or a close directive.
type actor struct {
	topic     Topic
	topicName string
	conn      Connection
	state     producerState
	binder    *brokerBinder
	logger    Logger
	events    *eventBroadcaster

	cmdCh chan actorCommand
	done  chan struct{}

	// exitErr is written once by terminate, on the actor goroutine, before
	// done is closed; readers must wait on done first.
	exitErr error
}

func newActor(topic Topic, conn Connection, state producerState, binder *brokerBinder, logger Logger, events *eventBroadcaster) *actor {
	return &actor{
		topic:     topic,
		topicName: topic.String(),
		conn:      conn,
		state:     state,
		binder:    binder,
		logger:    logger,
		events:    events,
		cmdCh:     make(chan actorCommand, 1),
		done:      make(chan struct{}),
	}
}

// run is the producer event loop. It owns producerState exclusively and is
// the only goroutine that ever touches it.
func (a *actor) run() {
	defer close(a.done)

	var flushTimer *time.Timer
	var flushCh <-chan time.Time
	if a.state.opts.BatchEnabled {
		flushTimer = time.NewTimer(a.state.opts.FlushInterval)
		flushCh = flushTimer.C
		defer flushTimer.Stop()
	}

	refreshTimer := time.NewTimer(a.binder.nextRefresh())
	defer refreshTimer.Stop()

	for {
		select {
		case cmd := <-a.cmdCh:
			switch c := cmd.(type) {
			case cmdPublish:
				a.handlePublish(c)
			case cmdClose:
				a.terminate(nil)
				return
			}

		case <-flushCh:
			a.handleFlush()
			flushTimer.Reset(a.state.opts.FlushInterval)

		case <-refreshTimer.C:
			if !a.handleRefresh() {
				return
			}
			refreshTimer.Reset(a.binder.nextRefresh())

		case <-a.conn.Closed():
			a.terminate(ErrConnectionDown)
			return
		}
	}
}

// handlePublish makes the publish dispatch decision: direct send when
// batching is off or the message is delayed, otherwise queue and drain on
// the size trigger.
func (a *actor) handlePublish(c cmdPublish) {
	now := time.Now()
	msg := buildMessage(&a.state, c.payload, c.opts, now)
	a.state.lastSequenceID = msg.SequenceID

	if !a.state.opts.BatchEnabled || msg.Delayed() {
		a.dispatchSingle(msg, c.reply)
		return
	}

	a.state.queue.append(queueEntry{message: msg, reply: c.reply})
	if a.state.queue.len() >= a.state.opts.BatchSize {
		a.dispatchBatch()
	}
}

func (a *actor) dispatchSingle(msg ProducerMessage, reply replyChan) {
	start := time.Now()
	id, err := a.conn.SendMessage(context.Background(), msg)
	if err != nil {
		err = wrapf(ErrSendFailed, "%v", err)
	}
	if reply != nil {
		reply <- publishResult{id: id, err: err}
	}
	a.events.dispatch(&ProducerEvent{
		Type:       EventSingleDispatched,
		Topic:      a.topic,
		Broker:     a.state.broker,
		AccessMode: a.state.accessMode,
		BatchSize:  1,
		Duration:   time.Since(start),
		Err:        err,
	})
}

// dispatchBatch drains the whole queue and issues one SendMessages call;
// the single reply fans out to every non-nil reply channel, independently
// and without blocking the actor.
func (a *actor) dispatchBatch() {
	entries := a.state.queue.drain()
	if len(entries) == 0 {
		return
	}
	msgs := messagesOf(entries)

	start := time.Now()
	id, err := a.conn.SendMessages(context.Background(), msgs)
	if err != nil {
		err = wrapf(ErrSendFailed, "%v", err)
	}

	for _, e := range entries {
		if e.reply == nil {
			continue
		}
		reply := e.reply
		go func() { reply <- publishResult{id: id, err: err} }()
	}

	a.events.dispatch(&ProducerEvent{
		Type:       EventBatchDispatched,
		Topic:      a.topic,
		Broker:     a.state.broker,
		AccessMode: a.state.accessMode,
		BatchSize:  len(entries),
		Duration:   time.Since(start),
		Err:        err,
	})
}

// handleFlush handles the flush tick: dispatch whatever is queued, then
// always let the caller reschedule, guaranteeing a bounded wait for a
// partially filled batch.
func (a *actor) handleFlush() {
	if a.state.queue.len() > 0 {
		a.dispatchBatch()
	}
}

// handleRefresh re-verifies the topic's owning broker and returns false if
// the actor must terminate (lookup failure or broker change).
func (a *actor) handleRefresh() bool {
	res := a.binder.refresh(context.Background(), a.topic)
	if res.err != nil {
		a.events.dispatch(&ProducerEvent{Type: EventRefreshFailed, Topic: a.topic, Broker: a.state.broker, Err: res.err})
		a.terminate(res.err)
		return false
	}
	if res.broker != a.state.broker {
		a.terminate(wrapf(ErrBrokerChanged, "%s: %s -> %s", a.topic, a.state.broker, res.broker))
		return false
	}
	a.events.dispatch(&ProducerEvent{Type: EventRefreshed, Topic: a.topic, Broker: a.state.broker})
	return true
}

// terminate fast-fails every queued entry with ErrClosed in FIFO order,
// then classifies the exit reason. A nil reason is a graceful
// close and exits immediately; any other reason is logged as an error and
// delays exit by TerminationTimeout to back-pressure a supervisor that
// would otherwise recreate this producer in a tight loop.
func (a *actor) terminate(reason error) {
	a.exitErr = reason

	entries := a.state.queue.drain()
	for _, e := range entries {
		if e.reply == nil {
			continue
		}
		e.reply <- publishResult{err: ErrClosed}
	}

	if reason == nil {
		a.logger.Debugw("producer stopped", "topic", a.topicName)
	} else {
		a.logger.Errorw("producer terminating", "topic", a.topicName, "reason", reason, "metric", errorMetric(reason))
		time.Sleep(a.state.opts.TerminationTimeout)
	}

	a.events.dispatch(&ProducerEvent{Type: EventClosed, Topic: a.topic, Broker: a.state.broker, Err: reason})
}
