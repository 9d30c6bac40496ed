// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

package partprod

import (
	"time"

	"github.com/xmidt-org/eventor"
)

// EventType enumerates the lifecycle transitions a ProducerEvent reports.
type EventType int

const (
	EventBound EventType = iota
	EventBatchDispatched
	EventSingleDispatched
	EventRefreshed
	EventRefreshFailed
	EventClosed
)

func (t EventType) String() string {
	switch t {
	case EventBound:
		return "bound"
	case EventBatchDispatched:
		return "batch_dispatched"
	case EventSingleDispatched:
		return "single_dispatched"
	case EventRefreshed:
		return "refreshed"
	case EventRefreshFailed:
		return "refresh_failed"
	case EventClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ProducerEvent is broadcast to every registered listener on a lifecycle
// transition. It carries enough context for a metrics or tracing decorator
// to record the transition without reaching back into actor internals.
type ProducerEvent struct {
	Type       EventType
	Topic      Topic
	Broker     Broker
	AccessMode AccessMode
	BatchSize  int
	Duration   time.Duration
	Err        error
}

// eventBroadcaster fans a ProducerEvent out to every registered listener.
// It is a thin wrapper over eventor.Eventor so producer.go and actor.go
// don't need to know the broadcaster's concrete type.
type eventBroadcaster struct {
	listeners eventor.Eventor[func(*ProducerEvent)]
}

// AddEventListener registers fn to be called on every ProducerEvent and
// returns a function that removes it.
func (b *eventBroadcaster) AddEventListener(fn func(*ProducerEvent)) func() {
	return b.listeners.Add(fn)
}

func (b *eventBroadcaster) dispatch(ev *ProducerEvent) {
	b.listeners.Visit(func(fn func(*ProducerEvent)) {
		fn(ev)
	})
}
