// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

package partprod

import "time"

// MessageID identifies a message once the broker has accepted it. Its
// internal shape is a Connection concern; this package only passes it
// through.
type MessageID struct {
	LedgerID int64
	EntryID  int64
	BatchIdx int32
}

// MessageOptions are the caller-supplied, per-publish options recognised by
// the message builder. Unknown fields simply don't exist in Go, which is
// the equivalent of the "unknown options dropped silently" rule in a
// dynamically-typed source.
type MessageOptions struct {
	Properties   map[string]string
	PartitionKey string
	OrderingKey  []byte
	EventTime    time.Time

	// DeliverAt, if non-zero, routes the message onto the direct-send path
	// even when batching is enabled.
	DeliverAt time.Time

	// Delay is a convenience that computes DeliverAt = now + Delay. If both
	// Delay and DeliverAt are set, Delay wins, matching the documented
	// precedence.
	Delay time.Duration
}

// MessageOption is the ordered, call-site form of MessageOptions: options
// are applied in the order given, so a later option overrides an earlier
// one for the same field. Both forms normalise to the same MessageOptions
// value and produce identical messages.
type MessageOption func(*MessageOptions)

// WithProperties sets the message's application properties.
func WithProperties(p map[string]string) MessageOption {
	return func(o *MessageOptions) { o.Properties = p }
}

// WithPartitionKey sets the key the upstream router hashed to pick this
// partition; it travels with the message for consumer-side grouping.
func WithPartitionKey(k string) MessageOption {
	return func(o *MessageOptions) { o.PartitionKey = k }
}

// WithOrderingKey sets the ordering key.
func WithOrderingKey(k []byte) MessageOption {
	return func(o *MessageOptions) { o.OrderingKey = k }
}

// WithEventTime sets the application-level event timestamp.
func WithEventTime(t time.Time) MessageOption {
	return func(o *MessageOptions) { o.EventTime = t }
}

// WithDeliverAt schedules delivery at an absolute time.
func WithDeliverAt(t time.Time) MessageOption {
	return func(o *MessageOptions) { o.DeliverAt = t }
}

// WithDelay schedules delivery after d; it takes precedence over
// WithDeliverAt when both are supplied.
func WithDelay(d time.Duration) MessageOption {
	return func(o *MessageOptions) { o.Delay = d }
}

// NewMessageOptions folds opts, in order, into a MessageOptions value.
func NewMessageOptions(opts ...MessageOption) MessageOptions {
	var o MessageOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// resolveDeliverAt applies the Delay-wins-over-DeliverAt precedence rule and
// returns the effective delivery time, or the zero Time if the message is
// not delayed.
func (o MessageOptions) resolveDeliverAt(now time.Time) time.Time {
	if o.Delay > 0 {
		return now.Add(o.Delay)
	}
	return o.DeliverAt
}

// ProducerMessage is immutable once constructed. sequenceID is assigned by
// the actor from producerState.lastSequenceID and is unique per producerID
// for the lifetime of the producer.
type ProducerMessage struct {
	ProducerID   uint64
	ProducerName string
	SequenceID   uint64

	Payload []byte

	Properties   map[string]string
	PartitionKey string
	OrderingKey  []byte
	EventTime    time.Time
	DeliverAt    time.Time
}

// Delayed reports whether m must take the direct-send path regardless of
// batching.
func (m ProducerMessage) Delayed() bool {
	return !m.DeliverAt.IsZero()
}

// buildMessage allocates a ProducerMessage from payload and opts against the
// current state, assigning the next sequence id. It performs no I/O and
// never suspends: it is pure given its inputs. The caller is responsible for
// incrementing state.lastSequenceID afterward; buildMessage does not mutate
// state, so only the actor goroutine ever writes producerState, and it does
// so explicitly after calling this.
func buildMessage(state *producerState, payload []byte, opts MessageOptions, now time.Time) ProducerMessage {
	return ProducerMessage{
		ProducerID:   state.producerID,
		ProducerName: state.producerName,
		SequenceID:   state.lastSequenceID + 1,
		Payload:      payload,
		Properties:   opts.Properties,
		PartitionKey: opts.PartitionKey,
		OrderingKey:  opts.OrderingKey,
		EventTime:    opts.EventTime,
		DeliverAt:    opts.resolveDeliverAt(now),
	}
}
