// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

package partprod

import "context"

// CreateProducerReply is the broker's response to Connection.CreateProducer.
type CreateProducerReply struct {
	Topic          Topic
	ProducerID     uint64
	ProducerName   string
	AccessMode     AccessMode
	LastSequenceID uint64
	MaxMessageSize int
	Properties     map[string]string
}

// CreateProducerOptions carries the opaque producer-construction fields the
// actor forwards to the broker verbatim; it does not interpret them beyond
// the validation in config.go.
type CreateProducerOptions struct {
	Properties      map[string]string
	CompressionType CompressionType
	HashingScheme   HashingScheme
}

// Connection is the multiplexed transport to a single broker, shared across
// many producers keyed internally by ProducerID. Its implementation (wire
// codec, TCP session, liveness detection) is out of scope for this package;
// internal/redisconn supplies a concrete reference implementation.
type Connection interface {
	// CreateProducer registers a new producer on this connection for
	// topicName and returns the broker's assignment.
	CreateProducer(ctx context.Context, topicName string, opts CreateProducerOptions) (CreateProducerReply, error)

	// SendMessage dispatches a single message and waits for the broker's
	// acknowledgement.
	SendMessage(ctx context.Context, msg ProducerMessage) (MessageID, error)

	// SendMessages dispatches a batch in one round trip; the single
	// returned MessageID/error applies to every entry in msgs.
	SendMessages(ctx context.Context, msgs []ProducerMessage) (MessageID, error)

	// Closed is closed when this connection's liveness is lost, or when
	// the broker asks its producers to close. Callers must treat a closed
	// channel as a one-shot signal; it is never reset.
	Closed() <-chan struct{}
}
