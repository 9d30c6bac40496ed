// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

// Package redisconn is a reference implementation of partprod's Connection,
// Admin and ConnectionManager interfaces backed by Redis Streams. It exists
// to prove those three interfaces are implementable against a real
// transport (not just mocks) and to give the integration test something to
// run testcontainers against; it is not meant to be a production Pulsar
// substitute.
package redisconn

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-redis/redis/v8"
	"github.com/relaycore/partprod"
)

// Connection implements partprod.Connection against a Redis stream: one
// stream per topic, one XADD per message or per batch entry. Every
// CreateProducer call allocates a new producer id from one Redis counter
// shared by all topics, so ids never collide on a shared Connection.
type Connection struct {
	client redis.Cmdable
	addr   string

	producerSeq atomic.Uint64

	mu      sync.Mutex
	topicOf map[uint64]string // producerID -> topic name, populated by CreateProducer

	closed    chan struct{}
	closeOnce sync.Once
}

// NewConnection wraps client as a Connection to the broker at addr. addr is
// kept only for logging/labeling; the live session is the redis client.
func NewConnection(client redis.Cmdable, addr string) *Connection {
	return &Connection{
		client:  client,
		addr:    addr,
		topicOf: make(map[uint64]string),
		closed:  make(chan struct{}),
	}
}

// CreateProducer allocates a producer id from the shared Redis counter.
// There is no handshake to negotiate access mode over a Redis stream, so
// AccessMode is always reported as shared.
func (c *Connection) CreateProducer(ctx context.Context, topicName string, opts partprod.CreateProducerOptions) (partprod.CreateProducerReply, error) {
	id, err := c.client.Incr(ctx, "partprod:producer-seq").Result()
	if err != nil {
		return partprod.CreateProducerReply{}, fmt.Errorf("allocating producer id: %w", err)
	}

	c.mu.Lock()
	c.topicOf[uint64(id)] = topicName
	c.mu.Unlock()

	return partprod.CreateProducerReply{
		ProducerID:     uint64(id),
		ProducerName:   fmt.Sprintf("partprod-%s-%d", topicName, id),
		AccessMode:     partprod.AccessModeShared,
		LastSequenceID: 0,
		MaxMessageSize: 1 << 20,
		Properties:     opts.Properties,
	}, nil
}

// SendMessage XADDs a single message to the topic's stream.
func (c *Connection) SendMessage(ctx context.Context, msg partprod.ProducerMessage) (partprod.MessageID, error) {
	id, err := c.xadd(ctx, msg)
	if err != nil {
		return partprod.MessageID{}, err
	}
	return streamIDToMessageID(id), nil
}

// SendMessages XADDs every message in one pipeline and reports the last
// stream id, matching the "one reply applies to the whole batch" contract.
func (c *Connection) SendMessages(ctx context.Context, msgs []partprod.ProducerMessage) (partprod.MessageID, error) {
	if len(msgs) == 0 {
		return partprod.MessageID{}, nil
	}

	pipe := c.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(msgs))
	for i, m := range msgs {
		values, err := encode(m)
		if err != nil {
			return partprod.MessageID{}, err
		}
		cmds[i] = pipe.XAdd(ctx, &redis.XAddArgs{Stream: c.streamKeyFor(m), Values: values})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return partprod.MessageID{}, fmt.Errorf("pipelined xadd: %w", err)
	}

	return streamIDToMessageID(cmds[len(cmds)-1].Val()), nil
}

func (c *Connection) xadd(ctx context.Context, m partprod.ProducerMessage) (string, error) {
	values, err := encode(m)
	if err != nil {
		return "", err
	}
	id, err := c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.streamKeyFor(m),
		Values: values,
	}).Result()
	if err != nil {
		return "", fmt.Errorf("xadd: %w", err)
	}
	return id, nil
}

func encode(m partprod.ProducerMessage) (map[string]any, error) {
	props, err := json.Marshal(m.Properties)
	if err != nil {
		return nil, fmt.Errorf("marshaling properties: %w", err)
	}
	return map[string]any{
		"producer_id":   m.ProducerID,
		"producer_name": m.ProducerName,
		"sequence_id":   m.SequenceID,
		"payload":       m.Payload,
		"properties":    props,
		"partition_key": m.PartitionKey,
	}, nil
}

// streamKeyFor resolves the stream key for m via the producerID->topic map
// populated by CreateProducer. This is the multiplexing step a real broker
// connection performs internally when it routes a message by producer_id.
func (c *Connection) streamKeyFor(m partprod.ProducerMessage) string {
	c.mu.Lock()
	topic := c.topicOf[m.ProducerID]
	c.mu.Unlock()
	return fmt.Sprintf("partprod:stream:%s", topic)
}

func streamIDToMessageID(streamID string) partprod.MessageID {
	var ledger, entry int64
	fmt.Sscanf(streamID, "%d-%d", &ledger, &entry)
	return partprod.MessageID{LedgerID: ledger, EntryID: entry}
}

// Closed returns a channel closed when MarkClosed is called. Redis has no
// native liveness push and this package runs no health check: nothing here,
// including ConnectionManager, calls MarkClosed, so the channel closes only
// when a caller does.
func (c *Connection) Closed() <-chan struct{} {
	return c.closed
}

// MarkClosed signals liveness loss. Safe to call more than once.
func (c *Connection) MarkClosed() {
	c.closeOnce.Do(func() { close(c.closed) })
}

var _ partprod.Connection = (*Connection)(nil)
