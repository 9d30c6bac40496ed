// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

package redisconn

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/relaycore/partprod"
)

// ConnectionManager implements partprod.ConnectionManager by keeping one
// Connection (and its underlying *redis.Client) per broker address, lazily
// dialed on first checkout. It is the reference counterpart to ntons-redmq's
// embedding of redis.Cmdable directly into its Producer/Consumer types.
type ConnectionManager struct {
	mu    sync.Mutex
	conns map[string]*Connection

	dial func(addr string) redis.Cmdable
}

// NewConnectionManager builds a ConnectionManager that dials a broker
// address with dial. In production this is redis.NewClient; tests supply a
// dial func pointed at a testcontainers-managed instance.
func NewConnectionManager(dial func(addr string) redis.Cmdable) *ConnectionManager {
	return &ConnectionManager{
		conns: make(map[string]*Connection),
		dial:  dial,
	}
}

type lease struct {
	conn *Connection
}

func (l *lease) Connection() partprod.Connection { return l.conn }
func (l *lease) Release()                        {}

// GetConnection returns the shared Connection for broker, dialing it on
// first use. The lease is only a checkout token for the create-producer
// handshake; Release is a no-op here because the underlying redis client is
// safe for concurrent, long-lived use and does not need per-producer
// teardown.
func (m *ConnectionManager) GetConnection(ctx context.Context, broker partprod.Broker) (partprod.ConnectionLease, error) {
	addr := broker.String()

	m.mu.Lock()
	defer m.mu.Unlock()

	conn, ok := m.conns[addr]
	if !ok {
		client := m.dial(addr)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("dialing broker %s: %w", addr, err)
		}
		conn = NewConnection(client, addr)
		m.conns[addr] = conn
	}

	return &lease{conn: conn}, nil
}

var _ partprod.ConnectionManager = (*ConnectionManager)(nil)
