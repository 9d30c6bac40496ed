// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

package partprod

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type mockConnection struct {
	mock.Mock
	closed chan struct{}
}

func newMockConnection() *mockConnection {
	return &mockConnection{closed: make(chan struct{})}
}

func (m *mockConnection) CreateProducer(ctx context.Context, topicName string, opts CreateProducerOptions) (CreateProducerReply, error) {
	args := m.Called(ctx, topicName, opts)
	return args.Get(0).(CreateProducerReply), args.Error(1)
}

func (m *mockConnection) SendMessage(ctx context.Context, msg ProducerMessage) (MessageID, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(MessageID), args.Error(1)
}

func (m *mockConnection) SendMessages(ctx context.Context, msgs []ProducerMessage) (MessageID, error) {
	args := m.Called(ctx, msgs)
	return args.Get(0).(MessageID), args.Error(1)
}

func (m *mockConnection) Closed() <-chan struct{} {
	return m.closed
}

var _ Connection = (*mockConnection)(nil)

type mockAdmin struct {
	mock.Mock
}

func (m *mockAdmin) LookupTopic(ctx context.Context, topic Topic) (Broker, error) {
	args := m.Called(ctx, topic)
	return args.Get(0).(Broker), args.Error(1)
}

var _ Admin = (*mockAdmin)(nil)

type mockLease struct {
	conn Connection
}

func (l *mockLease) Connection() Connection { return l.conn }
func (l *mockLease) Release()               {}

type mockConnectionManager struct {
	mock.Mock
}

func (m *mockConnectionManager) GetConnection(ctx context.Context, broker Broker) (ConnectionLease, error) {
	args := m.Called(ctx, broker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return &mockLease{conn: args.Get(0).(Connection)}, args.Error(1)
}

var _ ConnectionManager = (*mockConnectionManager)(nil)
