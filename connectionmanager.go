// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

package partprod

import "context"

// ConnectionLease is a checked-out handle to a pooled Connection. Release
// must be called exactly once, immediately after CreateProducer returns;
// the checkout covers only the create-producer handshake.
type ConnectionLease interface {
	Connection() Connection
	Release()
}

// ConnectionManager pools Connections per broker. GetConnection performs a
// transactional checkout: the caller is expected to call Release on the
// returned lease as soon as it has finished the create-producer handshake,
// not for the life of the producer.
type ConnectionManager interface {
	GetConnection(ctx context.Context, broker Broker) (ConnectionLease, error)
}
