// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

package partprod

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/sync/singleflight"
)

// binding is the result of a successful broker lookup + producer creation,
// everything the actor needs to start multiplexing over a Connection.
type binding struct {
	broker Broker
	reply  CreateProducerReply
	conn   Connection
}

// brokerBinder resolves and periodically re-verifies a topic's owning
// broker. A single brokerBinder is owned by one producer actor; the
// singleflight group is shared across all binders constructed from the same
// Client so that overlapping start/refresh lookups for the same topic
// collapse into one HTTP round trip instead of stampeding Admin.
type brokerBinder struct {
	admin   Admin
	connMgr ConnectionManager
	group   *singleflight.Group

	topic           string
	refreshInterval time.Duration

	rand *rand.Rand
}

func newBrokerBinder(admin Admin, connMgr ConnectionManager, group *singleflight.Group, topic Topic, refreshInterval time.Duration) *brokerBinder {
	return &brokerBinder{
		admin:           admin,
		connMgr:         connMgr,
		group:           group,
		topic:           topic.String(),
		refreshInterval: refreshInterval,
		rand:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// bind resolves topic to a broker, checks out a connection, and creates the
// producer on it. The lease is released immediately after CreateProducer
// returns; the returned binding carries the live Connection, not the lease.
func (bb *brokerBinder) bind(ctx context.Context, topic Topic, topicName string, opts CreateProducerOptions) (binding, error) {
	broker, err := bb.lookup(ctx, topic)
	if err != nil {
		return binding{}, wrapf(ErrLookupFailed, "%s: %v", topic, err)
	}

	lease, err := bb.connMgr.GetConnection(ctx, broker)
	if err != nil {
		return binding{}, wrapf(ErrLookupFailed, "getting connection to %s: %v", broker, err)
	}
	conn := lease.Connection()

	reply, err := conn.CreateProducer(ctx, topicName, opts)
	lease.Release()
	if err != nil {
		return binding{}, wrapf(ErrCreateProducerFailed, "%s: %v", topic, err)
	}

	return binding{broker: broker, reply: reply, conn: conn}, nil
}

// lookup performs a deduplicated Admin.LookupTopic call: concurrent lookups
// for the same topic partition (for example a start racing a refresh) share
// one HTTP round trip. The key is the partition's full name, so different
// partitions of one topic each make their own lookup.
func (bb *brokerBinder) lookup(ctx context.Context, topic Topic) (Broker, error) {
	v, err, _ := bb.group.Do(bb.topic, func() (any, error) {
		return bb.admin.LookupTopic(ctx, topic)
	})
	if err != nil {
		return Broker{}, err
	}
	return v.(Broker), nil
}

// nextRefresh returns the jittered delay until the next refresh tick:
// refreshInterval + uniform(0, refreshInterval). The jitter spreads the
// refresh storm of a large partition fleet.
func (bb *brokerBinder) nextRefresh() time.Duration {
	jitter := time.Duration(bb.rand.Int63n(int64(bb.refreshInterval)))
	return bb.refreshInterval + jitter
}

// refreshResult is fed back into the actor loop after a refresh tick.
type refreshResult struct {
	broker Broker
	err    error
}

// refresh re-runs the topic lookup and reports the observed broker (or
// error) without touching the connection; broker-change detection and the
// fatal/reschedule decision live in the actor, which is the only thing that
// knows the currently-bound broker.
func (bb *brokerBinder) refresh(ctx context.Context, topic Topic) refreshResult {
	broker, err := bb.lookup(ctx, topic)
	if err != nil {
		return refreshResult{err: wrapf(ErrLookupFailed, "refresh %s: %v", topic, err)}
	}
	return refreshResult{broker: broker}
}
