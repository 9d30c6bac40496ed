// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

package redisconn

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/relaycore/partprod"
)

// Admin implements partprod.Admin by reading a topic's owning broker from a
// Redis hash (field per topic), which a real deployment's placement
// controller would populate the way a Pulsar broker's load manager does.
// It also serves as the test harness's way of simulating a broker
// reassignment: the test just HSETs a new value.
type Admin struct {
	client redis.Cmdable
	key    string
}

// NewAdmin builds an Admin reading topic->broker assignments from the hash
// at key (default "partprod:topic-broker" when key is empty).
func NewAdmin(client redis.Cmdable, key string) *Admin {
	if key == "" {
		key = "partprod:topic-broker"
	}
	return &Admin{client: client, key: key}
}

// AssignBroker records topic's owning broker. Exported for tests and for a
// real placement controller to call on rebalance.
func (a *Admin) AssignBroker(ctx context.Context, topic partprod.Topic, broker partprod.Broker) error {
	return a.client.HSet(ctx, a.key, topic.String(), broker.String()).Err()
}

// LookupTopic implements partprod.Admin.
func (a *Admin) LookupTopic(ctx context.Context, topic partprod.Topic) (partprod.Broker, error) {
	val, err := a.client.HGet(ctx, a.key, topic.String()).Result()
	if err == redis.Nil {
		return partprod.Broker{}, fmt.Errorf("no broker assigned for topic %s", topic)
	}
	if err != nil {
		return partprod.Broker{}, fmt.Errorf("looking up topic %s: %w", topic, err)
	}
	return parseBroker(val)
}

func parseBroker(addr string) (partprod.Broker, error) {
	host, portStr, ok := strings.Cut(addr, ":")
	if !ok {
		return partprod.Broker{}, fmt.Errorf("malformed broker address %q", addr)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return partprod.Broker{}, fmt.Errorf("malformed broker port in %q: %w", addr, err)
	}
	return partprod.Broker{Host: host, Port: port}, nil
}

var _ partprod.Admin = (*Admin)(nil)
