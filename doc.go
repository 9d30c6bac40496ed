// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

// Package partprod implements the partitioned producer core of a Pulsar-style
// client: one long-lived actor per topic partition that accepts publish
// requests, optionally batches them, dispatches them on a shared broker
// Connection, and keeps its topic-to-broker binding fresh.
//
// # Quick Start
//
//	client, err := partprod.NewClient(partprod.ClientConfig{
//		Admin:             admin,
//		ConnectionManager: connManager,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close(context.Background())
//
//	producer, err := client.NewProducer(ctx, partprod.Topic{
//		Tenant: "public", Namespace: "default", Name: "events", Partition: 3,
//	}, partprod.ProducerOptions{
//		BatchEnabled: true,
//		BatchSize:    100,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	id, err := producer.Send(ctx, []byte("hello"), partprod.MessageOptions{})
//
// # Batching
//
// When ProducerOptions.BatchEnabled is set, publishes are queued and
// dispatched together once BatchSize entries accumulate or FlushInterval
// elapses, whichever comes first. Messages carrying a DeliverAt or Delay
// always bypass the queue and are sent individually.
//
// # Broker Rebinding
//
// The producer periodically re-verifies its topic's owning broker. A broker
// change is treated as fatal: the actor exits and the owning Client
// recreates the producer through a fresh lookup against the new broker.
//
// # Observability
//
// Register a ProducerEvent listener with AddEventListener to observe
// lifecycle transitions without coupling to the actor internals; supply it
// via ProducerOptions.Listeners to also catch the initial bind event.
// NewMetricsEventListener returns such a listener. The MetricsProducer and
// TracedProducer decorators work differently: they wrap a ProducerAPI and
// observe its Send, SendAsync and Close calls.
//
// # Thread Safety
//
// A *Producer is safe for concurrent use by multiple goroutines. Internally
// all ProducerState mutation happens on a single actor goroutine; no field
// of ProducerState is ever touched from outside that goroutine.
package partprod
