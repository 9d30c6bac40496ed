// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

package partprod

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/singleflight"
)

// ClientConfig configures a Client.
type ClientConfig struct {
	Admin             Admin
	ConnectionManager ConnectionManager
	Logger            Logger

	// LookupConcurrency bounds how many Admin lookups the Client will run
	// at once when asked to create many partitions together
	// (StartPartitions). Restarts after a fatal exit do not go through this
	// bound. Default 8.
	LookupConcurrency int
}

// Client is the supervisor layer above the per-partition actors: it owns
// one Producer per partition, dials Admin/ConnectionManager on their
// behalf, and restarts a producer whose actor exits with a fatal reason
// (connection lost, broker reassigned) by rebinding it against a fresh
// lookup. A gracefully closed producer is deregistered, never restarted.
type Client struct {
	admin   Admin
	connMgr ConnectionManager
	logger  Logger
	group   singleflight.Group

	lookupPool *ants.Pool

	mu        sync.Mutex
	producers map[string]*Producer
	closed    bool
}

// NewClient constructs a Client. The returned Client owns a bounded worker
// pool (ants) used only for fanning out concurrent Admin lookups; it does
// not pool actor goroutines, which live for the lifetime of their producer.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Admin == nil || cfg.ConnectionManager == nil {
		return nil, errJoinValidation("Admin and ConnectionManager are required")
	}
	if cfg.LookupConcurrency <= 0 {
		cfg.LookupConcurrency = 8
	}
	if cfg.Logger == nil {
		cfg.Logger = nopLogger{}
	}

	pool, err := ants.NewPool(cfg.LookupConcurrency)
	if err != nil {
		return nil, fmt.Errorf("creating lookup worker pool: %w", err)
	}

	return &Client{
		admin:      cfg.Admin,
		connMgr:    cfg.ConnectionManager,
		logger:     cfg.Logger,
		lookupPool: pool,
		producers:  make(map[string]*Producer),
	}, nil
}

// NewProducer creates and starts a producer actor for topic, registers it
// for restart supervision, and returns its handle.
func (c *Client) NewProducer(ctx context.Context, topic Topic, opts ProducerOptions) (*Producer, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.mu.Unlock()

	p, err := newProducer(ctx, c.admin, c.connMgr, &c.group, topic, opts, c.logger)
	if err != nil {
		return nil, err
	}

	key := topic.String()
	c.mu.Lock()
	c.producers[key] = p
	c.mu.Unlock()

	go c.supervise(key, topic, opts, p)

	return p, nil
}

// StartPartitions creates producers for every topic in topics concurrently,
// bounded by the Client's lookup worker pool, and returns them in the same
// order as topics. A failure for one partition does not cancel the others;
// its slot in the result carries the error via the returned error slice.
func (c *Client) StartPartitions(ctx context.Context, topics []Topic, opts ProducerOptions) ([]*Producer, []error) {
	producers := make([]*Producer, len(topics))
	errs := make([]error, len(topics))

	var wg sync.WaitGroup
	wg.Add(len(topics))
	for i, topic := range topics {
		i, topic := i, topic
		submitErr := c.lookupPool.Submit(func() {
			defer wg.Done()
			p, err := c.NewProducer(ctx, topic, opts)
			producers[i] = p
			errs[i] = err
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = fmt.Errorf("submitting lookup for %s: %w", topic, submitErr)
		}
	}
	wg.Wait()

	return producers, errs
}

// supervise waits for p's actor to exit and classifies the exit. A graceful
// close only deregisters the producer. A fatal exit recreates it through a
// fresh Admin lookup, so a connection loss or broker reassignment rebinds
// against whichever broker owns the topic now. The restart is naturally
// back-pressured: a fatally exiting actor sleeps its TerminationTimeout
// before Done closes, so a broker that keeps rejecting the producer is
// retried at most once per timeout. Supervision stops when a rebind itself
// fails or the Client has been closed.
func (c *Client) supervise(key string, topic Topic, opts ProducerOptions, p *Producer) {
	for {
		<-p.Done()
		reason := p.exitReason()

		c.mu.Lock()
		if c.producers[key] == p {
			delete(c.producers, key)
		}
		closed := c.closed
		c.mu.Unlock()

		if closed || reason == nil {
			return
		}

		c.logger.Infow("restarting producer", "topic", key, "reason", reason)
		np, err := newProducer(context.Background(), c.admin, c.connMgr, &c.group, topic, opts, c.logger)
		if err != nil {
			c.logger.Errorw("producer restart failed", "topic", key, "error", err)
			return
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			_ = np.Close(context.Background())
			return
		}
		c.producers[key] = np
		c.mu.Unlock()

		p = np
	}
}

// Producer returns the currently registered producer for topic, if any.
func (c *Client) Producer(topic Topic) (*Producer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.producers[topic.String()]
	return p, ok
}

// Close closes every registered producer and releases the lookup pool.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	producers := make([]*Producer, 0, len(c.producers))
	for _, p := range c.producers {
		producers = append(producers, p)
	}
	c.mu.Unlock()

	var firstErr error
	for _, p := range producers {
		if err := p.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.lookupPool.Release()
	return firstErr
}

func errJoinValidation(msg string) error {
	return wrapf(ErrValidation, "%s", msg)
}
