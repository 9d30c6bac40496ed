// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

package partprod

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	minBatchSize              = 1
	defaultBatchSize          = 100
	minFlushInterval          = 100 * time.Millisecond
	defaultFlushInterval      = 100 * time.Millisecond
	minRefreshInterval        = 10 * time.Second
	defaultRefreshInterval    = 60 * time.Second
	maxTerminationTimeout     = 5 * time.Second
	defaultTerminationTimeout = 3 * time.Second
)

// ProducerOptions configures a single partitioned producer. It is supplied
// programmatically per partition, not loaded from the environment; see
// ProcessConfig for the process-scope settings that are.
type ProducerOptions struct {
	BatchEnabled bool

	// BatchSize is floored at 1 regardless of the value supplied.
	BatchSize int

	// FlushInterval is floored at 100ms regardless of the value supplied.
	FlushInterval time.Duration

	// RefreshInterval is floored at 10s regardless of the value supplied.
	RefreshInterval time.Duration

	// TerminationTimeout is capped at 5s regardless of the value supplied;
	// larger values are silently capped, per the documented open question.
	TerminationTimeout time.Duration

	Properties      map[string]string
	CompressionType CompressionType
	HashingScheme   HashingScheme

	// Listeners are registered on the producer's event broadcaster before
	// its actor starts, so they observe every event including the initial
	// bind. Listeners added later via AddEventListener miss events
	// dispatched before registration.
	Listeners []func(*ProducerEvent)
}

// withDefaults returns a copy of o with zero-valued fields replaced by their
// documented defaults, before the floors/ceiling in normalize are applied.
func (o ProducerOptions) withDefaults() ProducerOptions {
	if o.BatchSize == 0 {
		o.BatchSize = defaultBatchSize
	}
	if o.FlushInterval == 0 {
		o.FlushInterval = defaultFlushInterval
	}
	if o.RefreshInterval == 0 {
		o.RefreshInterval = defaultRefreshInterval
	}
	if o.TerminationTimeout == 0 {
		o.TerminationTimeout = defaultTerminationTimeout
	}
	if o.CompressionType == "" {
		o.CompressionType = CompressionNone
	}
	if o.HashingScheme == "" {
		o.HashingScheme = HashingJavaStringHash
	}
	return o
}

// normalize applies the defaults, then the hard floors and ceiling:
// BatchSize >= 1, FlushInterval >= 100ms, RefreshInterval >= 10s,
// TerminationTimeout <= 5s. These are floors, not validation failures:
// out-of-range values are silently clamped.
func (o ProducerOptions) normalize() ProducerOptions {
	o = o.withDefaults()
	if o.BatchSize < minBatchSize {
		o.BatchSize = minBatchSize
	}
	if o.FlushInterval < minFlushInterval {
		o.FlushInterval = minFlushInterval
	}
	if o.RefreshInterval < minRefreshInterval {
		o.RefreshInterval = minRefreshInterval
	}
	if o.TerminationTimeout > maxTerminationTimeout {
		o.TerminationTimeout = maxTerminationTimeout
	}
	return o
}

// validate checks the fields that are rejected outright rather than
// clamped: unrecognized enum values.
func (o ProducerOptions) validate() error {
	if err := validateCompressionType(o.CompressionType); err != nil {
		return err
	}
	if err := validateHashingScheme(o.HashingScheme); err != nil {
		return err
	}
	return nil
}

// ProcessConfig is the process-scope configuration: bootstrap brokers, the
// admin HTTP port, and the ambient stack's own knobs. It is loaded once at
// startup via caarlos0/env struct tags.
type ProcessConfig struct {
	Brokers   []string `env:"PARTPROD_BROKERS,required"`
	AdminPort int      `env:"PARTPROD_ADMIN_PORT,required"`

	LogLevel string `env:"PARTPROD_LOG_LEVEL" envDefault:"info"`

	MetricsPort int `env:"PARTPROD_METRICS_PORT" envDefault:"9090"`

	TracingEndpoint   string  `env:"PARTPROD_TRACING_ENDPOINT" envDefault:""`
	TracingSampleRate float64 `env:"PARTPROD_TRACING_SAMPLE_RATE" envDefault:"0.1"`
}

// LoadProcessConfig parses ProcessConfig from the environment.
func LoadProcessConfig() (ProcessConfig, error) {
	var cfg ProcessConfig
	if err := env.Parse(&cfg); err != nil {
		return ProcessConfig{}, errors.Join(ErrValidation, fmt.Errorf("parsing process config: %w", err))
	}
	if len(cfg.Brokers) == 0 {
		return ProcessConfig{}, errors.Join(ErrValidation, errors.New("at least one broker is required"))
	}
	for _, b := range cfg.Brokers {
		if strings.TrimSpace(b) == "" {
			return ProcessConfig{}, errors.Join(ErrValidation, errors.New("broker list contains an empty entry"))
		}
	}
	return cfg, nil
}
