// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

package partprod

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProducerOptionsFloorsAndCeiling(t *testing.T) {
	// batch size >= 1, flush interval >= 100ms, refresh interval >= 10s,
	// termination timeout <= 5s, all silently clamped.
	got := ProducerOptions{
		BatchSize:          0,
		FlushInterval:      time.Millisecond,
		RefreshInterval:    time.Second,
		TerminationTimeout: 10 * time.Second,
	}.normalize()

	assert.Equal(t, defaultBatchSize, got.BatchSize, "zero batch size takes the default, not the floor")
	assert.Equal(t, minFlushInterval, got.FlushInterval)
	assert.Equal(t, minRefreshInterval, got.RefreshInterval)
	assert.Equal(t, maxTerminationTimeout, got.TerminationTimeout)
}

func TestProducerOptionsExplicitBelowFloorIsClamped(t *testing.T) {
	got := ProducerOptions{
		BatchSize:       -1,
		FlushInterval:   50 * time.Millisecond,
		RefreshInterval: 5 * time.Second,
	}.normalize()

	// a negative batch size is not "unset", so withDefaults leaves it
	// alone and normalize floors it.
	assert.Equal(t, minBatchSize, got.BatchSize)
	assert.Equal(t, minFlushInterval, got.FlushInterval)
	assert.Equal(t, minRefreshInterval, got.RefreshInterval)
}

func TestProducerOptionsValidateRejectsUnknownEnum(t *testing.T) {
	opts := ProducerOptions{CompressionType: CompressionType("bogus")}
	assert.Error(t, opts.validate())
}

func TestProducerOptionsDefaultsApplyOnlyToZeroFields(t *testing.T) {
	opts := ProducerOptions{BatchSize: 7}.normalize()
	assert.Equal(t, 7, opts.BatchSize)
	assert.Equal(t, defaultFlushInterval, opts.FlushInterval)
}

func TestLoadProcessConfigRequiresBrokers(t *testing.T) {
	t.Setenv("PARTPROD_ADMIN_PORT", "8080")
	t.Setenv("PARTPROD_BROKERS", "")

	_, err := LoadProcessConfig()
	assert.Error(t, err)
}

func TestLoadProcessConfigParsesBrokerList(t *testing.T) {
	t.Setenv("PARTPROD_BROKERS", "broker-1:6650,broker-2:6650")
	t.Setenv("PARTPROD_ADMIN_PORT", "8080")

	cfg, err := LoadProcessConfig()
	assert.NoError(t, err)
	assert.Equal(t, []string{"broker-1:6650", "broker-2:6650"}, cfg.Brokers)
	assert.Equal(t, 8080, cfg.AdminPort)
	assert.Equal(t, "info", cfg.LogLevel)
}
