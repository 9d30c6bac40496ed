// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

package partprod

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestTaxonomyErrorIsMatchesSentinel(t *testing.T) {
	wrapped := wrapf(ErrConnectionDown, "broker-1 went away")
	assert.True(t, errors.Is(wrapped, ErrConnectionDown))
	assert.False(t, errors.Is(wrapped, ErrBrokerChanged))
}

func TestTaxonomyErrorGRPCStatus(t *testing.T) {
	st, ok := status.FromError(ErrConnectionDown)
	assert.True(t, ok)
	assert.Equal(t, codes.Unavailable, st.Code())
}

func TestErrorMetricUnknownForForeignError(t *testing.T) {
	assert.Equal(t, "unknown", errorMetric(fmt.Errorf("boom")))
	assert.Equal(t, "unknown", errorMetric(nil))
	assert.Equal(t, "connection_down", errorMetric(wrapf(ErrConnectionDown, "x")))
}
