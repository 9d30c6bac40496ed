// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

package partprod

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchQueueFIFOOrder(t *testing.T) {
	q := newBatchQueue(3)
	for _, p := range []string{"a", "b", "c"} {
		q.append(queueEntry{message: ProducerMessage{Payload: []byte(p)}})
	}

	require.Equal(t, 3, q.len())
	drained := q.drain()
	require.Len(t, drained, 3)
	assert.Equal(t, []byte("a"), drained[0].message.Payload)
	assert.Equal(t, []byte("b"), drained[1].message.Payload)
	assert.Equal(t, []byte("c"), drained[2].message.Payload)
	assert.Equal(t, 0, q.len())
}

func TestBatchQueueDrainEmptyReturnsNil(t *testing.T) {
	q := newBatchQueue(3)
	assert.Nil(t, q.drain())
}

func TestMessagesOfPreservesOrder(t *testing.T) {
	entries := []queueEntry{
		{message: ProducerMessage{SequenceID: 1}},
		{message: ProducerMessage{SequenceID: 2}},
	}
	msgs := messagesOf(entries)
	require.Len(t, msgs, 2)
	assert.Equal(t, uint64(1), msgs[0].SequenceID)
	assert.Equal(t, uint64(2), msgs[1].SequenceID)
}
