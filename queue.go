// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

package partprod

// replyChan carries the single result of a publish back to a synchronous
// caller. It is buffered to size 1 so a send from the actor never blocks,
// even if the caller has already given up (context cancelled): the send
// becomes a no-op write into a channel nobody will ever read again, and it
// is garbage collected with the caller's goroutine.
type replyChan chan publishResult

type publishResult struct {
	id  MessageID
	err error
}

// queueEntry pairs a built message with the optional reply channel awaiting
// its outcome. A nil reply channel marks a fire-and-forget entry.
type queueEntry struct {
	message ProducerMessage
	reply   replyChan
}

// batchQueue is a FIFO holding up to batchSize entries, backed by a
// preallocated slice to avoid per-message allocation on the hot path.
// It is never accessed outside the owning actor's goroutine, so it carries
// no synchronization of its own.
type batchQueue struct {
	entries []queueEntry
}

func newBatchQueue(batchSize int) *batchQueue {
	return &batchQueue{entries: make([]queueEntry, 0, batchSize)}
}

func (q *batchQueue) append(e queueEntry) {
	q.entries = append(q.entries, e)
}

func (q *batchQueue) len() int {
	return len(q.entries)
}

// drain returns every queued entry in strict FIFO order and empties the
// queue. The returned slice must be treated as the broker-visible send
// order and never reordered by the caller.
func (q *batchQueue) drain() []queueEntry {
	if len(q.entries) == 0 {
		return nil
	}
	drained := q.entries
	q.entries = make([]queueEntry, 0, cap(q.entries))
	return drained
}

// messagesOf extracts the messages from a drained batch, in the same
// order, for handing to Connection.SendMessages.
func messagesOf(entries []queueEntry) []ProducerMessage {
	msgs := make([]ProducerMessage, len(entries))
	for i, e := range entries {
		msgs[i] = e.message
	}
	return msgs
}
