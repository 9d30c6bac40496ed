// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

package partprod

import "context"

// Admin is the HTTP broker-lookup service. LookupTopic must be safe to call
// repeatedly and concurrently; the broker binder relies on that to issue it
// both at producer start and on every refresh tick.
type Admin interface {
	LookupTopic(ctx context.Context, topic Topic) (Broker, error)
}
