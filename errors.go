// SPDX-FileCopyrightText: 2026 Relay Core Authors
// SPDX-License-Identifier: Apache-2.0

package partprod

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// taxonomyError is a sentinel error that also carries a metric label and a
// canonical gRPC status code, so a caller embedding this library inside a
// gRPC service can translate a producer failure into wire status without a
// second mapping table.
type taxonomyError struct {
	metric  string
	code    codes.Code
	message string
}

func (e *taxonomyError) Error() string {
	return e.message
}

// Metric returns the short label used to tag this error kind in metrics and
// logs, e.g. "connection_down".
func (e *taxonomyError) Metric() string {
	return e.metric
}

// GRPCStatus implements the interface github.com/grpc's status package looks
// for via status.FromError, letting a gRPC handler propagate this error as
// the correct canonical code without inspecting its message.
func (e *taxonomyError) GRPCStatus() *status.Status {
	return status.New(e.code, e.message)
}

func (e *taxonomyError) Is(target error) bool {
	other, ok := target.(*taxonomyError)
	if !ok {
		return false
	}
	return e.metric == other.metric
}

var (
	// ErrLookupFailed is fatal: the Admin lookup failed at producer start or
	// during a refresh tick.
	ErrLookupFailed = &taxonomyError{metric: "lookup_failed", code: codes.NotFound, message: "topic lookup failed"}

	// ErrCreateProducerFailed is fatal at start: the broker refused producer
	// creation.
	ErrCreateProducerFailed = &taxonomyError{metric: "create_producer_failed", code: codes.Unavailable, message: "broker refused to create producer"}

	// ErrConnectionDown is fatal: the underlying Connection reported loss of
	// liveness. The owning Client restarts the producer.
	ErrConnectionDown = &taxonomyError{metric: "connection_down", code: codes.Unavailable, message: "connection lost"}

	// ErrBrokerChanged is fatal: a refresh observed the topic reassigned to
	// a different broker.
	ErrBrokerChanged = &taxonomyError{metric: "broker_changed", code: codes.FailedPrecondition, message: "topic reassigned to a different broker"}

	// ErrClosed is returned to every synchronous caller still queued when
	// the actor terminates.
	ErrClosed = &taxonomyError{metric: "closed", code: codes.Unavailable, message: "producer closed"}

	// ErrSendFailed wraps a non-fatal failure returned by Connection.Send*;
	// it applies only to the message or batch in flight.
	ErrSendFailed = &taxonomyError{metric: "send_failed", code: codes.Unavailable, message: "send failed"}

	// ErrValidation marks a rejected ProducerOptions or MessageOptions
	// value. It never reaches the actor.
	ErrValidation = &taxonomyError{metric: "validation", code: codes.InvalidArgument, message: "validation failed"}
)

// errorMetric extracts the short metric label for err, or "unknown" if err
// does not originate from this package's taxonomy.
func errorMetric(err error) string {
	var te *taxonomyError
	if errors.As(err, &te) {
		return te.Metric()
	}
	return "unknown"
}

func wrapf(sentinel *taxonomyError, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
