// File: api/channel.go
// Author: momentics <momentics@gmail.com>
//
// Event channel contracts between a monitored endpoint and its collator.

package api

import "time"

// EventChannel is a non-blocking stream of lifecycle events bound to one endpoint.
type EventChannel interface {
	// TryReceive returns the next event without blocking.
	// ok is false and err nil when nothing is queued; err is set only on failure.
	TryReceive() (ev Event, ok bool, err error)

	// Ready reports whether an event is queued, without consuming it.
	Ready() (bool, error)

	// Close unsubscribes from the endpoint. A second call returns ErrChannelClosed.
	Close() error
}

// Endpoint is a monitored transport object able to hand out event channels.
type Endpoint interface {
	Subscribe() (EventChannel, error)
}

// ReadyWaiter is implemented by channels that can block until an event is queued.
type ReadyWaiter interface {
	WaitReady(timeout time.Duration) (bool, error)
}

// FDer is implemented by channels whose readiness is backed by a pollable descriptor.
type FDer interface {
	FD() int
}
