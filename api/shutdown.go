// File: api/shutdown.go
// Package api defines unified graceful shutdown contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// GracefulShutdown is implemented by components that own goroutines and
// network resources.
type GracefulShutdown interface {
	// Shutdown stops every internal service and releases its resources.
	// Calling it again is a no-op.
	Shutdown() error
}
