// Package api
// Author: momentics
//
// Poll-mode contract for components drained by an owning worker.

package api

// Poller is drained by repeated, non-blocking Process calls from one owner.
type Poller interface {
	// Process handles everything currently queued; returns number processed and error.
	Process() (int, error)

	// Close releases the underlying event source.
	Close() error
}

// StatusPoller is a Poller that also answers connection table queries.
type StatusPoller interface {
	Poller

	// ConnectionCount returns the number of tracked records.
	ConnectionCount() int

	// Snapshot copies up to len(dst) records into dst.
	Snapshot(dst []ConnectionStatus) (int, error)
}
