// File: channel/notify.go
// Author: momentics <momentics@gmail.com>
//
// Readiness signalling shared by the platform notifiers.

package channel

import "time"

// notifier mirrors "queue is non-empty" for probes and blocking waits.
// signal and drain are called with the queue lock held.
type notifier interface {
	signal()
	drain()
	ready() (bool, error)
	wait(timeout time.Duration) (bool, error)
	fd() int
	close() error
}
