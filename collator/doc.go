// Package collator
// Author: momentics <momentics@gmail.com>
//
// The collator drains the lifecycle event channel of one monitored endpoint,
// applies every event to a connection registry and answers point-in-time
// queries about the endpoint's connections.
//
// A Collator has exactly one owner. Process, ConnectionCount, Snapshot, Status
// and Close must all be called from the goroutine that owns it; the package
// does no locking. Observers on other goroutines should read the copies
// published by monitor.Worker instead.
package collator
