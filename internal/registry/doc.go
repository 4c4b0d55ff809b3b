// Package registry
// Author: momentics <momentics@gmail.com>
//
// Connection registry: the per-connection status table maintained by a collator.
// A Registry is a plain state machine driven one event at a time, in delivery order.
// It performs no locking; its owner is the single worker driving the collator.

package registry
