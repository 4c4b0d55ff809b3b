// File: api/events.go
// Package api defines the lifecycle events consumed by the collator.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import "fmt"

// EventKind discriminates Event payloads.
type EventKind uint8

const (
	EventUnknown EventKind = iota
	EventConnected
	EventAccepted
	EventDisconnected
	EventQueueDepthChanged
	EventClosedAll
)

func (k EventKind) String() string {
	switch k {
	case EventConnected:
		return "connected"
	case EventAccepted:
		return "accepted"
	case EventDisconnected:
		return "disconnected"
	case EventQueueDepthChanged:
		return "queue_depth_changed"
	case EventClosedAll:
		return "closed_all"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Valid reports whether k is one of the defined kinds.
func (k EventKind) Valid() bool {
	return k >= EventConnected && k <= EventClosedAll
}

// Event is one lifecycle notification about a monitored endpoint.
// Address is set for connect/accept, Count for queue-depth changes.
type Event struct {
	Kind    EventKind
	ID      ConnectionID
	Address string
	Count   uint64
}

func (e Event) String() string {
	switch e.Kind {
	case EventConnected, EventAccepted:
		return fmt.Sprintf("%s{id=%d addr=%q}", e.Kind, e.ID, e.Address)
	case EventDisconnected:
		return fmt.Sprintf("%s{id=%d}", e.Kind, e.ID)
	case EventQueueDepthChanged:
		return fmt.Sprintf("%s{id=%d count=%d}", e.Kind, e.ID, e.Count)
	default:
		return e.Kind.String() + "{}"
	}
}

// Connected reports a connection this endpoint initiated.
func Connected(id ConnectionID, addr string) Event {
	return Event{Kind: EventConnected, ID: id, Address: addr}
}

// Accepted reports a connection a peer initiated.
func Accepted(id ConnectionID, addr string) Event {
	return Event{Kind: EventAccepted, ID: id, Address: addr}
}

// Disconnected reports a lost connection.
func Disconnected(id ConnectionID) Event {
	return Event{Kind: EventDisconnected, ID: id}
}

// QueueDepthChanged reports the number of messages queued for a connection.
func QueueDepthChanged(id ConnectionID, count uint64) Event {
	return Event{Kind: EventQueueDepthChanged, ID: id, Count: count}
}

// ClosedAll reports that the endpoint itself has shut down.
func ClosedAll() Event {
	return Event{Kind: EventClosedAll}
}
