// File: internal/registry/registry.go
// Package registry
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Map of open connections with per-event update rules.

package registry

import (
	"slices"

	"github.com/momentics/hioload-collator/api"
)

// Transition reports the effect of applying one event.
type Transition int

const (
	TransitionIgnored Transition = iota
	TransitionCreated
	TransitionReconnected
	TransitionDisconnected
	TransitionQueueUpdated
	TransitionCleared
)

func (t Transition) String() string {
	switch t {
	case TransitionCreated:
		return "created"
	case TransitionReconnected:
		return "reconnected"
	case TransitionDisconnected:
		return "disconnected"
	case TransitionQueueUpdated:
		return "queue_updated"
	case TransitionCleared:
		return "cleared"
	default:
		return "ignored"
	}
}

// Registry maps connection ids to their last known status.
type Registry struct {
	conns map[api.ConnectionID]*api.ConnectionStatus
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{conns: make(map[api.ConnectionID]*api.ConnectionStatus)}
}

// Apply performs the state transition for ev.
func (r *Registry) Apply(ev api.Event) Transition {
	switch ev.Kind {
	case api.EventConnected, api.EventAccepted:
		st, ok := r.conns[ev.ID]
		if !ok {
			r.conns[ev.ID] = &api.ConnectionStatus{
				ID:        ev.ID,
				Address:   api.MakeAddress(ev.Address),
				Connected: true,
			}
			return TransitionCreated
		}
		st.Address = api.MakeAddress(ev.Address)
		st.Connected = true
		st.PendingMessages = 0
		return TransitionReconnected

	case api.EventDisconnected:
		// Stray and repeated disconnects are dropped; the record stays for inspection.
		st, ok := r.conns[ev.ID]
		if !ok || !st.Connected {
			return TransitionIgnored
		}
		st.Connected = false
		return TransitionDisconnected

	case api.EventQueueDepthChanged:
		st, ok := r.conns[ev.ID]
		if !ok {
			return TransitionIgnored
		}
		st.PendingMessages = ev.Count
		return TransitionQueueUpdated

	case api.EventClosedAll:
		clear(r.conns)
		return TransitionCleared
	}
	return TransitionIgnored
}

// Len returns the number of records, connected or not.
func (r *Registry) Len() int {
	return len(r.conns)
}

// Get returns a copy of the record for id.
func (r *Registry) Get(id api.ConnectionID) (api.ConnectionStatus, bool) {
	st, ok := r.conns[id]
	if !ok {
		return api.ConnectionStatus{}, false
	}
	return *st, true
}

// CopyTo copies up to len(dst) records into dst in ascending id order
// and returns how many were copied.
func (r *Registry) CopyTo(dst []api.ConnectionStatus) int {
	if len(dst) == 0 || len(r.conns) == 0 {
		return 0
	}
	ids := make([]api.ConnectionID, 0, len(r.conns))
	for id := range r.conns {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	n := 0
	for _, id := range ids {
		if n == len(dst) {
			break
		}
		dst[n] = *r.conns[id]
		n++
	}
	return n
}

// Connected returns the number of records in the connected state.
func (r *Registry) Connected() int {
	n := 0
	for _, st := range r.conns {
		if st.Connected {
			n++
		}
	}
	return n
}

// Reset drops every record.
func (r *Registry) Reset() {
	clear(r.conns)
}
