// File: collator/stats.go
// Author: momentics <momentics@gmail.com>
//
// Event accounting for a collator.

package collator

import (
	"github.com/momentics/hioload-collator/api"
	"github.com/momentics/hioload-collator/internal/registry"
)

// Stats counts events applied by a collator.
type Stats struct {
	Processed    uint64 // events received and applied, ignored ones included
	Ignored      uint64 // events that changed nothing
	Drains       uint64 // Process calls that applied at least one event
	Connected    uint64
	Accepted     uint64
	Disconnected uint64
	QueueDepth   uint64
	ClosedAll    uint64
}

func (s *Stats) record(kind api.EventKind, t registry.Transition) {
	s.Processed++
	if t == registry.TransitionIgnored {
		s.Ignored++
	}
	switch kind {
	case api.EventConnected:
		s.Connected++
	case api.EventAccepted:
		s.Accepted++
	case api.EventDisconnected:
		s.Disconnected++
	case api.EventQueueDepthChanged:
		s.QueueDepth++
	case api.EventClosedAll:
		s.ClosedAll++
	}
}
