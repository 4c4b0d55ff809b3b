// File: internal/session/session.go
// Package session
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Per-connection identity and cancellation.

package session

import (
	"sync"
	"time"

	"github.com/momentics/hioload-collator/api"
)

// Session holds the identity of one connection and its teardown signal.
type Session struct {
	id     api.ConnectionID
	addr   string
	opened time.Time
	done   chan struct{}
	once   sync.Once
}

// New creates a session for id with the peer or dial address addr.
func New(id api.ConnectionID, addr string) *Session {
	return &Session{
		id:     id,
		addr:   addr,
		opened: time.Now(),
		done:   make(chan struct{}),
	}
}

// ID returns the connection id.
func (s *Session) ID() api.ConnectionID {
	return s.id
}

// Addr returns the address reported when the connection was opened.
func (s *Session) Addr() string {
	return s.addr
}

// Opened returns the time the session was created.
func (s *Session) Opened() time.Time {
	return s.opened
}

// Cancel signals teardown. It reports true only for the first call.
func (s *Session) Cancel() bool {
	first := false
	s.once.Do(func() {
		close(s.done)
		first = true
	})
	return first
}

// Done returns a channel closed upon cancellation.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Cancelled reports whether Cancel has been called.
func (s *Session) Cancelled() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
