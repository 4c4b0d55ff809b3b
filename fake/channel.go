// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake implementations for testing and development.
// Provides predictable, controllable behavior for the event channel contracts.

package fake

import (
	"sync"

	"github.com/momentics/hioload-collator/api"
)

// Channel is a scripted api.EventChannel.
type Channel struct {
	mu        sync.Mutex
	events    []api.Event
	closed    bool
	recvErr   error
	failAfter int // successful receives left before recvErr; -1 when unset
	readyErr  error
	closeErr  error

	receives   int
	readyCalls int
}

var _ api.EventChannel = (*Channel)(nil)

// NewChannel creates a channel preloaded with events.
func NewChannel(events ...api.Event) *Channel {
	return &Channel{
		events:    append([]api.Event(nil), events...),
		failAfter: -1,
	}
}

// Push appends events to the channel.
func (c *Channel) Push(events ...api.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, events...)
}

// FailAfter makes TryReceive return err once n more events have been delivered.
func (c *Channel) FailAfter(n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failAfter = n
	c.recvErr = err
}

// SetReadyError makes Ready fail with err.
func (c *Channel) SetReadyError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readyErr = err
}

// SetCloseError makes Close fail with err.
func (c *Channel) SetCloseError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeErr = err
}

// TryReceive implements api.EventChannel.
func (c *Channel) TryReceive() (api.Event, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.receives++
	if c.closed {
		return api.Event{}, false, api.ErrChannelClosed
	}
	if c.recvErr != nil && c.failAfter == 0 {
		return api.Event{}, false, c.recvErr
	}
	if len(c.events) == 0 {
		return api.Event{}, false, nil
	}
	ev := c.events[0]
	c.events = c.events[1:]
	if c.failAfter > 0 {
		c.failAfter--
	}
	return ev, true, nil
}

// Ready implements api.EventChannel.
func (c *Channel) Ready() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readyCalls++
	if c.closed {
		return false, api.ErrChannelClosed
	}
	if c.readyErr != nil {
		return false, c.readyErr
	}
	return len(c.events) > 0 || (c.recvErr != nil && c.failAfter == 0), nil
}

// Close implements api.EventChannel.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return api.ErrChannelClosed
	}
	c.closed = true
	return c.closeErr
}

// Pending returns the number of undelivered events.
func (c *Channel) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

// Closed reports whether Close was called.
func (c *Channel) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Receives returns the number of TryReceive calls.
func (c *Channel) Receives() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.receives
}

// ReadyCalls returns the number of Ready calls.
func (c *Channel) ReadyCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readyCalls
}
