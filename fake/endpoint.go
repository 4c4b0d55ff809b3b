// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake endpoint handing out a single scripted channel.

package fake

import (
	"sync"

	"github.com/momentics/hioload-collator/api"
)

// Endpoint is a fake implementation of api.Endpoint.
type Endpoint struct {
	mu            sync.Mutex
	channel       *Channel
	subscribeErr  error
	subscriptions int
}

var _ api.Endpoint = (*Endpoint)(nil)

// NewEndpoint creates an endpoint whose subscriptions return ch.
func NewEndpoint(ch *Channel) *Endpoint {
	if ch == nil {
		ch = NewChannel()
	}
	return &Endpoint{channel: ch}
}

// SetSubscribeError makes Subscribe fail with err.
func (e *Endpoint) SetSubscribeError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subscribeErr = err
}

// Subscribe implements api.Endpoint.
func (e *Endpoint) Subscribe() (api.EventChannel, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.subscribeErr != nil {
		return nil, e.subscribeErr
	}
	e.subscriptions++
	return e.channel, nil
}

// Channel returns the scripted channel.
func (e *Endpoint) Channel() *Channel {
	return e.channel
}

// Subscriptions returns the number of successful Subscribe calls.
func (e *Endpoint) Subscriptions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.subscriptions
}
