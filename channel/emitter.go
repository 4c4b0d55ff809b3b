// File: channel/emitter.go
// Package channel
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Endpoint-side fan-out of lifecycle events to subscribed queues.

package channel

import (
	"log/slog"
	"sync"

	"github.com/momentics/hioload-collator/api"
)

// Emitter publishes lifecycle events of one endpoint. It implements api.Endpoint.
type Emitter struct {
	mu       sync.Mutex
	subs     map[uint64]*Queue
	nextID   uint64
	capacity int
	shut     bool
	log      *slog.Logger
}

var _ api.Endpoint = (*Emitter)(nil)

// Option customizes an Emitter.
type Option func(*Emitter)

// WithCapacity bounds every subscription queue.
func WithCapacity(n int) Option {
	return func(e *Emitter) {
		e.capacity = n
	}
}

// WithLogger sets the emitter logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Emitter) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEmitter creates an emitter with no subscribers.
func NewEmitter(opts ...Option) *Emitter {
	e := &Emitter{
		subs:     make(map[uint64]*Queue),
		capacity: DefaultCapacity,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With("component", "emitter")
	return e
}

// Subscribe implements api.Endpoint.
func (e *Emitter) Subscribe() (api.EventChannel, error) {
	q, err := e.SubscribeQueue()
	if err != nil {
		return nil, err
	}
	return q, nil
}

// SubscribeQueue is Subscribe returning the concrete queue.
func (e *Emitter) SubscribeQueue() (*Queue, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.shut {
		return nil, api.ErrEndpointClosed
	}
	q, err := NewQueue(e.capacity)
	if err != nil {
		return nil, err
	}
	e.nextID++
	q.owner = e
	q.id = e.nextID
	e.subs[q.id] = q
	e.log.Debug("subscribed", "subscription", q.id)
	return q, nil
}

func (e *Emitter) unsubscribe(id uint64) {
	e.mu.Lock()
	delete(e.subs, id)
	e.mu.Unlock()
	e.log.Debug("unsubscribed", "subscription", id)
}

// Emit delivers ev to every subscription. Emit calls are serialized, so all
// subscribers observe the same order.
func (e *Emitter) Emit(ev api.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.shut {
		return
	}
	for _, q := range e.subs {
		q.Push(ev)
	}
}

// Connected emits api.Connected.
func (e *Emitter) Connected(id api.ConnectionID, addr string) {
	e.Emit(api.Connected(id, addr))
}

// Accepted emits api.Accepted.
func (e *Emitter) Accepted(id api.ConnectionID, addr string) {
	e.Emit(api.Accepted(id, addr))
}

// Disconnected emits api.Disconnected.
func (e *Emitter) Disconnected(id api.ConnectionID) {
	e.Emit(api.Disconnected(id))
}

// QueueDepth emits api.QueueDepthChanged.
func (e *Emitter) QueueDepth(id api.ConnectionID, n uint64) {
	e.Emit(api.QueueDepthChanged(id, n))
}

// CloseAll emits api.ClosedAll. Subscriptions stay attached.
func (e *Emitter) CloseAll() {
	e.Emit(api.ClosedAll())
}

// Shutdown emits api.ClosedAll and refuses further events and subscriptions.
func (e *Emitter) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.shut {
		return
	}
	for _, q := range e.subs {
		q.Push(api.ClosedAll())
	}
	e.shut = true
}

// Subscribers returns the number of live subscriptions.
func (e *Emitter) Subscribers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs)
}
