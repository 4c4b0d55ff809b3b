// File: collator/collator.go
// Package collator
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Event collator: drains an endpoint's event channel into a connection registry.

package collator

import (
	"fmt"
	"log/slog"

	"github.com/momentics/hioload-collator/api"
	"github.com/momentics/hioload-collator/control"
	"github.com/momentics/hioload-collator/internal/registry"
)

// Collator tracks the connections of one endpoint. It is always bound to
// its endpoint; construct it with New.
type Collator struct {
	name     string
	ch       api.EventChannel
	reg      *registry.Registry
	maxBatch int
	failed   error
	closed   bool
	stats    Stats

	log     *slog.Logger
	metrics *control.MetricsRegistry
}

var _ api.StatusPoller = (*Collator)(nil)

// New subscribes to ep and returns a collator bound to it. If the
// subscription fails no collator is returned.
func New(ep api.Endpoint, opts ...Option) (*Collator, error) {
	if ep == nil {
		return nil, fmt.Errorf("collator: nil endpoint: %w", api.ErrInvalidArgument)
	}
	c := &Collator{
		name: "default",
		reg:  registry.New(),
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "collator", "collator", c.name)

	ch, err := ep.Subscribe()
	if err != nil {
		return nil, fmt.Errorf("collator %s: subscribe: %w", c.name, err)
	}
	if ch == nil {
		return nil, fmt.Errorf("collator %s: subscribe returned no channel: %w", c.name, api.ErrInvalidArgument)
	}
	c.ch = ch
	c.log.Debug("subscribed to endpoint")
	return c, nil
}

// Name returns the collator label.
func (c *Collator) Name() string {
	return c.name
}

// Process drains every event currently queued on the channel, applies them in
// delivery order and returns how many were applied. An empty channel yields 0
// and no error. A channel failure is returned wrapped in api.ErrChannelFailure
// together with the number of events applied before it; the collator then
// refuses further processing and must be closed.
func (c *Collator) Process() (int, error) {
	if c.closed {
		return 0, api.ErrCollatorClosed
	}
	if c.failed != nil {
		return 0, c.failed
	}

	ready, err := c.ch.Ready()
	if err != nil {
		return 0, c.fail(err)
	}
	if !ready {
		return 0, nil
	}

	n := 0
	for c.maxBatch == 0 || n < c.maxBatch {
		ev, ok, err := c.ch.TryReceive()
		if err != nil {
			c.publish(n)
			return n, c.fail(err)
		}
		if !ok {
			break
		}
		c.apply(ev)
		n++
	}
	c.publish(n)
	return n, nil
}

func (c *Collator) apply(ev api.Event) {
	t := c.reg.Apply(ev)
	c.stats.record(ev.Kind, t)
	if t == registry.TransitionIgnored {
		c.log.Debug("event ignored", "event", ev.String())
	}
}

func (c *Collator) fail(cause error) error {
	c.failed = api.ChannelFailure(cause)
	c.log.Error("event channel failed", "error", cause)
	return c.failed
}

func (c *Collator) publish(n int) {
	if n == 0 {
		return
	}
	c.stats.Drains++
	if c.metrics == nil {
		return
	}
	prefix := "collator." + c.name + "."
	c.metrics.SetMany(map[string]any{
		prefix + "events":      c.stats.Processed,
		prefix + "ignored":     c.stats.Ignored,
		prefix + "connections": c.reg.Len(),
		prefix + "connected":   c.reg.Connected(),
	})
}

// ConnectionCount returns the number of records, connected or disconnected.
func (c *Collator) ConnectionCount() int {
	return c.reg.Len()
}

// Snapshot copies up to len(dst) records into dst, in ascending id order, and
// returns how many were copied. An empty dst is a caller error.
func (c *Collator) Snapshot(dst []api.ConnectionStatus) (int, error) {
	if c.closed {
		return 0, api.ErrCollatorClosed
	}
	if len(dst) == 0 {
		return 0, fmt.Errorf("collator %s: snapshot into empty buffer: %w", c.name, api.ErrInvalidArgument)
	}
	return c.reg.CopyTo(dst), nil
}

// Connections returns a copy of every record.
func (c *Collator) Connections() []api.ConnectionStatus {
	out := make([]api.ConnectionStatus, c.reg.Len())
	n := c.reg.CopyTo(out)
	return out[:n]
}

// Status returns the record for id.
func (c *Collator) Status(id api.ConnectionID) (api.ConnectionStatus, bool) {
	return c.reg.Get(id)
}

// Stats returns the event counters.
func (c *Collator) Stats() Stats {
	return c.stats
}

// Err returns the channel failure that stopped the collator, if any.
func (c *Collator) Err() error {
	return c.failed
}

// FD returns the descriptor that becomes readable when events are queued,
// or -1 if the channel has none.
func (c *Collator) FD() int {
	if f, ok := c.ch.(api.FDer); ok {
		return f.FD()
	}
	return -1
}

// ReadyWaiter returns the channel's blocking readiness wait, or nil if the
// channel cannot block.
func (c *Collator) ReadyWaiter() api.ReadyWaiter {
	if w, ok := c.ch.(api.ReadyWaiter); ok {
		return w
	}
	return nil
}

// Close unsubscribes from the endpoint and drops the registry. Closing twice
// returns api.ErrCollatorClosed.
func (c *Collator) Close() error {
	if c.closed {
		return api.ErrCollatorClosed
	}
	c.closed = true
	c.reg.Reset()
	if err := c.ch.Close(); err != nil {
		c.log.Warn("unsubscribe failed", "error", err)
		return fmt.Errorf("collator %s: unsubscribe: %w", c.name, err)
	}
	c.log.Debug("closed", "events", c.stats.Processed)
	return nil
}
