// File: collator/options.go
// Package collator defines functional options for New.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package collator

import (
	"log/slog"

	"github.com/momentics/hioload-collator/control"
)

// Option customizes collator initialization.
type Option func(*Collator)

// WithName labels the collator in logs and metric keys.
func WithName(name string) Option {
	return func(c *Collator) {
		if name != "" {
			c.name = name
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Collator) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMetrics publishes counters to mr after each drain.
func WithMetrics(mr *control.MetricsRegistry) Option {
	return func(c *Collator) {
		c.metrics = mr
	}
}

// WithMaxBatch caps the number of events applied by one Process call.
// Zero drains until the channel reports no event.
func WithMaxBatch(n int) Option {
	return func(c *Collator) {
		if n >= 0 {
			c.maxBatch = n
		}
	}
}
