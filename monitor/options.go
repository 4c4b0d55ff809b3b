// File: monitor/options.go
// Package monitor defines functional options for NewWorker.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package monitor

import (
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/momentics/hioload-collator/api"
	"github.com/momentics/hioload-collator/control"
)

// Option customizes a Worker.
type Option func(*Worker)

// WithName labels the worker in logs and debug probes.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Worker) {
		if l != nil {
			w.log = l
		}
	}
}

// WithBackoff bounds the idle wait between empty drains.
func WithBackoff(min, max time.Duration) Option {
	return func(w *Worker) {
		if min > 0 {
			w.minBackoff = min
		}
		if max >= w.minBackoff {
			w.maxBackoff = max
		}
	}
}

// WithSnapshotSize caps the number of records copied per published snapshot.
func WithSnapshotSize(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.snapSize = n
		}
	}
}

// WithSnapshotLogRate limits "connections" log lines to perSecond (burst 1).
// Zero disables them.
func WithSnapshotLogRate(perSecond float64) Option {
	return func(w *Worker) {
		if perSecond <= 0 {
			w.limiter = nil
			return
		}
		w.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithOnSnapshot registers a callback invoked on the worker goroutine with
// every published snapshot. The slice must not be modified.
func WithOnSnapshot(fn func([]api.ConnectionStatus)) Option {
	return func(w *Worker) {
		w.onSnapshot = fn
	}
}

// WithDebugProbes registers a snapshot probe while the worker runs.
func WithDebugProbes(d api.Debug) Option {
	return func(w *Worker) {
		w.debug = d
	}
}

// WithMetrics publishes worker counters.
func WithMetrics(mr *control.MetricsRegistry) Option {
	return func(w *Worker) {
		w.metrics = mr
	}
}
