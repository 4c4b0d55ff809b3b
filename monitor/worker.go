// File: monitor/worker.go
// Package monitor
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Polling worker with adaptive backoff driving one collator.

package monitor

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/momentics/hioload-collator/api"
	"github.com/momentics/hioload-collator/control"
)

// ErrAlreadyRunning is returned when Run is called on a running worker.
var ErrAlreadyRunning = errors.New("monitor: worker already running")

const (
	defaultMinBackoff   = time.Millisecond
	defaultMaxBackoff   = 50 * time.Millisecond
	defaultSnapshotSize = 1024
)

// waitable is implemented by pollers whose channel can block on readiness.
type waitable interface {
	ReadyWaiter() api.ReadyWaiter
}

// Worker owns a collator and drives it until its context ends.
type Worker struct {
	p          api.StatusPoller
	name       string
	minBackoff time.Duration
	maxBackoff time.Duration
	snapSize   int
	onSnapshot func([]api.ConnectionStatus)
	limiter    *rate.Limiter
	debug      api.Debug
	metrics    *control.MetricsRegistry
	log        *slog.Logger

	snap    atomic.Pointer[[]api.ConnectionStatus]
	events  atomic.Uint64
	drains  atomic.Uint64
	records atomic.Int64
	running atomic.Bool
	stopped atomic.Bool
}

// NewWorker creates a worker for p. The worker takes ownership of p: once
// Run returns, p has been closed.
func NewWorker(p api.StatusPoller, opts ...Option) *Worker {
	w := &Worker{
		p:          p,
		name:       "default",
		minBackoff: defaultMinBackoff,
		maxBackoff: defaultMaxBackoff,
		snapSize:   defaultSnapshotSize,
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.With("component", "monitor", "worker", w.name)
	empty := []api.ConnectionStatus{}
	w.snap.Store(&empty)
	return w
}

// Name returns the worker label.
func (w *Worker) Name() string {
	return w.name
}

// Run polls the collator until ctx is done or the collator fails. It returns
// nil on cancellation and the collator's error otherwise. The collator is
// closed before Run returns, so a finished worker cannot run again: a later
// Run returns api.ErrCollatorClosed.
func (w *Worker) Run(ctx context.Context) error {
	if w.stopped.Load() {
		return api.ErrCollatorClosed
	}
	if !w.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	probe := "collator." + w.name + ".snapshot"
	if w.debug != nil {
		w.debug.RegisterProbe(probe, func() any { return w.Snapshot() })
	}
	defer func() {
		w.stopped.Store(true)
		if w.debug != nil {
			w.debug.UnregisterProbe(probe)
		}
		if cerr := w.p.Close(); cerr != nil {
			w.log.Warn("close collator", "error", cerr)
		}
		w.log.Info("worker stopped", "events", w.events.Load())
	}()

	var waiter api.ReadyWaiter
	if wt, ok := w.p.(waitable); ok {
		waiter = wt.ReadyWaiter()
	}
	w.log.Info("worker started", "blocking_wait", waiter != nil)

	buf := make([]api.ConnectionStatus, w.snapSize)
	backoff := w.minBackoff
	for {
		if ctx.Err() != nil {
			return nil
		}
		n, err := w.p.Process()
		if n > 0 {
			w.events.Add(uint64(n))
			w.drains.Add(1)
			w.publish(buf)
		}
		if err != nil {
			w.log.Error("collator failed", "error", err)
			return err
		}
		if n > 0 {
			backoff = w.minBackoff
			continue
		}
		backoff = w.idle(ctx, waiter, backoff)
	}
}

// idle waits for the next event and returns the next backoff.
func (w *Worker) idle(ctx context.Context, waiter api.ReadyWaiter, backoff time.Duration) time.Duration {
	if waiter != nil {
		// Bounded so cancellation is observed within maxBackoff. A broken
		// channel is reported by the next Process.
		_, _ = waiter.WaitReady(w.maxBackoff)
		return w.minBackoff
	}
	t := time.NewTimer(backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
	next := backoff * 2
	if next > w.maxBackoff {
		next = w.maxBackoff
	}
	return next
}

func (w *Worker) publish(buf []api.ConnectionStatus) {
	total := w.p.ConnectionCount()
	n, err := w.p.Snapshot(buf)
	if err != nil {
		w.log.Warn("snapshot", "error", err)
		return
	}
	out := slices.Clone(buf[:n])
	w.snap.Store(&out)
	w.records.Store(int64(total))

	if w.metrics != nil {
		prefix := "monitor." + w.name + "."
		w.metrics.SetMany(map[string]any{
			prefix + "events": w.events.Load(),
			prefix + "drains": w.drains.Load(),
		})
	}
	if w.onSnapshot != nil {
		w.onSnapshot(out)
	}
	if w.limiter != nil && w.limiter.Allow() {
		w.log.Info("connections",
			"records", total,
			"connected", countConnected(out),
			"pending", sumPending(out),
			"events", w.events.Load())
	}
}

// Snapshot returns the last published records. Safe from any goroutine.
func (w *Worker) Snapshot() []api.ConnectionStatus {
	return slices.Clone(*w.snap.Load())
}

// Connections returns the record count at the last publish.
func (w *Worker) Connections() int {
	return int(w.records.Load())
}

// Events returns the number of events applied so far.
func (w *Worker) Events() uint64 {
	return w.events.Load()
}

// Running reports whether Run is active.
func (w *Worker) Running() bool {
	return w.running.Load() && !w.stopped.Load()
}

func countConnected(recs []api.ConnectionStatus) int {
	n := 0
	for _, r := range recs {
		if r.Connected {
			n++
		}
	}
	return n
}

func sumPending(recs []api.ConnectionStatus) uint64 {
	var total uint64
	for _, r := range recs {
		total += r.PendingMessages
	}
	return total
}
