// File: facade/monitor.go
// Unified facade for a monitored websocket endpoint.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Monitor aggregates the websocket endpoint, the collator subscribed to it,
// the worker driving that collator and the control registries behind a single
// Start/Wait/Shutdown lifecycle.

package facade

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/momentics/hioload-collator/api"
	"github.com/momentics/hioload-collator/collator"
	"github.com/momentics/hioload-collator/control"
	"github.com/momentics/hioload-collator/endpoint/wsendpoint"
	"github.com/momentics/hioload-collator/internal/logger"
	"github.com/momentics/hioload-collator/monitor"
)

// ErrAlreadyStarted is returned by a second Start.
var ErrAlreadyStarted = errors.New("facade: monitor already started")

// Option customizes a Monitor.
type Option func(*Monitor)

// WithLogger replaces the logger built from Config.
func WithLogger(l *slog.Logger) Option {
	return func(m *Monitor) {
		if l != nil {
			m.log = l
		}
	}
}

// WithOnSnapshot forwards every published snapshot to fn.
func WithOnSnapshot(fn func([]api.ConnectionStatus)) Option {
	return func(m *Monitor) {
		m.onSnapshot = fn
	}
}

// Monitor is the main facade type.
type Monitor struct {
	cfg        *Config
	log        *slog.Logger
	onSnapshot func([]api.ConnectionStatus)

	ep      *wsendpoint.Endpoint
	worker  *monitor.Worker
	metrics *control.MetricsRegistry
	debug   *control.DebugProbes

	mu       sync.Mutex
	group    *monitor.Group
	started  bool
	shutdown bool
}

var _ api.GracefulShutdown = (*Monitor)(nil)

// New builds the endpoint, subscribes a collator to it and prepares the
// worker. Nothing listens until Start.
func New(cfg *Config, opts ...Option) (*Monitor, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Monitor{cfg: cfg}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = logger.New(cfg.LogLevel, cfg.LogFormat).Logger
	}
	if cfg.EnableMetrics {
		m.metrics = control.NewMetricsRegistry()
	}
	if cfg.EnableDebug {
		m.debug = control.NewDebugProbes()
		control.RegisterPlatformProbes(m.debug)
	}

	epOpts := []wsendpoint.Option{
		wsendpoint.WithPath(cfg.Path),
		wsendpoint.WithOutboundQueue(cfg.OutboundQueue),
		wsendpoint.WithEventCapacity(cfg.EventCapacity),
		wsendpoint.WithWriteTimeout(cfg.WriteTimeout),
		wsendpoint.WithLogger(m.log),
	}
	if cfg.Echo {
		epOpts = append(epOpts, wsendpoint.WithMessageHandler(func(id api.ConnectionID, msg []byte) {
			if err := m.ep.Send(id, msg); err != nil {
				m.log.Debug("echo", "id", id, "error", err)
			}
		}))
	}
	m.ep = wsendpoint.New(epOpts...)

	colOpts := []collator.Option{
		collator.WithName("server"),
		collator.WithLogger(m.log),
		collator.WithMaxBatch(cfg.MaxBatch),
	}
	if m.metrics != nil {
		colOpts = append(colOpts, collator.WithMetrics(m.metrics))
	}
	col, err := collator.New(m.ep, colOpts...)
	if err != nil {
		_ = m.ep.Close()
		return nil, fmt.Errorf("facade: %w", err)
	}

	wOpts := []monitor.Option{
		monitor.WithName("server"),
		monitor.WithLogger(m.log),
		monitor.WithBackoff(cfg.MinBackoff, cfg.MaxBackoff),
		monitor.WithSnapshotSize(cfg.SnapshotSize),
		monitor.WithSnapshotLogRate(cfg.SnapshotLogRate),
	}
	if m.onSnapshot != nil {
		wOpts = append(wOpts, monitor.WithOnSnapshot(m.onSnapshot))
	}
	if m.metrics != nil {
		wOpts = append(wOpts, monitor.WithMetrics(m.metrics))
	}
	if m.debug != nil {
		wOpts = append(wOpts, monitor.WithDebugProbes(m.debug))
	}
	m.worker = monitor.NewWorker(col, wOpts...)
	return m, nil
}

// Start begins listening and runs the worker until ctx ends or Shutdown.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shutdown {
		return api.ErrEndpointClosed
	}
	if m.started {
		return ErrAlreadyStarted
	}
	if err := m.ep.Listen(m.cfg.ListenAddr); err != nil {
		return err
	}
	m.group = monitor.NewGroup(ctx)
	m.group.Go(m.worker)
	m.started = true
	m.log.Info("monitor started", "url", m.ep.URL())
	return nil
}

// Wait blocks until the worker returns and reports its error.
func (m *Monitor) Wait() error {
	m.mu.Lock()
	g := m.group
	m.mu.Unlock()
	if g == nil {
		return nil
	}
	return g.Wait()
}

// Shutdown closes the endpoint, stops the worker and waits for it.
// It is idempotent.
func (m *Monitor) Shutdown() error {
	m.mu.Lock()
	if m.shutdown {
		m.mu.Unlock()
		return nil
	}
	m.shutdown = true
	g := m.group
	m.mu.Unlock()

	err := m.ep.Close()
	if g == nil {
		return err
	}
	g.Stop()
	return errors.Join(err, g.Wait())
}

// Endpoint exposes the websocket endpoint for sending and dialing.
func (m *Monitor) Endpoint() *wsendpoint.Endpoint {
	return m.ep
}

// URL returns the ws:// URL being served, or "" before Start.
func (m *Monitor) URL() string {
	return m.ep.URL()
}

// Connections returns the last published connection records.
func (m *Monitor) Connections() []api.ConnectionStatus {
	return m.worker.Snapshot()
}

// Stats returns runtime counters merged with the metrics registry.
func (m *Monitor) Stats() map[string]any {
	out := map[string]any{
		"events":      m.worker.Events(),
		"records":     m.worker.Connections(),
		"open_conns":  m.ep.Conns(),
		"subscribers": m.ep.Subscribers(),
	}
	if m.metrics != nil {
		for k, v := range m.metrics.GetSnapshot() {
			out[k] = v
		}
	}
	return out
}

// DumpState returns the debug probe values, or nil when debug is disabled.
func (m *Monitor) DumpState() map[string]any {
	if m.debug == nil {
		return nil
	}
	return m.debug.DumpState()
}
