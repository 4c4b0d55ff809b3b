// File: monitor/group.go
// Author: momentics <momentics@gmail.com>
//
// One worker per monitored endpoint, stopped together.

package monitor

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Group runs workers on separate goroutines. Workers share nothing; a failing
// worker stops alone and its error is reported by Wait.
type Group struct {
	ctx    context.Context
	cancel context.CancelFunc
	eg     errgroup.Group

	mu      sync.Mutex
	workers []*Worker
}

// NewGroup creates a group bound to ctx.
func NewGroup(ctx context.Context) *Group {
	ctx, cancel := context.WithCancel(ctx)
	return &Group{ctx: ctx, cancel: cancel}
}

// Go starts w.
func (g *Group) Go(w *Worker) {
	g.mu.Lock()
	g.workers = append(g.workers, w)
	g.mu.Unlock()
	g.eg.Go(func() error {
		return w.Run(g.ctx)
	})
}

// Workers returns the started workers.
func (g *Group) Workers() []*Worker {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*Worker(nil), g.workers...)
}

// Stop asks every worker to return.
func (g *Group) Stop() {
	g.cancel()
}

// Wait blocks until every worker has returned and reports the first error.
func (g *Group) Wait() error {
	err := g.eg.Wait()
	g.cancel()
	return err
}
