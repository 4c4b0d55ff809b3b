//go:build !linux
// +build !linux

// File: channel/notify_other.go
// Author: momentics <momentics@gmail.com>
//
// Portable readiness notifier for platforms without eventfd.

package channel

import (
	"sync/atomic"
	"time"
)

type chanNotifier struct {
	set  atomic.Bool
	wake chan struct{}
}

func newNotifier() (notifier, error) {
	return &chanNotifier{wake: make(chan struct{}, 1)}, nil
}

func (n *chanNotifier) signal() {
	n.set.Store(true)
	select {
	case n.wake <- struct{}{}:
	default:
	}
}

func (n *chanNotifier) drain() {
	n.set.Store(false)
	select {
	case <-n.wake:
	default:
	}
}

func (n *chanNotifier) ready() (bool, error) {
	return n.set.Load(), nil
}

func (n *chanNotifier) wait(timeout time.Duration) (bool, error) {
	if n.set.Load() || timeout <= 0 {
		return n.set.Load(), nil
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-n.wake:
		// Leave the token for the next waiter; drain removes it.
		select {
		case n.wake <- struct{}{}:
		default:
		}
		return n.set.Load(), nil
	case <-t.C:
		return n.set.Load(), nil
	}
}

func (n *chanNotifier) fd() int {
	return -1
}

func (n *chanNotifier) close() error {
	return nil
}
