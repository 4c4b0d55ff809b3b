// File: channel/queue.go
// Package channel
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Bounded, non-blocking subscription queue drained by a single collator.

package channel

import (
	"sync"
	"time"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-collator/api"
)

// DefaultCapacity bounds a subscription when no capacity is configured.
const DefaultCapacity = 4096

// Queue is one subscription to an Emitter. It implements api.EventChannel,
// api.ReadyWaiter and api.FDer.
type Queue struct {
	mu       sync.Mutex
	frames   *queue.Queue // of Record
	capacity int
	err      error // sticky failure
	overflow bool  // surfaced as err once the buffered frames are drained
	closed   bool
	note     notifier

	owner *Emitter
	id    uint64
}

var (
	_ api.EventChannel = (*Queue)(nil)
	_ api.ReadyWaiter  = (*Queue)(nil)
	_ api.FDer         = (*Queue)(nil)
)

// NewQueue returns a detached queue. Producers call Push directly.
func NewQueue(capacity int) (*Queue, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	note, err := newNotifier()
	if err != nil {
		return nil, err
	}
	return &Queue{
		frames:   queue.New(),
		capacity: capacity,
		note:     note,
	}, nil
}

// Push encodes ev and appends it. A full queue stops accepting events; the
// consumer still receives what was buffered before the overflow and then
// observes api.ErrChannelOverflow.
func (q *Queue) Push(ev api.Event) {
	rec := EncodeEvent(ev)
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed || q.err != nil || q.overflow {
		return
	}
	if q.frames.Length() >= q.capacity {
		q.overflow = true
		return
	}
	q.frames.Add(rec)
	if q.frames.Length() == 1 {
		q.note.signal()
	}
}

// Fail breaks the queue with err; pending events are discarded.
func (q *Queue) Fail(err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed || q.err != nil {
		return
	}
	q.err = err
	q.frames = queue.New()
	q.note.signal()
}

// TryReceive implements api.EventChannel.
func (q *Queue) TryReceive() (api.Event, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return api.Event{}, false, api.ErrChannelClosed
	}
	if q.err != nil {
		return api.Event{}, false, q.err
	}
	if q.frames.Length() == 0 {
		if q.overflow {
			q.err = api.ErrChannelOverflow
			return api.Event{}, false, q.err
		}
		return api.Event{}, false, nil
	}
	rec := q.frames.Remove().(Record)
	if q.frames.Length() == 0 && !q.overflow {
		q.note.drain()
	}
	ev, err := DecodeEvent(rec[:])
	if err != nil {
		q.err = err
		return api.Event{}, false, err
	}
	return ev, true, nil
}

// Ready implements api.EventChannel. A broken queue reports its failure.
func (q *Queue) Ready() (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false, api.ErrChannelClosed
	}
	if q.err != nil {
		return false, q.err
	}
	if q.frames.Length() == 0 && q.overflow {
		q.err = api.ErrChannelOverflow
		return false, q.err
	}
	return q.note.ready()
}

// WaitReady blocks up to timeout for an event to be queued.
func (q *Queue) WaitReady(timeout time.Duration) (bool, error) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false, api.ErrChannelClosed
	}
	if q.err != nil || q.overflow || q.frames.Length() > 0 {
		q.mu.Unlock()
		return true, nil
	}
	note := q.note
	q.mu.Unlock()
	return note.wait(timeout)
}

// FD returns the readiness descriptor, or -1 where none exists.
func (q *Queue) FD() int {
	return q.note.fd()
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return 0
	}
	return q.frames.Length()
}

// Close implements api.EventChannel and detaches from the emitter.
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return api.ErrChannelClosed
	}
	q.closed = true
	q.frames = nil
	q.mu.Unlock()

	if q.owner != nil {
		q.owner.unsubscribe(q.id)
	}
	return q.note.close()
}
