//go:build linux
// +build linux

// File: channel/notify_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux eventfd(2)-based readiness notifier.

package channel

import (
	"encoding/binary"
	"errors"
	"time"

	"golang.org/x/sys/unix"
)

// eventfdNotifier keeps an eventfd readable while the queue holds events.
type eventfdNotifier struct {
	efd int
}

func newNotifier() (notifier, error) {
	efd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &eventfdNotifier{efd: efd}, nil
}

func (n *eventfdNotifier) signal() {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1)
	_, _ = unix.Write(n.efd, buf[:])
}

func (n *eventfdNotifier) drain() {
	var buf [8]byte
	_, _ = unix.Read(n.efd, buf[:])
}

func (n *eventfdNotifier) ready() (bool, error) {
	return n.wait(0)
}

// wait polls the eventfd; a zero timeout is a non-blocking probe.
func (n *eventfdNotifier) wait(timeout time.Duration) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(n.efd), Events: unix.POLLIN}}
	ms := int(timeout / time.Millisecond)
	if timeout > 0 && ms == 0 {
		ms = 1
	}
	cnt, err := unix.Poll(fds, ms)
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return false, nil
		}
		return false, err
	}
	return cnt > 0 && fds[0].Revents&unix.POLLIN != 0, nil
}

func (n *eventfdNotifier) fd() int {
	return n.efd
}

func (n *eventfdNotifier) close() error {
	return unix.Close(n.efd)
}
