//go:build linux

package poller

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// Supported reports whether descriptor readiness observation is available
// on this platform.
const Supported = true

// ErrCancelled is returned by WaitRead after Cancel.
var ErrCancelled = errors.New("poller: cancelled")

// Poller watches a single connection descriptor for read readiness.
// Cancellation uses a self pipe so a blocked WaitRead can be interrupted
// without touching the watched descriptor, which the poller never reads.
type Poller struct {
	fd int32

	mu       sync.Mutex
	pipeR    int
	pipeW    int
	released bool
}

// New registers fd for readiness observation.
func New(fd uintptr) (*Poller, error) {
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		return nil, fmt.Errorf("poller: pipe: %w", err)
	}
	return &Poller{fd: int32(fd), pipeR: p[0], pipeW: p[1]}, nil
}

// WaitRead blocks until the descriptor is readable or the poller is
// cancelled. Hangup and error conditions on the descriptor count as
// readable: the receive path owns the descriptor and is the one that must
// observe the closure.
func (p *Poller) WaitRead() error {
	for {
		fds := []unix.PollFd{
			{Fd: p.fd, Events: unix.POLLIN},
			{Fd: int32(p.pipeR), Events: unix.POLLIN},
		}
		n, err := unix.Poll(fds, -1)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return fmt.Errorf("poller: poll: %w", err)
		}
		if n == 0 {
			continue
		}
		if fds[1].Revents != 0 {
			return ErrCancelled
		}
		if fds[0].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 {
			return nil
		}
	}
}

// Cancel unblocks a pending WaitRead. Safe to call at any time, including
// after Release: a released poller ignores it rather than writing to a
// descriptor the kernel may have reused.
func (p *Poller) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return
	}
	_, _ = unix.Write(p.pipeW, []byte{0})
}

// Release frees the cancellation pipe. Call it after the final WaitRead has
// returned, or the registration leaks. Idempotent.
func (p *Poller) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return
	}
	p.released = true
	_ = unix.Close(p.pipeR)
	_ = unix.Close(p.pipeW)
}
