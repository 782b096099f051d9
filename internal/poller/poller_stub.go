//go:build !linux

package poller

import "errors"

// Supported reports whether descriptor readiness observation is available
// on this platform.
const Supported = false

// ErrCancelled is returned by WaitRead after Cancel.
var ErrCancelled = errors.New("poller: cancelled")

// ErrUnsupported is returned by New on platforms without poll support.
// Legacy hosts cannot be bridged there; bindings advertise the absence
// through the environment registry.
var ErrUnsupported = errors.New("poller: not supported on this platform")

// Poller is a placeholder on unsupported platforms.
type Poller struct{}

// New always fails.
func New(fd uintptr) (*Poller, error) { return nil, ErrUnsupported }

// WaitRead always fails.
func (p *Poller) WaitRead() error { return ErrUnsupported }

// Cancel is a no-op.
func (p *Poller) Cancel() {}

// Release is a no-op.
func (p *Poller) Release() {}
