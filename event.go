package wsbridge

import (
	"sync"
	"time"
)

// Event is a binary readiness signal shared between the background pump and
// a foreground Wait caller. At most one outstanding observation of "data
// ready or timeout" is meaningful at a time, so the primitive carries no
// counter, only set/clear state.
type Event struct {
	mu    sync.Mutex
	set   bool
	setC  chan struct{} // closed while set
	clrC  chan struct{} // closed while clear
}

// NewEvent returns a cleared event.
func NewEvent() *Event {
	clrC := make(chan struct{})
	close(clrC)
	return &Event{setC: make(chan struct{}), clrC: clrC}
}

// Set signals the event. Setting an already-set event is a no-op.
func (e *Event) Set() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set {
		return
	}
	e.set = true
	close(e.setC)
	e.clrC = make(chan struct{})
}

// Clear resets the event so the next Wait blocks again.
func (e *Event) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.set {
		return
	}
	e.set = false
	close(e.clrC)
	e.setC = make(chan struct{})
}

// Wait blocks until the event is set or timeout elapses and reports whether
// it was set. It does not clear the event.
func (e *Event) Wait(timeout time.Duration) bool {
	e.mu.Lock()
	setC := e.setC
	e.mu.Unlock()

	select {
	case <-setC:
		return true
	default:
	}

	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-setC:
		return true
	case <-t.C:
		return false
	}
}

// cleared returns a channel that is closed while the event is clear. The
// pump parks on it between readiness signals so a readable descriptor does
// not spin the watch loop.
func (e *Event) cleared() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clrC
}
