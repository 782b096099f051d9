package wsbridge

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hostbridge/wsbridge/internal/outqueue"
)

var (
	// ErrClosed is the closed sentinel returned by Wait once the
	// connection has terminated. Receive failures on a torn-down
	// connection are an expected condition and convert to it rather than
	// propagating.
	ErrClosed = errors.New("wsbridge: connection closed")

	// ErrNotWebSocket is returned by bindings when the hosting call is
	// made outside a properly upgraded WebSocket request context. Fatal
	// to the connection attempt, never retried.
	ErrNotWebSocket = errors.New("wsbridge: request is not a websocket upgrade")

	// ErrUnsupportedHost is returned by New for a host that is neither a
	// TokenHost nor a LegacyHost.
	ErrUnsupportedHost = errors.New("wsbridge: unsupported host type")

	// ErrQueueEmpty marks the end of an outbound queue drain pass. It is
	// a loop-termination condition, not a failure.
	ErrQueueEmpty = outqueue.ErrEmpty
)

// Options configures an Adapter. The zero value is ready to use.
type Options struct {
	// Logger receives pump lifecycle events and recovered receive errors
	// at debug level. Defaults to a no-op logger.
	Logger *zerolog.Logger

	// HeartbeatInterval bounds how long a compatibility-mode Wait stays
	// suspended on the readiness event before rechecking the connection,
	// so the host is never starved of its keepalive processing by
	// application idleness. It is a liveness bound, not a correctness
	// requirement. Defaults to 3 seconds.
	HeartbeatInterval time.Duration
}

// driver is one of the two connection-handling strategies. The strategy is
// chosen once in New and fixed for the adapter's lifetime.
type driver interface {
	Send(msg Message) error
	Wait() (Message, error)
	Close() error
}

// Adapter wraps one live connection behind a host-independent transport
// interface. Create one per accepted connection and Close it when the
// session ends.
type Adapter struct {
	md Metadata
	d  driver
}

// New wraps host in an Adapter.
//
// A TokenHost is driven directly: Send and Wait pass straight through to the
// host and no internal state is allocated. A LegacyHost is driven through a
// background readiness pump, an outbound queue and a readiness event; see
// Wait for the constraint this imposes on the caller.
func New(host Host, opts *Options) (*Adapter, error) {
	if opts == nil {
		opts = &Options{}
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	heartbeat := opts.HeartbeatInterval
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}

	var d driver
	switch h := host.(type) {
	case TokenHost:
		d = &directDriver{host: h, logger: logger}
	case LegacyHost:
		var err error
		d, err = newCompatDriver(h, heartbeat, logger)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedHost, host)
	}

	return &Adapter{md: host.Metadata(), d: d}, nil
}

// Send queues msg for transmission. In direct mode the message is
// transmitted synchronously. In compatibility mode it is appended to the
// outbound queue and flushed by the next Wait wake; the queue is unbounded,
// so Send never blocks and never fails there.
func (a *Adapter) Send(msg Message) error {
	return a.d.Send(msg)
}

// Wait blocks until the next inbound message and returns it, or returns
// ErrClosed once the connection has terminated. Call it repeatedly in a
// loop; it is also what flushes compatibility-mode sends and lets the host
// run its keepalive processing.
//
// In compatibility mode Wait must be called from the goroutine that accepted
// the connection, matching the legacy API's connection affinity.
func (a *Adapter) Wait() (Message, error) {
	return a.d.Wait()
}

// Close tears the connection down. In compatibility mode it also cancels the
// background pump and forces the readiness event so a suspended Wait returns
// ErrClosed instead of hanging past teardown. Close is idempotent.
func (a *Adapter) Close() error {
	return a.d.Close()
}

// Version returns the negotiated WebSocket protocol version.
func (a *Adapter) Version() string { return a.md.Version }

// Path returns the request path the connection was accepted on.
func (a *Adapter) Path() string { return a.md.Path }

// Origin returns the Origin header of the accepting request.
func (a *Adapter) Origin() string { return a.md.Origin }

// Subprotocol returns the negotiated subprotocol.
// An empty string means the default protocol.
func (a *Adapter) Subprotocol() string { return a.md.Subprotocol }
