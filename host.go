package wsbridge

// Metadata describes a connection at accept time. All fields are immutable
// once the hosting runtime has completed the handshake.
type Metadata struct {
	// Version is the negotiated WebSocket protocol version.
	Version string
	// Path is the request path the connection was accepted on.
	Path string
	// Origin is the value of the Origin header, if any.
	Origin string
	// Subprotocol is the negotiated subprotocol. Empty means the default.
	Subprotocol string
}

// Host is the minimal surface a hosting runtime binding exposes to an
// Adapter. Every host is exactly one of TokenHost or LegacyHost; New selects
// the connection-handling strategy from which of the two it implements.
type Host interface {
	Metadata() Metadata
}

// TokenHost is the modern hosting variant. The runtime hands out a
// per-connection context internally, so every method is safe to call from
// any goroutine. A receive failure on a torn-down connection surfaces as an
// error from Receive.
type TokenHost interface {
	Host

	// Send transmits one message of the given type.
	Send(typ MessageType, p []byte) error

	// Receive blocks until the next inbound data message.
	Receive() (MessageType, []byte, error)

	// Close tears the connection down.
	Close() error
}

// LegacyHost is the legacy hosting variant: connection-affine calls that
// must be driven from the goroutine that accepted the connection, with no
// blocking receive the adapter could use safely. The adapter compensates
// with a background readiness pump watching Fd.
type LegacyHost interface {
	Host

	// SendText transmits p as a UTF-8 text message.
	SendText(p []byte) error

	// SendBinary transmits p as an opaque binary message.
	SendBinary(p []byte) error

	// ReceiveNonblocking attempts one receive without suspending the
	// caller. An empty payload with a nil error means nothing was pending.
	// The payload is raw; typing is recovered from its leading byte.
	ReceiveNonblocking() ([]byte, error)

	// Fd returns the connection's descriptor for readiness observation.
	// The pump only watches it; all reads and writes stay with the host.
	Fd() (uintptr, error)

	// Disconnect instructs the runtime to tear the connection down.
	Disconnect() error
}
