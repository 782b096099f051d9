// Package wsbridge provides a uniform, backend-agnostic interface for
// full-duplex, message-oriented WebSocket transport on top of heterogeneous
// hosting runtimes.
//
// Some runtimes expose a modern per-connection API whose operations may be
// issued from any goroutine. Others expose only a legacy, connection-affine
// API that must be driven from the goroutine that accepted the connection.
// wsbridge reconciles both behind one Adapter: the modern variant is a direct
// pass-through, while the legacy variant is driven through an internal
// readiness pump, outbound queue and event.
//
// Concrete runtime bindings live in the gorillahost and gobwashost
// subpackages. The surrounding session or protocol layer only ever sees the
// Adapter's Send, Wait and Close.
package wsbridge // import "github.com/hostbridge/wsbridge"
