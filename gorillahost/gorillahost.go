// Package gorillahost binds a gorilla/websocket server connection to the
// wsbridge modern host interface. The runtime keeps per-connection state
// internally, so adapter operations may be issued from any goroutine and no
// compatibility pump is needed.
package gorillahost

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hostbridge/wsbridge"
	"github.com/hostbridge/wsbridge/internal/xsync"
)

// Options configures Upgrade.
type Options struct {
	// Subprotocols lists the subprotocols to negotiate with the client,
	// most preferred first.
	Subprotocols []string

	// InsecureSkipVerify disables origin verification. By default only
	// same-origin handshakes are accepted.
	InsecureSkipVerify bool

	// HandshakeTimeout bounds the handshake. Zero means no timeout.
	HandshakeTimeout time.Duration
}

// Conn is a wsbridge.TokenHost backed by a gorilla connection. Send is
// serialized internally, so unlike a bare gorilla connection it is safe from
// any goroutine.
type Conn struct {
	ws *websocket.Conn
	md wsbridge.Metadata

	writeMu sync.Mutex
}

var _ wsbridge.TokenHost = (*Conn)(nil)

const closeWriteTimeout = 5 * time.Second

// Upgrade performs the WebSocket handshake on w and r and returns the
// upgraded connection. A request that is not a valid WebSocket upgrade
// yields an error wrapping wsbridge.ErrNotWebSocket after gorilla has
// already replied with the HTTP error.
func Upgrade(w http.ResponseWriter, r *http.Request, opts *Options) (*Conn, error) {
	if opts == nil {
		opts = &Options{}
	}

	up := websocket.Upgrader{
		Subprotocols:     opts.Subprotocols,
		HandshakeTimeout: opts.HandshakeTimeout,
	}
	if opts.InsecureSkipVerify {
		up.CheckOrigin = func(*http.Request) bool { return true }
	}

	ws, err := up.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", wsbridge.ErrNotWebSocket, err)
	}

	return &Conn{
		ws: ws,
		md: wsbridge.Metadata{
			Version:     r.Header.Get("Sec-WebSocket-Version"),
			Path:        r.URL.Path,
			Origin:      r.Header.Get("Origin"),
			Subprotocol: ws.Subprotocol(),
		},
	}, nil
}

// Metadata returns the connection metadata captured at upgrade time.
func (c *Conn) Metadata() wsbridge.Metadata { return c.md }

// Send transmits one message of the given type.
func (c *Conn) Send(typ wsbridge.MessageType, p []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteMessage(frameType(typ), p)
}

// Receive blocks until the next inbound data message. Control frames are
// handled by gorilla internally. An error means the connection is down.
func (c *Conn) Receive() (wsbridge.MessageType, []byte, error) {
	typ, p, err := c.ws.ReadMessage()
	if err != nil {
		return 0, nil, err
	}
	if typ == websocket.TextMessage {
		return wsbridge.MessageText, p, nil
	}
	return wsbridge.MessageBinary, p, nil
}

// Close attempts a clean close frame and tears the connection down.
func (c *Conn) Close() error {
	c.writeMu.Lock()
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(closeWriteTimeout))
	c.writeMu.Unlock()
	return c.ws.Close()
}

func frameType(typ wsbridge.MessageType) int {
	if typ == wsbridge.MessageBinary {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

func init() {
	wsbridge.Register("gorilla", &wsbridge.Environment{
		Spawn:         xsync.Go,
		NewQueue:      wsbridge.NewQueue,
		NewEvent:      wsbridge.NewEvent,
		ErrQueueEmpty: wsbridge.ErrQueueEmpty,
		Sleep:         time.Sleep,
		NewAdapter:    wsbridge.New,
	})
}
