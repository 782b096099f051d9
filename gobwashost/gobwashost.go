// Package gobwashost binds a raw net.Conn speaking the WebSocket protocol
// via gobwas/ws to the wsbridge legacy host interface.
//
// It mimics hosting runtimes that expose only connection-affine,
// context-free calls: receive is approximated with a short read deadline,
// and a frame whose payload spans several read slices is accumulated across
// calls rather than lost. Frame typing is deliberately discarded on receive;
// the legacy contract surfaces raw payloads and the adapter recovers the
// type from the leading byte.
package gobwashost

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"github.com/hostbridge/wsbridge"
	"github.com/hostbridge/wsbridge/internal/poller"
	"github.com/hostbridge/wsbridge/internal/xsync"
)

// Options configures Upgrade.
type Options struct {
	// Subprotocols lists the subprotocols to negotiate with the client,
	// most preferred first.
	Subprotocols []string
}

// receiveSlice is how long ReceiveNonblocking lets a read attempt run. A
// deadline in the past would fail before even looking at buffered data, so
// the deadline sits slightly in the future instead.
const receiveSlice = time.Millisecond

// Conn is a wsbridge.LegacyHost over an upgraded net.Conn.
//
// The reader and the partial-frame state below belong to the single
// connection-affine caller; they are not synchronized.
type Conn struct {
	conn net.Conn
	fd   uintptr
	md   wsbridge.Metadata

	rd   *wsutil.Reader
	ctrl wsutil.FrameHandlerFunc

	inFrame bool
	partial []byte
	buf     []byte
}

var _ wsbridge.LegacyHost = (*Conn)(nil)

// Upgrade performs the server-side WebSocket handshake on conn. A stream
// that does not carry a valid upgrade request yields an error wrapping
// wsbridge.ErrNotWebSocket.
func Upgrade(conn net.Conn, opts *Options) (*Conn, error) {
	if opts == nil {
		opts = &Options{}
	}

	md := wsbridge.Metadata{Version: "13"}
	up := ws.Upgrader{
		OnRequest: func(uri []byte) error {
			md.Path = string(uri)
			return nil
		},
		OnHeader: func(key, value []byte) error {
			if strings.EqualFold(string(key), "Origin") {
				md.Origin = string(value)
			}
			return nil
		},
	}
	if len(opts.Subprotocols) > 0 {
		up.Protocol = func(proto []byte) bool {
			for _, p := range opts.Subprotocols {
				if string(proto) == p {
					return true
				}
			}
			return false
		}
	}

	hs, err := up.Upgrade(conn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", wsbridge.ErrNotWebSocket, err)
	}
	md.Subprotocol = hs.Protocol

	fd, err := connFd(conn)
	if err != nil {
		return nil, err
	}

	c := &Conn{conn: conn, fd: fd, md: md, buf: make([]byte, 4096)}
	c.ctrl = wsutil.ControlFrameHandler(conn, ws.StateServerSide)
	c.rd = &wsutil.Reader{
		Source:         conn,
		State:          ws.StateServerSide,
		OnIntermediate: c.ctrl,
	}
	return c, nil
}

// Metadata returns the connection metadata captured during the handshake.
func (c *Conn) Metadata() wsbridge.Metadata { return c.md }

// SendText transmits p as a UTF-8 text message.
func (c *Conn) SendText(p []byte) error {
	return wsutil.WriteServerText(c.conn, p)
}

// SendBinary transmits p as an opaque binary message.
func (c *Conn) SendBinary(p []byte) error {
	return wsutil.WriteServerBinary(c.conn, p)
}

// ReceiveNonblocking attempts one receive without suspending the caller.
// An empty payload with a nil error means nothing was pending. Control
// frames are answered while reading. A data frame whose payload outlives the
// read slice is resumed on the next call; only a frame header or control
// frame split across slices still misparses the stream.
func (c *Conn) ReceiveNonblocking() ([]byte, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(receiveSlice)); err != nil {
		return nil, err
	}
	defer c.conn.SetReadDeadline(time.Time{})

	for {
		if !c.inFrame {
			hdr, err := c.rd.NextFrame()
			if err != nil {
				if isTimeout(err) {
					return nil, nil
				}
				return nil, err
			}
			if hdr.OpCode.IsControl() {
				if err := c.ctrl(hdr, c.rd); err != nil {
					return nil, err
				}
				continue
			}
			c.inFrame = true
			c.partial = c.partial[:0]
		}

		n, err := c.rd.Read(c.buf)
		c.partial = append(c.partial, c.buf[:n]...)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			c.inFrame = false
			return append([]byte(nil), c.partial...), nil
		case isTimeout(err):
			// Mid-payload; keep what arrived and resume next call.
			return nil, nil
		default:
			return nil, err
		}
	}
}

// Fd returns the connection's descriptor for readiness observation.
func (c *Conn) Fd() (uintptr, error) { return c.fd, nil }

// Disconnect writes a close frame and tears the connection down.
func (c *Conn) Disconnect() error {
	frame := ws.NewCloseFrame(ws.NewCloseFrameBody(ws.StatusNormalClosure, ""))
	_ = ws.WriteFrame(c.conn, frame)
	return c.conn.Close()
}

func connFd(conn net.Conn) (uintptr, error) {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return 0, fmt.Errorf("gobwashost: connection %T exposes no descriptor", conn)
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return 0, fmt.Errorf("gobwashost: failed to access descriptor: %w", err)
	}
	var fd uintptr
	if err := raw.Control(func(f uintptr) { fd = f }); err != nil {
		return 0, fmt.Errorf("gobwashost: failed to access descriptor: %w", err)
	}
	return fd, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

func init() {
	env := &wsbridge.Environment{
		Spawn:         xsync.Go,
		NewQueue:      wsbridge.NewQueue,
		NewEvent:      wsbridge.NewEvent,
		ErrQueueEmpty: wsbridge.ErrQueueEmpty,
		Sleep:         time.Sleep,
		NewAdapter:    wsbridge.New,
	}
	if !poller.Supported {
		// Without descriptor readiness the compatibility pump cannot
		// run, so the environment advertises no websocket support.
		env.NewAdapter = nil
	}
	wsbridge.Register("gobwas", env)
}
