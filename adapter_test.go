package wsbridge_test

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/hostbridge/wsbridge"
	"github.com/hostbridge/wsbridge/internal/test/assert"
)

// fakeTokenHost emulates a modern host whose operations are safe from any
// goroutine.
type fakeTokenHost struct {
	inbound chan wsbridge.Message

	mu   sync.Mutex
	sent []wsbridge.Message

	closeOnce sync.Once
}

func newFakeTokenHost() *fakeTokenHost {
	return &fakeTokenHost{inbound: make(chan wsbridge.Message, 16)}
}

func (h *fakeTokenHost) Metadata() wsbridge.Metadata {
	return wsbridge.Metadata{
		Version:     "13",
		Path:        "/session",
		Origin:      "http://fake.test",
		Subprotocol: "engine",
	}
}

func (h *fakeTokenHost) Send(typ wsbridge.MessageType, p []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sent = append(h.sent, wsbridge.Message{Type: typ, Payload: append([]byte(nil), p...)})
	return nil
}

func (h *fakeTokenHost) Receive() (wsbridge.MessageType, []byte, error) {
	msg, ok := <-h.inbound
	if !ok {
		return 0, nil, net.ErrClosed
	}
	return msg.Type, msg.Payload, nil
}

func (h *fakeTokenHost) Close() error {
	h.closeOnce.Do(func() {
		close(h.inbound)
	})
	return nil
}

func (h *fakeTokenHost) sentMessages() []wsbridge.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]wsbridge.Message(nil), h.sent...)
}

func TestDirectPassThrough(t *testing.T) {
	t.Parallel()

	h := newFakeTokenHost()
	a, err := wsbridge.New(h, nil)
	assert.Success(t, err)
	defer a.Close()

	assert.Equal(t, "compatibility mode", false, a.InCompatibilityMode())

	assert.Success(t, a.Send(wsbridge.Text("hello")))
	assert.Success(t, a.Send(wsbridge.Binary([]byte{0x01, 0x02})))
	assert.Equal(t, "sent messages", []wsbridge.Message{
		wsbridge.Text("hello"),
		wsbridge.Binary([]byte{0x01, 0x02}),
	}, h.sentMessages())

	h.inbound <- wsbridge.Text("pong")
	msg, err := a.Wait()
	assert.Success(t, err)
	assert.Equal(t, "inbound", wsbridge.Text("pong"), msg)
}

func TestDirectClosedPeer(t *testing.T) {
	t.Parallel()

	h := newFakeTokenHost()
	a, err := wsbridge.New(h, nil)
	assert.Success(t, err)

	// Peer is already gone; Wait must convert the receive failure to the
	// closed sentinel without suspending.
	assert.Success(t, h.Close())

	start := time.Now()
	_, err = a.Wait()
	assert.ErrorIs(t, wsbridge.ErrClosed, err)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("wait took %v on a closed connection", elapsed)
	}
	assert.Equal(t, "compatibility mode", false, a.InCompatibilityMode())
}

func TestDirectCloseIdempotent(t *testing.T) {
	t.Parallel()

	h := newFakeTokenHost()
	a, err := wsbridge.New(h, nil)
	assert.Success(t, err)

	assert.Success(t, a.Close())
	assert.Success(t, a.Close())

	_, err = a.Wait()
	assert.ErrorIs(t, wsbridge.ErrClosed, err)
}

func TestDirectMetadata(t *testing.T) {
	t.Parallel()

	h := newFakeTokenHost()
	a, err := wsbridge.New(h, nil)
	assert.Success(t, err)
	defer a.Close()

	assert.Equal(t, "version", "13", a.Version())
	assert.Equal(t, "path", "/session", a.Path())
	assert.Equal(t, "origin", "http://fake.test", a.Origin())
	assert.Equal(t, "subprotocol", "engine", a.Subprotocol())
}

type bareHost struct{}

func (bareHost) Metadata() wsbridge.Metadata { return wsbridge.Metadata{} }

func TestNewUnsupportedHost(t *testing.T) {
	t.Parallel()

	_, err := wsbridge.New(bareHost{}, nil)
	assert.ErrorIs(t, wsbridge.ErrUnsupportedHost, err)
}
