// Package bridgepb provides helpers for reading and writing protobuf
// messages over an Adapter.
package bridgepb

import (
	"fmt"

	"google.golang.org/protobuf/proto"

	"github.com/hostbridge/wsbridge"
	"github.com/hostbridge/wsbridge/internal/errd"
)

// Read reads the next message from a and unmarshals it into v. The message
// must be binary typed.
func Read(a *wsbridge.Adapter, v proto.Message) (err error) {
	defer errd.Wrap(&err, "failed to read protobuf message")

	msg, err := a.Wait()
	if err != nil {
		return err
	}
	if msg.Type != wsbridge.MessageBinary {
		return fmt.Errorf("unexpected message type for protobuf (expected %v): %v", wsbridge.MessageBinary, msg.Type)
	}
	return proto.Unmarshal(msg.Payload, v)
}

// Write marshals v and sends it as a binary message.
func Write(a *wsbridge.Adapter, v proto.Message) (err error) {
	defer errd.Wrap(&err, "failed to write protobuf message")

	b, err := proto.Marshal(v)
	if err != nil {
		return err
	}
	return a.Send(wsbridge.Binary(b))
}
