// Package bridgejson provides helpers for reading and writing JSON messages
// over an Adapter.
package bridgejson

import (
	"encoding/json"
	"fmt"

	"github.com/hostbridge/wsbridge"
	"github.com/hostbridge/wsbridge/internal/errd"
)

// Read reads the next message from a and unmarshals it into v. The message
// must be text typed.
func Read(a *wsbridge.Adapter, v interface{}) (err error) {
	defer errd.Wrap(&err, "failed to read JSON message")

	msg, err := a.Wait()
	if err != nil {
		return err
	}
	if msg.Type != wsbridge.MessageText {
		return fmt.Errorf("unexpected message type for JSON (expected %v): %v", wsbridge.MessageText, msg.Type)
	}
	return json.Unmarshal(msg.Payload, v)
}

// Write marshals v and sends it as a text message.
func Write(a *wsbridge.Adapter, v interface{}) (err error) {
	defer errd.Wrap(&err, "failed to write JSON message")

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return a.Send(wsbridge.Message{Type: wsbridge.MessageText, Payload: b})
}
