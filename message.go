package wsbridge

// MessageType represents the type of a message passing through an Adapter.
type MessageType int

// MessageType constants.
const (
	// MessageText is for UTF-8 encoded text messages like JSON.
	MessageText MessageType = iota + 1
	// MessageBinary is for binary messages like Protobufs.
	MessageBinary
)

func (t MessageType) String() string {
	switch t {
	case MessageText:
		return "MessageText"
	case MessageBinary:
		return "MessageBinary"
	default:
		return "MessageType(unknown)"
	}
}

// Message is a single inbound or outbound transport payload.
type Message struct {
	Type    MessageType
	Payload []byte
}

// Text returns a text message carrying s.
func Text(s string) Message {
	return Message{Type: MessageText, Payload: []byte(s)}
}

// Binary returns a binary message carrying p.
func Binary(p []byte) Message {
	return Message{Type: MessageBinary, Payload: p}
}

// textDiscriminator is the lowest leading byte value the legacy multiplexed
// frame convention reserves for UTF-8 text payloads. It is a constant of the
// legacy host API, not of this package. Confirm it against the host's framing
// documentation before reusing it elsewhere.
const textDiscriminator = 48

// decodeReceived classifies a raw payload from the legacy receive path.
// The legacy API surfaces untyped byte sequences; the leading byte recovers
// the frame type. The modern path returns already-typed payloads and never
// goes through here.
func decodeReceived(p []byte) Message {
	if len(p) > 0 && p[0] >= textDiscriminator {
		return Message{Type: MessageText, Payload: p}
	}
	return Message{Type: MessageBinary, Payload: p}
}
