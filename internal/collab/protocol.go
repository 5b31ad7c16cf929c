package collab

import (
	"encoding/json"

	"github.com/inkboard/inkboard/internal/engine"
)

// Message is the envelope for everything sent over the session socket.
type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	Seq       uint64          `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

const (
	// Connection
	TypeWelcome = "welcome"

	// Client → server: payload is an engine action, e.g. {"type":"press","x":1,"y":2}
	TypeAction = "action"

	// Server → client
	TypeFrame = "frame"
	TypeError = "error"
)

type WelcomePayload struct {
	SessionID string          `json:"sessionId"`
	ClientID  string          `json:"clientId"`
	Tool      engine.Tool     `json:"tool"`
	Viewport  engine.Viewport `json:"viewport"`
	Strokes   int             `json:"strokes"`
}

type ErrorPayload struct {
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

func newMessage(typ string, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: typ, Payload: data}, nil
}
