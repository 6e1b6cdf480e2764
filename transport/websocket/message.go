package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

const actionGameState = "game:state"

// Message is the envelope of every frame in both directions.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is the body of client requests and server responses.
type Payload struct {
	X     *int         `json:"x,omitempty"`
	Y     *int         `json:"y,omitempty"`
	Game  *entity.Game `json:"game,omitempty"`
	Error string       `json:"error,omitempty"`
}

func newMessage(action string, payload Payload) (*Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Message{Action: action, Payload: raw}, nil
}
