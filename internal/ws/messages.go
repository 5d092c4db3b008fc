package ws

import (
	"encoding/json"

	"github.com/playmatatu/billiards/internal/game"
)

// Client -> server message types
const (
	MsgPointerDown = "pointer_down"
	MsgPointerHeld = "pointer_held"
	MsgPointerUp   = "pointer_up"
	MsgReset       = "reset"
	MsgGetState    = "get_state"
)

// Server -> client message types
const (
	MsgSnapshot   = "snapshot"
	MsgRackOver   = "rack_over"
	MsgTableEvent = "table_event"
	MsgError      = "error"
)

// WSMessage is the envelope for every message in both directions
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// PointerData is a pointer position in table coordinates
type PointerData struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func outbound(msgType string, data interface{}) map[string]interface{} {
	return map[string]interface{}{
		"type": msgType,
		"data": data,
	}
}

// toInput translates a client message into a table input. ok is false for
// message types that are not inputs.
func toInput(msg WSMessage) (game.Input, bool, error) {
	var kind game.InputKind
	switch msg.Type {
	case MsgPointerDown:
		kind = game.InputPointerDown
	case MsgPointerHeld:
		kind = game.InputPointerHeld
	case MsgPointerUp:
		kind = game.InputPointerUp
	case MsgReset:
		return game.Input{Kind: game.InputReset}, true, nil
	default:
		return game.Input{}, false, nil
	}

	var p PointerData
	if err := json.Unmarshal(msg.Data, &p); err != nil {
		return game.Input{}, true, err
	}
	return game.Input{Kind: kind, Position: game.NewVec2(p.X, p.Y)}, true, nil
}
