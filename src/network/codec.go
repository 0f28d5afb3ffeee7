package network

import (
	"encoding/json"
	"errors"
	"fmt"

	"elevcoord/src/worldview"

	"github.com/google/uuid"
)

// ErrMalformedMessage is wrapped by every decoding failure. Malformed
// datagrams are dropped without touching the worldview.
var ErrMalformedMessage = errors.New("malformed message")

// Envelope is the type-tagged frame of every datagram. Repetitions of one
// message share its ID.
type Envelope struct {
	ID       uuid.UUID       `json:"id"`
	Type     string          `json:"type"`
	SenderID int             `json:"sender"`
	Payload  json.RawMessage `json:"payload"`
}

func Encode(id uuid.UUID, sender int, msg worldview.Message) ([]byte, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("cannot encode %s: %w", msg.MsgType(), err)
	}

	data, err := json.Marshal(Envelope{
		ID:       id,
		Type:     msg.MsgType(),
		SenderID: sender,
		Payload:  payload,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot encode envelope: %w", err)
	}
	return data, nil
}

func Decode(data []byte) (Envelope, worldview.Message, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return env, nil, fmt.Errorf("cannot decode envelope: %w: %w", ErrMalformedMessage, err)
	}
	if env.ID == uuid.Nil {
		return env, nil, fmt.Errorf("missing message id: %w", ErrMalformedMessage)
	}

	switch env.Type {
	case worldview.TypeStateSync:
		var msg worldview.StateSync
		if err := json.Unmarshal(env.Payload, &msg); err != nil {
			return env, nil, fmt.Errorf("cannot decode %s: %w: %w", env.Type, ErrMalformedMessage, err)
		}
		if msg.State.NodeID != env.SenderID {
			return env, nil, fmt.Errorf("state of node %d sent by node %d: %w",
				msg.State.NodeID, env.SenderID, ErrMalformedMessage)
		}
		return env, msg, nil

	case worldview.TypeHallBroadcast:
		var msg worldview.HallRequestBroadcast
		if err := json.Unmarshal(env.Payload, &msg); err != nil {
			return env, nil, fmt.Errorf("cannot decode %s: %w: %w", env.Type, ErrMalformedMessage, err)
		}
		return env, msg, nil

	default:
		return env, nil, fmt.Errorf("unknown message type %q: %w", env.Type, ErrMalformedMessage)
	}
}
