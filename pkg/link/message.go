package link

import (
	"encoding/json"
	"errors"

	"github.com/dmitrymomot/otpmirror/pkg/snapshot"
)

// Action names a control message.
type Action string

const (
	ActionRequestUpdate    Action = "requestUpdate"
	ActionIncrementCounter Action = "incrementCounter"
)

// Control is a secondary-to-primary request.
type Control struct {
	Action   Action `json:"action"`
	SecretID string `json:"secretId,omitempty"`
}

// Message holds exactly one of Push or Control.
type Message struct {
	Push    *snapshot.Batch
	Control *Control
}

// PushMessage wraps a snapshot batch. A nil batch is sent as an empty list.
func PushMessage(batch []snapshot.CodeSnapshot) Message {
	if batch == nil {
		batch = []snapshot.CodeSnapshot{}
	}
	return Message{Push: &snapshot.Batch{CodeInfos: batch}}
}

func RequestUpdate() Message {
	return Message{Control: &Control{Action: ActionRequestUpdate}}
}

func IncrementCounter(credentialID string) Message {
	return Message{Control: &Control{Action: ActionIncrementCounter, SecretID: credentialID}}
}

// Encode serializes m to its JSON wire form.
func Encode(m Message) ([]byte, error) {
	switch {
	case m.Push != nil && m.Control == nil:
		return json.Marshal(m.Push)
	case m.Control != nil && m.Push == nil:
		if !m.Control.valid() {
			return nil, ErrUnrecognizedMessage
		}
		return json.Marshal(m.Control)
	}
	return nil, ErrUnrecognizedMessage
}

// Decode parses a wire message. Input that is not a JSON object yields
// ErrMalformedMessage; an object of an unknown shape, or a control message
// with an unknown action, yields ErrUnrecognizedMessage.
func Decode(data []byte) (Message, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Message{}, errors.Join(ErrMalformedMessage, err)
	}
	if fields == nil {
		return Message{}, ErrMalformedMessage
	}

	if _, ok := fields["codeInfos"]; ok {
		var batch snapshot.Batch
		if err := json.Unmarshal(data, &batch); err != nil {
			return Message{}, errors.Join(ErrMalformedMessage, err)
		}
		return PushMessage(batch.CodeInfos), nil
	}

	if _, ok := fields["action"]; ok {
		var c Control
		if err := json.Unmarshal(data, &c); err != nil {
			return Message{}, errors.Join(ErrMalformedMessage, err)
		}
		if !c.valid() {
			return Message{}, ErrUnrecognizedMessage
		}
		return Message{Control: &c}, nil
	}

	return Message{}, ErrUnrecognizedMessage
}

func (c Control) valid() bool {
	switch c.Action {
	case ActionRequestUpdate:
		return true
	case ActionIncrementCounter:
		return c.SecretID != ""
	}
	return false
}
