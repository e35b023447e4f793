package websocket

import (
	"encoding/json"
)

// Envelope is the frame format in both directions:
// {"event": "<name>", "data": <payload>}.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func Encode(event string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}

func Decode(frame []byte) (Envelope, error) {
	var env Envelope
	err := json.Unmarshal(frame, &env)
	return env, err
}

// Identity is who the handshake token says is on the other end. Zero value
// means the connection is anonymous.
type Identity struct {
	UserID   string
	Username string
}

func (i Identity) IsAnonymous() bool {
	return i.UserID == ""
}

// Dispatcher receives the lifecycle and inbound events of every connection.
type Dispatcher interface {
	OnConnect(c *Client)
	OnEvent(c *Client, env Envelope)
	OnDisconnect(c *Client)
}
