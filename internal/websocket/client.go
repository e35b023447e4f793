package websocket

import (
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	ID       uuid.UUID
	Identity Identity

	// Nil in tests; pumps are never started then.
	Conn *websocket.Conn

	// Buffered channel of outbound frames. Closed by the hub on unregister.
	Send chan []byte
}

func NewClient(conn *websocket.Conn, identity Identity, bufferSize int) *Client {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &Client{
		ID:       uuid.New(),
		Identity: identity,
		Conn:     conn,
		Send:     make(chan []byte, bufferSize),
	}
}

// readPump decodes inbound frames and hands them to the dispatcher, one at
// a time, until the peer goes away.
func (c *Client) readPump(hub *Hub, d Dispatcher) {
	defer func() {
		d.OnDisconnect(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, frame, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				hub.logger.Warn("Client", "Unexpected close", map[string]interface{}{"conn_id": c.ID, "error": err.Error()})
			}
			return
		}

		env, err := Decode(frame)
		if err != nil || env.Event == "" {
			hub.logger.Warn("Client", "Ignoring undecodable frame", map[string]interface{}{"conn_id": c.ID})
			continue
		}
		d.OnEvent(c, env)
	}
}

// writePump drains Send, one frame per message, and keeps the peer alive
// with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
