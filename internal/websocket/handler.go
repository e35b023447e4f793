package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs runs one connection to completion. It blocks in the read pump,
// which is what the fiber websocket handler expects.
func ServeWs(hub *Hub, conn *websocket.Conn, identity Identity, d Dispatcher) {
	client := NewClient(conn, identity, hub.bufferSize)
	d.OnConnect(client)

	go client.writePump()
	client.readPump(hub, d)
}
