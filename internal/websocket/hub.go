package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"airdrop-tracker-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	publishTimeout  = time.Second
	relayBufferSize = 256
)

// Hub is the registry of live connections on this instance. With Redis
// configured it also relays broadcasts between instances.
type Hub struct {
	clients map[uuid.UUID]*Client
	mu      sync.RWMutex

	rdb        *redis.Client
	relayQueue chan []byte
	channel    string
	instanceID string
	bufferSize int

	logger logger.ILogger
}

type clusterMessage struct {
	Origin  string          `json:"origin"`
	Message json.RawMessage `json:"message"`
}

// NewHub builds a hub. rdb may be nil for a single-instance deployment.
func NewHub(rdb *redis.Client, channel string, bufferSize int, log logger.ILogger) *Hub {
	var relayQueue chan []byte
	if rdb != nil {
		relayQueue = make(chan []byte, relayBufferSize)
	}
	return &Hub{
		relayQueue: relayQueue,
		clients:    make(map[uuid.UUID]*Client),
		rdb:        rdb,
		channel:    channel,
		instanceID: uuid.NewString(),
		bufferSize: bufferSize,
		logger:     log,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("Hub", "Client registered", map[string]interface{}{"conn_id": c.ID, "user_id": c.Identity.UserID, "total": total})
}

// Unregister removes c and closes its send queue. Calling it again is a
// no-op; the return value reports whether c was still registered.
func (h *Hub) Unregister(c *Client) bool {
	h.mu.Lock()
	current, ok := h.clients[c.ID]
	if ok && current == c {
		delete(h.clients, c.ID)
		close(c.Send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"conn_id": c.ID, "total": total})
	}
	return ok
}

func (h *Hub) IsRegistered(id uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[id]
	return ok
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SendTo queues payload for one client. A client whose queue is full is
// evicted.
func (h *Hub) SendTo(c *Client, payload []byte) bool {
	h.mu.RLock()
	_, registered := h.clients[c.ID]
	delivered := false
	if registered {
		select {
		case c.Send <- payload:
			delivered = true
		default:
		}
	}
	h.mu.RUnlock()

	if registered && !delivered {
		h.evict(c)
	}
	return delivered
}

// Broadcast delivers payload to every local client and queues it for the
// other instances. Returns the number of local deliveries. The Redis
// publish happens on the relay goroutine started by Run.
func (h *Hub) Broadcast(payload []byte) int {
	delivered := h.deliverLocal(payload)

	if h.relayQueue != nil {
		select {
		case h.relayQueue <- payload:
		default:
			h.logger.Warn("Hub", "Relay queue full, broadcast not relayed", nil)
		}
	}
	return delivered
}

func (h *Hub) deliverLocal(payload []byte) int {
	var slow []*Client
	delivered := 0

	h.mu.RLock()
	for _, c := range h.clients {
		select {
		case c.Send <- payload:
			delivered++
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.evict(c)
	}
	return delivered
}

func (h *Hub) evict(c *Client) {
	h.logger.Warn("Hub", "Send buffer full, dropping client", map[string]interface{}{"conn_id": c.ID})
	h.Unregister(c)
}

// Run relays broadcasts to and from other instances until ctx is cancelled. It
// returns at once when Redis is not configured.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb == nil {
		return
	}

	go h.relay(ctx)

	pubsub := h.rdb.Subscribe(ctx, h.channel)
	defer pubsub.Close()
	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.handleClusterMessage([]byte(msg.Payload))
		}
	}
}

// relay publishes queued broadcasts in order until ctx is cancelled.
func (h *Hub) relay(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload := <-h.relayQueue:
			h.publish(ctx, payload)
		}
	}
}

func (h *Hub) publish(ctx context.Context, payload []byte) {
	msg, _ := json.Marshal(clusterMessage{Origin: h.instanceID, Message: payload})
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := h.rdb.Publish(pubCtx, h.channel, msg).Err(); err != nil {
		h.logger.Warn("Hub", "Failed to relay broadcast", map[string]interface{}{"error": err.Error()})
	}
}

func (h *Hub) handleClusterMessage(raw []byte) {
	var msg clusterMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.logger.Warn("Hub", "Cluster message parse error", map[string]interface{}{"error": err.Error()})
		return
	}
	// Our own broadcast was already delivered locally.
	if msg.Origin == h.instanceID {
		return
	}
	h.deliverLocal(msg.Message)
}
