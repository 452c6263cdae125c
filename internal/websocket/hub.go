package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/saikiransomanagoudar/sonarcare/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "chat_room_events"

// Hub tracks which clients are in which session room and fans out events
// to them. With Redis configured, emissions also reach rooms held by
// other instances.
type Hub struct {
	// Session room -> members. A client can sit in several rooms at once.
	rooms map[uuid.UUID]map[*Client]bool

	// Connected clients. Guards against double-unregister closing Send twice.
	clients map[*Client]bool

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// OnInbound handles messages read off a client connection. Set once
	// before Run.
	OnInbound func(c *Client, data []byte)

	// Redis connection for cross-instance fan-out, nil for single instance
	rdb *redis.Client

	// Identifies this instance so it can skip its own cluster echoes
	instanceID string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		clients:    make(map[*Client]bool),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			known := h.clients[client]
			if known {
				delete(h.clients, client)
				for sessionID, members := range h.rooms {
					if members[client] {
						delete(members, client)
						if len(members) == 0 {
							delete(h.rooms, sessionID)
						}
					}
				}
			}
			h.mu.Unlock()
			if known {
				close(client.Send)
				h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"user_id": client.UserID})
			}
		}
	}
}

// Join adds the client to a session room.
func (h *Hub) Join(client *Client, sessionID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[sessionID] == nil {
		h.rooms[sessionID] = make(map[*Client]bool)
	}
	h.rooms[sessionID][client] = true
}

// Leave removes the client from a session room.
func (h *Hub) Leave(client *Client, sessionID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[sessionID]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, sessionID)
		}
	}
}

// EmitToRoom delivers data to every member of the session room, here and
// on other instances. A slow client gets dropped rather than blocking the
// stream for the rest of the room.
func (h *Hub) EmitToRoom(sessionID uuid.UUID, data []byte) {
	h.emitLocal(sessionID, data)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterEvent{
			InstanceID:      h.instanceID,
			TargetSessionID: sessionID.String(),
			Message:         data,
		})
		h.rdb.Publish(context.Background(), clusterChannel, payload)
	}
}

func (h *Hub) emitLocal(sessionID uuid.UUID, data []byte) {
	h.mu.RLock()
	members := make([]*Client, 0, len(h.rooms[sessionID]))
	for client := range h.rooms[sessionID] {
		members = append(members, client)
	}
	h.mu.RUnlock()

	for _, client := range members {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{
				"user_id":    client.UserID,
				"session_id": sessionID.String(),
			})
			h.unregister <- client
		}
	}
}

type clusterEvent struct {
	InstanceID      string          `json:"instance_id"`
	TargetSessionID string          `json:"target_session_id"`
	Message         json.RawMessage `json:"message"`
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var ev clusterEvent
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			h.logger.Warn("Hub", "Malformed cluster event", map[string]interface{}{"error": err.Error()})
			continue
		}

		// Locally emitted events already reached local members.
		if ev.InstanceID == h.instanceID {
			continue
		}

		sessionID, err := uuid.Parse(ev.TargetSessionID)
		if err != nil {
			continue
		}

		h.emitLocal(sessionID, ev.Message)
	}
}
