package ws

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"sudokuarena/internal/metrics"
)

// Message is the WebSocket envelope format, both directions.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Connection is one client socket. UserID comes from the connection token.
type Connection struct {
	UserID string
	Send   chan []byte
}

// BroadcastMessage targets either a room topic or a single user's session.
type BroadcastMessage struct {
	RoomID  string
	ToUser  string
	Message *Message
}

// Hub multiplexes per-room event streams over the open connections and keeps
// the session map (user id -> connection) used to target direct messages
// such as kick notices. Subscribing to a room topic is just listening; game
// membership is the room service's business.
//
// Broadcasts flow through a single FIFO channel, so events for one room are
// delivered in the order they were submitted.
type Hub struct {
	mu    sync.RWMutex
	conns map[*Connection]struct{}
	rooms map[string]map[*Connection]struct{}
	users map[string]*Connection

	broadcast chan *BroadcastMessage
}

// NewHub creates the hub and starts its event loop.
func NewHub() *Hub {
	h := &Hub{
		conns:     make(map[*Connection]struct{}),
		rooms:     make(map[string]map[*Connection]struct{}),
		users:     make(map[string]*Connection),
		broadcast: make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for msg := range h.broadcast {
		data, err := json.Marshal(msg.Message)
		if err != nil {
			log.Error().Err(err).Str("type", msg.Message.Type).Msg("ws: encoding event failed")
			continue
		}
		h.mu.RLock()
		if msg.ToUser != "" {
			if conn, ok := h.users[msg.ToUser]; ok {
				send(conn, data)
			}
		} else if subs, ok := h.rooms[msg.RoomID]; ok {
			for conn := range subs {
				send(conn, data)
			}
		}
		h.mu.RUnlock()
	}
}

// send is best effort: a subscriber with a full buffer misses the event.
func send(conn *Connection, data []byte) {
	select {
	case conn.Send <- data:
	default:
	}
}

// Register adds a connection. It is safe to Subscribe and Bind as soon as
// Register returns.
func (h *Hub) Register(conn *Connection) {
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()
	metrics.WSConnections.Inc()
}

// Unregister removes a connection, pruning its topic subscriptions and
// session entry, and closes its send channel. Unregistering twice is a no-op.
func (h *Hub) Unregister(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[conn]; !ok {
		return
	}
	delete(h.conns, conn)
	for roomID, subs := range h.rooms {
		delete(subs, conn)
		if len(subs) == 0 {
			delete(h.rooms, roomID)
		}
	}
	if existing, ok := h.users[conn.UserID]; ok && existing == conn {
		delete(h.users, conn.UserID)
	}
	close(conn.Send)
	metrics.WSConnections.Dec()
}

// Subscribe adds the connection to a room topic.
func (h *Hub) Subscribe(conn *Connection, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[conn]; !ok {
		return
	}
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Connection]struct{})
	}
	h.rooms[roomID][conn] = struct{}{}
}

// Bind records the connection as the user's live session, replacing any
// previous connection for the same user.
func (h *Hub) Bind(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[conn]; !ok {
		return
	}
	h.users[conn.UserID] = conn
}

// BroadcastToRoom sends a message to every subscriber of the room topic
// (implements service.Broadcaster).
func (h *Hub) BroadcastToRoom(roomID string, msgType string, payload interface{}) {
	h.enqueue(&BroadcastMessage{RoomID: roomID, Message: envelope(msgType, payload)})
}

// SendToUser sends a message to one user's session connection, if any
// (implements service.Broadcaster).
func (h *Hub) SendToUser(userID string, msgType string, payload interface{}) {
	h.enqueue(&BroadcastMessage{ToUser: userID, Message: envelope(msgType, payload)})
}

// SendToConn replies directly on one connection, bypassing the topic fanout.
func (h *Hub) SendToConn(conn *Connection, msgType string, payload interface{}) {
	data, err := json.Marshal(envelope(msgType, payload))
	if err != nil {
		log.Error().Err(err).Str("type", msgType).Msg("ws: encoding reply failed")
		return
	}
	metrics.WSEvents.WithLabelValues(msgType).Inc()
	send(conn, data)
}

func (h *Hub) enqueue(msg *BroadcastMessage) {
	metrics.WSEvents.WithLabelValues(msg.Message.Type).Inc()
	h.broadcast <- msg
}

func envelope(msgType string, payload interface{}) *Message {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("type", msgType).Msg("ws: encoding payload failed")
	}
	return &Message{Type: msgType, Payload: data}
}
