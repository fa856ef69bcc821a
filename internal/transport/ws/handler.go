package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"sudokuarena/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client-initiated event names.
const (
	evUserConnected  = "user:connected"
	evRoomJoin       = "room:join"
	evGameMove       = "game:move"
	evProgressUpdate = "game:progress_update"
	evValidateWin    = "game:validate_win"
	evPlayAgain      = "room:play_again"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades connections and dispatches client events to the room
// service.
type Handler struct {
	hub     *Hub
	authSvc *service.AuthService
	rooms   *service.RoomService
}

func NewHandler(hub *Hub, authSvc *service.AuthService, rooms *service.RoomService) *Handler {
	return &Handler{hub: hub, authSvc: authSvc, rooms: rooms}
}

// ServeWS handles GET /ws?token=...
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	claims, err := h.authSvc.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws: upgrade failed")
		return
	}

	conn := &Connection{
		UserID: claims.UserID,
		Send:   make(chan []byte, 256),
	}
	h.hub.Register(conn)
	h.hub.Bind(conn)

	log.Info().Str("user", claims.UserID).Msg("ws: connected")

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
		log.Info().Str("user", conn.UserID).Msg("ws: disconnected")
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("user", conn.UserID).Msg("ws: read error")
			}
			break
		}
		h.dispatch(conn, raw)
	}
}

// dispatch routes one client event. The sender's identity comes from the
// connection token, never from the payload. Event failures are logged, not
// answered: nothing crosses back over the channel except protocol events.
func (h *Handler) dispatch(conn *Connection, raw []byte) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		log.Debug().Err(err).Str("user", conn.UserID).Msg("ws: bad envelope")
		return
	}

	ctx := context.Background()

	switch msg.Type {
	case evUserConnected:
		h.hub.Bind(conn)

	case evRoomJoin:
		var p struct {
			RoomID string `json:"roomId"`
		}
		if err := json.Unmarshal(msg.Payload, &p); err != nil || p.RoomID == "" {
			return
		}
		h.hub.Subscribe(conn, p.RoomID)

	case evGameMove:
		var p struct {
			RoomID string `json:"roomId"`
			Row    int    `json:"row"`
			Col    int    `json:"col"`
			Value  int    `json:"value"`
		}
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		if err := h.rooms.ApplyMove(ctx, p.RoomID, conn.UserID, p.Row, p.Col, p.Value); err != nil {
			log.Debug().Err(err).Str("room", p.RoomID).Str("user", conn.UserID).Msg("ws: move rejected")
		}

	case evProgressUpdate:
		var p struct {
			RoomID   string `json:"roomId"`
			Progress int    `json:"progress"`
		}
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		if err := h.rooms.UpdateProgress(ctx, p.RoomID, conn.UserID, p.Progress); err != nil {
			log.Debug().Err(err).Str("room", p.RoomID).Str("user", conn.UserID).Msg("ws: progress rejected")
		}

	case evValidateWin:
		var p struct {
			RoomID string `json:"roomId"`
			Time   int    `json:"time"`
		}
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		if err := h.rooms.ValidateWin(ctx, p.RoomID, conn.UserID, p.Time); err != nil {
			log.Debug().Err(err).Str("room", p.RoomID).Str("user", conn.UserID).Msg("ws: win validation failed")
		}

	case evPlayAgain:
		var p struct {
			OldRoomID string `json:"oldRoomId"`
		}
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		newRoomID, err := h.rooms.Rematch(ctx, p.OldRoomID, conn.UserID)
		if err != nil {
			log.Debug().Err(err).Str("room", p.OldRoomID).Str("user", conn.UserID).Msg("ws: rematch failed")
			return
		}
		h.hub.SendToConn(conn, service.EventRematchCreated, struct {
			NewRoomID string `json:"newRoomId"`
		}{newRoomID})

	default:
		log.Debug().Str("type", msg.Type).Str("user", conn.UserID).Msg("ws: unknown event")
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
