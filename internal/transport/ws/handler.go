package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"wouldrather/internal/model"
	"wouldrather/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Handler upgrades WebSocket connections and dispatches inbound events to
// the game service.
type Handler struct {
	hub   *Hub
	games *service.GameService
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, games *service.GameService) *Handler {
	return &Handler{
		hub:   hub,
		games: games,
	}
}

// Serve handles GET /v1/ws
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	conn := &Connection{
		ID:   "c_" + uuid.New().String()[:8],
		Send: make(chan []byte, 256),
		Hub:  h.hub,
	}

	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

type joinPayload struct {
	PIN      string `json:"pin"`
	Username string `json:"username"`
}

type pinPayload struct {
	PIN string `json:"pin"`
}

type votePayload struct {
	PIN    string       `json:"pin"`
	Answer model.Choice `json:"answer"`
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		h.dispatch(conn, &msg)
	}
}

// dispatch routes one inbound event. Service errors are reported to the
// originating connection only; successful create/join additionally subscribe
// the connection to the session's broadcast set.
func (h *Handler) dispatch(conn *Connection, msg *Message) {
	ctx := context.Background()

	switch msg.Type {
	case MsgCreateSession:
		pin, err := h.games.CreateSession(ctx, conn.ID)
		if err != nil {
			h.sendError(conn, err)
			return
		}
		h.hub.Subscribe(pin, conn)

	case MsgJoinSession:
		var p joinPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		if err := h.games.Join(ctx, p.PIN, conn.ID, p.Username); err != nil {
			h.sendError(conn, err)
			return
		}
		h.hub.Subscribe(p.PIN, conn)

	case MsgStartSession:
		var p pinPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		if err := h.games.Start(ctx, p.PIN, conn.ID); err != nil {
			h.sendError(conn, err)
		}

	case MsgSubmitVote:
		var p votePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		if err := h.games.Vote(ctx, p.PIN, conn.ID, p.Answer); err != nil {
			h.sendError(conn, err)
		}

	case MsgRevealResults:
		var p pinPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		if err := h.games.Reveal(ctx, p.PIN, conn.ID); err != nil {
			h.sendError(conn, err)
		}

	case MsgAdvanceQuestion:
		var p pinPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		if err := h.games.Advance(ctx, p.PIN, conn.ID); err != nil {
			h.sendError(conn, err)
		}
	}
}

func (h *Handler) sendError(conn *Connection, err error) {
	h.hub.SendToConnection(conn.ID, model.EventError, model.ErrorPayload{
		Code:    service.ErrorCode(err),
		Message: err.Error(),
	})
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
