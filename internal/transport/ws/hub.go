package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Inbound message types (client -> core)
const (
	MsgCreateSession   MessageType = "create_session"
	MsgJoinSession     MessageType = "join_session"
	MsgStartSession    MessageType = "start_session"
	MsgSubmitVote      MessageType = "submit_vote"
	MsgRevealResults   MessageType = "reveal_results"
	MsgAdvanceQuestion MessageType = "advance_question"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Hub manages WebSocket connections and their session membership. It knows
// nothing about game rules: just "send to connection X" and "broadcast to
// everyone in session P".
type Hub struct {
	conns    map[string]*Connection            // connID -> conn
	sessions map[string]map[string]*Connection // pin -> connID -> conn

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *outbound
}

// Connection represents a WebSocket connection
type Connection struct {
	ID   string
	PIN  string // set once the connection creates or joins a session
	Send chan []byte
	Hub  *Hub
}

type outbound struct {
	connID  string // exact-one target; empty means session broadcast
	pin     string
	message *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]*Connection),
		sessions:   make(map[string]map[string]*Connection),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *outbound, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.conns[conn.ID] = conn
			h.mu.Unlock()
			log.Printf("Connection %s registered", conn.ID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if existing, ok := h.conns[conn.ID]; ok && existing == conn {
				delete(h.conns, conn.ID)
				if conn.PIN != "" {
					if members, ok := h.sessions[conn.PIN]; ok {
						delete(members, conn.ID)
						if len(members) == 0 {
							delete(h.sessions, conn.PIN)
						}
					}
				}
				close(conn.Send)
				log.Printf("Connection %s unregistered", conn.ID)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.message)

			if msg.connID != "" {
				if conn, ok := h.conns[msg.connID]; ok {
					select {
					case conn.Send <- data:
					default:
						// Drop message if buffer full
					}
				}
			} else if members, ok := h.sessions[msg.pin]; ok {
				for _, conn := range members {
					select {
					case conn.Send <- data:
					default:
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Subscribe adds a connection to a session's broadcast set, once it has
// successfully created or joined that session.
func (h *Hub) Subscribe(pin string, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sessions[pin] == nil {
		h.sessions[pin] = make(map[string]*Connection)
	}
	h.sessions[pin][conn.ID] = conn
	conn.PIN = pin
}

// SendToConnection sends an event to one connection (implements service.Broadcaster)
func (h *Hub) SendToConnection(connID string, event string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &outbound{
		connID: connID,
		message: &Message{
			Type:    MessageType(event),
			Payload: data,
		},
	}
}

// BroadcastToSession sends an event to every connection in a session
// (implements service.Broadcaster)
func (h *Hub) BroadcastToSession(pin string, event string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &outbound{
		pin: pin,
		message: &Message{
			Type:    MessageType(event),
			Payload: data,
		},
	}
}
