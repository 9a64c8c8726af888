package service

// Broadcaster interface for WebSocket delivery (avoids import cycle with
// transport/ws). The state machine never sees connections, only IDs and PINs.
type Broadcaster interface {
	SendToConnection(connID string, event string, payload interface{})
	BroadcastToSession(pin string, event string, payload interface{})
}
