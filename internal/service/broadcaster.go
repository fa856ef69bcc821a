package service

// Broadcaster fans events out over the real-time channel (the ws hub
// implements it; defined here to avoid an import cycle). Delivery is best
// effort and fire-and-forget: a slow or absent subscriber never fails the
// mutation that triggered the event.
type Broadcaster interface {
	// BroadcastToRoom sends to every connection subscribed to the room topic.
	BroadcastToRoom(roomID string, msgType string, payload interface{})
	// SendToUser sends to one user's connection, if currently mapped.
	SendToUser(userID string, msgType string, payload interface{})
}

// noopBroadcaster is used until a real one is injected.
type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastToRoom(string, string, interface{}) {}
func (noopBroadcaster) SendToUser(string, string, interface{})     {}
