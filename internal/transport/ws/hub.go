package ws

import (
	"encoding/json"
	"log"

	"github.com/google/uuid"
)

// Hub fans events out to live connections. Delivery is fire and forget: a
// connection that can't take the event (buffer full, session winding down)
// is skipped, and one bad target never blocks the others. Users with no
// connections just miss the event; they catch up from message history.
type Hub struct {
	registry *Registry
}

func NewHub(registry *Registry) *Hub {
	return &Hub{registry: registry}
}

// DeliverToUser sends the event to every live connection of one user and
// returns how many connections accepted it.
func (h *Hub) DeliverToUser(userID uuid.UUID, event any) int {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws hub: marshal error: %v", err)
		return 0
	}
	return h.deliver(userID, data)
}

func (h *Hub) deliver(userID uuid.UUID, data []byte) int {
	delivered := 0
	for _, c := range h.registry.ConnectionsOf(userID) {
		if c.enqueue(data) {
			delivered++
		} else {
			log.Printf("ws hub: dropped event for user %s (slow connection)", userID)
		}
	}
	return delivered
}

// BroadcastPresence tells every online user (the subject included, which is
// harmless) that a user crossed an online/offline edge. Callers invoke this
// only on the edge itself, never on every connection open or close.
func (h *Hub) BroadcastPresence(userID uuid.UUID, status string) {
	data, err := json.Marshal(StatusUpdateEvent{
		Type:   EventTypeStatusUpdate,
		UserID: userID,
		Status: status,
	})
	if err != nil {
		log.Printf("ws hub: marshal error: %v", err)
		return
	}
	for _, target := range h.registry.OnlineUsers() {
		h.deliver(target, data)
	}
}
