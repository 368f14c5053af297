package ws

import (
	"sync"

	"github.com/google/uuid"
)

// Registry is the process-wide source of truth for presence: which users have
// live connections, and which connections those are. A user appears in the
// map iff they have at least one live client, so membership is the online
// check. State is rebuilt from nothing on restart.
//
// Registry is safe for concurrent use by any number of sessions.
type Registry struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*Client]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[uuid.UUID]map[*Client]struct{}),
	}
}

// Register adds a connection under the user and reports whether this was the
// user's offline→online edge (first live connection).
func (r *Registry) Register(userID uuid.UUID, c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.clients[userID]
	if !ok {
		set = make(map[*Client]struct{})
		r.clients[userID] = set
	}
	set[c] = struct{}{}
	return !ok
}

// Deregister removes a connection and reports whether this was the user's
// online→offline edge (last live connection gone). Deregistering a client
// that was never registered is a no-op.
func (r *Registry) Deregister(userID uuid.UUID, c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.clients[userID]
	if !ok {
		return false
	}
	if _, ok := set[c]; !ok {
		return false
	}
	delete(set, c)
	if len(set) == 0 {
		delete(r.clients, userID)
		return true
	}
	return false
}

func (r *Registry) IsOnline(userID uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients[userID]) > 0
}

// ConnectionsOf returns a snapshot of the user's live connections; empty when
// offline.
func (r *Registry) ConnectionsOf(userID uuid.UUID) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]*Client, 0, len(r.clients[userID]))
	for c := range r.clients[userID] {
		conns = append(conns, c)
	}
	return conns
}

// OnlineUsers returns a snapshot of every user with at least one connection.
func (r *Registry) OnlineUsers() []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]uuid.UUID, 0, len(r.clients))
	for userID := range r.clients {
		users = append(users, userID)
	}
	return users
}
