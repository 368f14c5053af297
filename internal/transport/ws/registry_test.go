package ws

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestClient() *Client {
	return &Client{
		send: make(chan []byte, sendBufSize),
		done: make(chan struct{}),
	}
}

func TestRegistry_Register_FirstConnectionIsOnlineEdge(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.New()

	// Given the user is offline
	req.False(registry.IsOnline(userID))

	// When the first connection registers
	cameOnline := registry.Register(userID, newTestClient())

	// Then the edge fires and the user is online
	req.True(cameOnline)
	req.True(registry.IsOnline(userID))
}

func TestRegistry_Register_SecondConnectionIsNoEdge(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.New()

	registry.Register(userID, newTestClient())

	// When a second device connects
	cameOnline := registry.Register(userID, newTestClient())

	// Then no edge fires but both connections are tracked
	req.False(cameOnline)
	req.Len(registry.ConnectionsOf(userID), 2)
}

func TestRegistry_Deregister_LastConnectionIsOfflineEdge(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.New()
	c1 := newTestClient()
	c2 := newTestClient()

	registry.Register(userID, c1)
	registry.Register(userID, c2)

	// When one of two connections drops, the user stays online
	req.False(registry.Deregister(userID, c1))
	req.True(registry.IsOnline(userID))

	// When the last connection drops, the offline edge fires
	req.True(registry.Deregister(userID, c2))
	req.False(registry.IsOnline(userID))
	req.Empty(registry.ConnectionsOf(userID))
}

func TestRegistry_Deregister_UnknownClientIsNoOp(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.New()

	req.False(registry.Deregister(userID, newTestClient()))

	registry.Register(userID, newTestClient())
	req.False(registry.Deregister(userID, newTestClient()))
	req.True(registry.IsOnline(userID))
}

func TestRegistry_OnlineUsers(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	alice := uuid.New()
	bob := uuid.New()
	bobClient := newTestClient()

	registry.Register(alice, newTestClient())
	registry.Register(bob, bobClient)
	req.ElementsMatch([]uuid.UUID{alice, bob}, registry.OnlineUsers())

	registry.Deregister(bob, bobClient)
	req.ElementsMatch([]uuid.UUID{alice}, registry.OnlineUsers())
}

// A user is online iff its live-connection set is non-empty, under any
// sequence of register/deregister calls.
func TestRegistry_OnlineMatchesConnectionCount_RandomOps(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	rng := rand.New(rand.NewSource(1))

	users := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	live := make(map[uuid.UUID][]*Client)

	for i := 0; i < 1000; i++ {
		userID := users[rng.Intn(len(users))]

		if len(live[userID]) == 0 || rng.Intn(2) == 0 {
			c := newTestClient()
			edge := registry.Register(userID, c)
			req.Equal(len(live[userID]) == 0, edge)
			live[userID] = append(live[userID], c)
		} else {
			conns := live[userID]
			idx := rng.Intn(len(conns))
			edge := registry.Deregister(userID, conns[idx])
			req.Equal(len(conns) == 1, edge)
			live[userID] = append(conns[:idx], conns[idx+1:]...)
		}

		for _, u := range users {
			req.Equal(len(live[u]) > 0, registry.IsOnline(u))
			req.Len(registry.ConnectionsOf(u), len(live[u]))
		}
	}
}

func TestRegistry_ConcurrentRegisterDeregister(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.New()

	const sessions = 64
	var wg sync.WaitGroup
	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := newTestClient()
			registry.Register(userID, c)
			registry.IsOnline(userID)
			registry.Deregister(userID, c)
		}()
	}
	wg.Wait()

	// Every session registered and deregistered exactly once, so the user
	// must end up offline with no tracked connections.
	req.False(registry.IsOnline(userID))
	req.Empty(registry.ConnectionsOf(userID))
	req.Empty(registry.OnlineUsers())
}
