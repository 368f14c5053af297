package ws

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"nhooyr.io/websocket"

	"github.com/IApofeoz/diplom/internal/service"
)

// TokenVerifier resolves the handshake credential to a user identity.
type TokenVerifier func(token string) (uuid.UUID, error)

// ServeWS returns an HTTP handler that upgrades to WebSocket.
// Auth is done via ?token=xxx query param (WebSocket can't send headers).
// A missing or invalid token closes the fresh connection with a policy
// violation before the session ever goes live.
func ServeWS(registry *Registry, hub *Hub, verify TokenVerifier, chat *service.ChatService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true, // Allow any origin (dev mode)
		})
		if err != nil {
			log.Printf("ws: accept error: %v", err)
			return
		}

		userID, err := verify(r.URL.Query().Get("token"))
		if err != nil {
			conn.Close(websocket.StatusPolicyViolation, "invalid token")
			return
		}

		client := NewClient(conn, userID, registry, hub, chat)
		if cameOnline := registry.Register(userID, client); cameOnline {
			hub.BroadcastPresence(userID, "online")
		}

		go client.WritePump()
		go client.ReadPump()
	}
}
