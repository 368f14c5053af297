package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"

	"github.com/IApofeoz/diplom/internal/domain"
	"github.com/IApofeoz/diplom/internal/service"
)

// memMessageRepo is just enough of a message store to run a live session.
type memMessageRepo struct {
	mu       sync.Mutex
	messages map[uuid.UUID]domain.Message
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{messages: make(map[uuid.UUID]domain.Message)}
}

func (m *memMessageRepo) Create(_ context.Context, msg *domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[msg.ID] = *msg
	return nil
}

func (m *memMessageRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg, ok := m.messages[id]; ok {
		return &msg, nil
	}
	return nil, nil
}

func (m *memMessageRepo) ListBetween(context.Context, uuid.UUID, uuid.UUID) ([]domain.Message, error) {
	return nil, nil
}

func (m *memMessageRepo) LastBetween(context.Context, uuid.UUID, uuid.UUID) (*domain.Message, error) {
	return nil, nil
}

func (m *memMessageRepo) SearchBetween(context.Context, uuid.UUID, uuid.UUID, string) ([]domain.Message, error) {
	return nil, nil
}

func (m *memMessageRepo) Update(_ context.Context, msg *domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[msg.ID] = *msg
	return nil
}

func (m *memMessageRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.messages, id)
	return nil
}

func (m *memMessageRepo) BulkMarkRead(context.Context, uuid.UUID, uuid.UUID) (int64, error) {
	return 0, nil
}

// newSessionServer runs ServeWS behind httptest with a verifier that accepts
// only the token "valid", bound to userID.
func newSessionServer(t *testing.T, userID uuid.UUID) (*httptest.Server, *Registry) {
	t.Helper()
	registry := NewRegistry()
	hub := NewHub(registry)
	chat := service.NewChatService(newMemMessageRepo())
	chat.SetNotifier(NewHubNotifier(hub))

	verify := func(token string) (uuid.UUID, error) {
		if token == "valid" {
			return userID, nil
		}
		return uuid.Nil, errors.New("unknown credential")
	}

	srv := httptest.NewServer(ServeWS(registry, hub, verify, chat))
	t.Cleanup(srv.Close)
	return srv, registry
}

func TestServeWS_BadTokenClosedWithPolicyViolation(t *testing.T) {
	req := require.New(t)
	srv, registry := newSessionServer(t, uuid.New())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// The handshake itself succeeds; the rejection arrives as a close frame.
	conn, _, err := websocket.Dial(ctx, srv.URL+"?token=wrong", nil)
	req.NoError(err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	_, _, err = conn.Read(ctx)
	req.Error(err)
	req.Equal(websocket.StatusPolicyViolation, websocket.CloseStatus(err))

	// The session never went live, so nobody came online.
	req.Empty(registry.OnlineUsers())
}

func TestServeWS_MalformedFrameIsDroppedNotFatal(t *testing.T) {
	req := require.New(t)
	userID := uuid.New()
	recipient := uuid.New()
	srv, registry := newSessionServer(t, userID)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, srv.URL+"?token=valid", nil)
	req.NoError(err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	// Going live fires the online edge; this connection sees it too.
	_, data, err := conn.Read(ctx)
	req.NoError(err)
	var status StatusUpdateEvent
	req.NoError(json.Unmarshal(data, &status))
	req.Equal(EventTypeStatusUpdate, status.Type)
	req.Equal(userID, status.UserID)
	req.Equal("online", status.Status)

	// A malformed frame is logged and dropped...
	req.NoError(conn.Write(ctx, websocket.MessageText, []byte(`{"type":`)))

	// ...and the session keeps processing what follows, in order.
	send := fmt.Sprintf(`{"type":"send","recipient_id":%q,"content":"still alive"}`, recipient)
	req.NoError(conn.Write(ctx, websocket.MessageText, []byte(send)))

	_, data, err = conn.Read(ctx)
	req.NoError(err)
	var evt NewMessageEvent
	req.NoError(json.Unmarshal(data, &evt))
	req.Equal(EventTypeNewMessage, evt.Type)
	req.Equal("still alive", evt.Content)
	req.Equal(userID, evt.SenderID)
	req.Equal(recipient, evt.RecipientID)

	req.True(registry.IsOnline(userID))
}
