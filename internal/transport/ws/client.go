package ws

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"

	"github.com/IApofeoz/diplom/internal/service"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
	sendBufSize  = 256
)

// Client is one live WebSocket session: a single connection bound to a single
// authenticated user for its whole lifetime. It decodes inbound events and
// hands them to the chat service; outbound traffic goes through the buffered
// send channel so the hub never blocks on a slow socket.
type Client struct {
	conn     *websocket.Conn
	userID   uuid.UUID
	registry *Registry
	hub      *Hub
	chat     *service.ChatService

	send chan []byte
	done chan struct{}
}

func NewClient(conn *websocket.Conn, userID uuid.UUID, registry *Registry, hub *Hub, chat *service.ChatService) *Client {
	return &Client{
		conn:     conn,
		userID:   userID,
		registry: registry,
		hub:      hub,
		chat:     chat,
		send:     make(chan []byte, sendBufSize),
		done:     make(chan struct{}),
	}
}

// enqueue hands an already-marshaled event to the write pump. It never
// blocks; a full buffer means the event is dropped for this connection.
func (c *Client) enqueue(data []byte) bool {
	select {
	case c.send <- data:
		return true
	case <-c.done:
		return false
	default:
		return false
	}
}

// ReadPump receives inbound events until the transport closes, then runs the
// session's single cleanup: deregister, and broadcast the offline edge if
// this was the user's last connection.
func (c *Client) ReadPump() {
	defer func() {
		wentOffline := c.registry.Deregister(c.userID, c)
		close(c.done)
		c.conn.Close(websocket.StatusNormalClosure, "")
		if wentOffline {
			c.hub.BroadcastPresence(c.userID, "offline")
		}
	}()

	for {
		_, data, err := c.conn.Read(context.Background())
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				log.Printf("ws: client %s disconnected", c.userID)
			} else {
				log.Printf("ws: read error from %s: %v", c.userID, err)
			}
			return
		}

		var event InboundEvent
		if err := json.Unmarshal(data, &event); err != nil {
			// Malformed frames are dropped, not fatal.
			log.Printf("ws: malformed event from %s: %v", c.userID, err)
			continue
		}

		c.handleEvent(&event)
	}
}

// WritePump drains the send channel onto the socket and keeps the connection
// alive with pings. A write failure closes the socket, which unwinds
// ReadPump and triggers cleanup there.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message := <-c.send:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				log.Printf("ws: write error to %s: %v", c.userID, err)
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				log.Printf("ws: ping error to %s: %v", c.userID, err)
				return
			}

		case <-c.done:
			return
		}
	}
}

// handleEvent dispatches one inbound event. Events are handled strictly in
// arrival order; a failed or rejected operation is logged and dropped without
// tearing the session down.
func (c *Client) handleEvent(event *InboundEvent) {
	ctx := context.Background()

	switch event.Type {
	case EventTypeSend:
		_, err := c.chat.Send(ctx, c.userID, service.SendInput{
			RecipientID: event.RecipientID,
			Content:     event.Content,
			IsEncrypted: event.IsEncrypted,
			ReplyToID:   event.ReplyToID,
		})
		if err != nil {
			log.Printf("ws: send from %s failed: %v", c.userID, err)
		}

	case EventTypeTyping:
		if err := c.chat.Typing(c.userID, event.RecipientID); err != nil {
			log.Printf("ws: typing from %s failed: %v", c.userID, err)
		}

	case EventTypeReadMessages:
		if err := c.chat.MarkRead(ctx, c.userID, event.SenderID); err != nil {
			log.Printf("ws: read_messages from %s failed: %v", c.userID, err)
		}

	case EventTypeEditMessage:
		if err := c.chat.Edit(ctx, c.userID, event.MessageID, event.NewContent); err != nil {
			log.Printf("ws: edit_message from %s failed: %v", c.userID, err)
		}

	case EventTypeDeleteMessage:
		if err := c.chat.Delete(ctx, c.userID, event.MessageID); err != nil {
			log.Printf("ws: delete_message from %s failed: %v", c.userID, err)
		}

	default:
		log.Printf("ws: unknown event type %q from %s", event.Type, c.userID)
	}
}
