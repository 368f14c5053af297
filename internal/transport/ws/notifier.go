package ws

import (
	"github.com/google/uuid"

	"github.com/IApofeoz/diplom/internal/domain"
)

// HubNotifier implements service.Notifier using the WebSocket Hub.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

// NotifyNewMessage delivers to the recipient and to the sender's own
// connections, so every device of both parties renders the message at once.
func (n *HubNotifier) NotifyNewMessage(msg *domain.Message) {
	evt := NewMessageEvent{Type: EventTypeNewMessage, Message: *msg}
	n.hub.DeliverToUser(msg.RecipientID, evt)
	n.hub.DeliverToUser(msg.SenderID, evt)
}

func (n *HubNotifier) NotifyTyping(senderID, recipientID uuid.UUID) {
	n.hub.DeliverToUser(recipientID, UserTypingEvent{
		Type:     EventTypeUserTyping,
		SenderID: senderID,
	})
}

func (n *HubNotifier) NotifyMessagesRead(readerID, senderID uuid.UUID) {
	n.hub.DeliverToUser(senderID, MessagesReadEvent{
		Type:   EventTypeMessagesRead,
		UserID: readerID,
	})
}

func (n *HubNotifier) NotifyEditedMessage(senderID, recipientID, messageID uuid.UUID, content string) {
	evt := MessageEditedEvent{Type: EventTypeMessageEdited, ID: messageID, Content: content}
	n.hub.DeliverToUser(senderID, evt)
	n.hub.DeliverToUser(recipientID, evt)
}

func (n *HubNotifier) NotifyDeletedMessage(senderID, recipientID, messageID uuid.UUID) {
	evt := MessageDeletedEvent{Type: EventTypeMessageDeleted, ID: messageID}
	n.hub.DeliverToUser(senderID, evt)
	n.hub.DeliverToUser(recipientID, evt)
}
