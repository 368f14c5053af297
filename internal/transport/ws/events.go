package ws

import (
	"github.com/google/uuid"

	"github.com/IApofeoz/diplom/internal/domain"
)

// Event types - Client → Server
const (
	EventTypeSend          = "send"
	EventTypeTyping        = "typing"
	EventTypeReadMessages  = "read_messages"
	EventTypeEditMessage   = "edit_message"
	EventTypeDeleteMessage = "delete_message"
)

// Event types - Server → Client
const (
	EventTypeNewMessage     = "new_message"
	EventTypeUserTyping     = "user_typing"
	EventTypeMessagesRead   = "messages_read"
	EventTypeMessageEdited  = "message_edited"
	EventTypeMessageDeleted = "message_deleted"
	EventTypeStatusUpdate   = "status_update"
)

// InboundEvent is the flat envelope every client event arrives in. The type
// discriminator decides which of the remaining fields matter; the rest stay
// at their zero values.
type InboundEvent struct {
	Type        string     `json:"type"`
	RecipientID uuid.UUID  `json:"recipient_id,omitempty"`
	SenderID    uuid.UUID  `json:"sender_id,omitempty"`
	MessageID   uuid.UUID  `json:"message_id,omitempty"`
	Content     string     `json:"content,omitempty"`
	NewContent  string     `json:"new_content,omitempty"`
	IsEncrypted bool       `json:"is_encrypted,omitempty"`
	ReplyToID   *uuid.UUID `json:"reply_to_id,omitempty"`
}

// --- Server → Client events ---

// NewMessageEvent carries the full persisted message, reply quote included.
type NewMessageEvent struct {
	Type string `json:"type"`
	domain.Message
}

type UserTypingEvent struct {
	Type     string    `json:"type"`
	SenderID uuid.UUID `json:"sender_id"`
}

// MessagesReadEvent tells a sender that UserID has read their messages.
type MessagesReadEvent struct {
	Type   string    `json:"type"`
	UserID uuid.UUID `json:"user_id"`
}

type MessageEditedEvent struct {
	Type    string    `json:"type"`
	ID      uuid.UUID `json:"id"`
	Content string    `json:"content"`
}

type MessageDeletedEvent struct {
	Type string    `json:"type"`
	ID   uuid.UUID `json:"id"`
}

type StatusUpdateEvent struct {
	Type   string    `json:"type"`
	UserID uuid.UUID `json:"user_id"`
	Status string    `json:"status"` // "online" | "offline"
}
