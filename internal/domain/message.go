package domain

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID          uuid.UUID  `json:"id"`
	SenderID    uuid.UUID  `json:"sender_id"`
	RecipientID uuid.UUID  `json:"recipient_id"`
	Content     string     `json:"content"`
	IsRead      bool       `json:"is_read"`
	IsEncrypted bool       `json:"is_encrypted"`
	ReplyToID   *uuid.UUID `json:"-"`
	CreatedAt   time.Time  `json:"timestamp"`
	// Joined fields
	SenderUsername string        `json:"sender_username,omitempty"`
	ReplyTo        *MessageReply `json:"reply_to,omitempty"`
}

// MessageReply is the resolved quote of the message a reply points to. It is
// built at read time from whatever the referent looks like right now; a
// deleted referent simply yields no MessageReply.
type MessageReply struct {
	ID             uuid.UUID `json:"id"`
	Content        string    `json:"content"`
	SenderUsername string    `json:"sender_username"`
}
