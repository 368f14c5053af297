package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	PhoneNumber  *string    `json:"phone_number,omitempty"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	AvatarURL    *string    `json:"avatar_url,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Contact is a user as shown in the contact list: the user plus a preview of
// the most recent message exchanged with the viewer, and live presence.
type Contact struct {
	ID              uuid.UUID  `json:"id"`
	Username        string     `json:"username"`
	LastMessage     *string    `json:"last_message,omitempty"`
	LastMessageTime *time.Time `json:"last_message_time,omitempty"`
	IsOnline        bool       `json:"is_online"`
	AvatarURL       *string    `json:"avatar_url,omitempty"`
	PhoneNumber     *string    `json:"phone_number,omitempty"`
	BirthDate       *time.Time `json:"birth_date,omitempty"`
}
