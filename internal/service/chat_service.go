package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/IApofeoz/diplom/internal/domain"
	"github.com/IApofeoz/diplom/internal/repository"
)

var (
	ErrRecipientRequired = errors.New("recipient is required")
	ErrSenderRequired    = errors.New("sender is required")
	ErrContentRequired   = errors.New("message content is required")
)

// Notifier pushes real-time events to connected clients. Delivery is
// best-effort: a target with no live connections just misses the event and
// catches up from history.
type Notifier interface {
	NotifyNewMessage(msg *domain.Message)
	NotifyTyping(senderID, recipientID uuid.UUID)
	NotifyMessagesRead(readerID, senderID uuid.UUID)
	NotifyEditedMessage(senderID, recipientID, messageID uuid.UUID, content string)
	NotifyDeletedMessage(senderID, recipientID, messageID uuid.UUID)
}

// ChatService owns every state change a live session can ask for: send,
// edit, delete, mark-read, typing. Persistence always happens before fan-out,
// so a failed store operation produces no event at all.
type ChatService struct {
	messageRepo repository.MessageRepository
	notifier    Notifier
}

func NewChatService(messageRepo repository.MessageRepository) *ChatService {
	return &ChatService{messageRepo: messageRepo}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *ChatService) SetNotifier(n Notifier) {
	s.notifier = n
}

type SendInput struct {
	RecipientID uuid.UUID  `json:"recipient_id"`
	Content     string     `json:"content"`
	IsEncrypted bool       `json:"is_encrypted"`
	ReplyToID   *uuid.UUID `json:"reply_to_id,omitempty"`
}

func (s *ChatService) Send(ctx context.Context, senderID uuid.UUID, input SendInput) (*domain.Message, error) {
	if input.RecipientID == uuid.Nil {
		return nil, ErrRecipientRequired
	}
	if input.Content == "" {
		return nil, ErrContentRequired
	}

	msg := &domain.Message{
		ID:          uuid.New(),
		SenderID:    senderID,
		RecipientID: input.RecipientID,
		Content:     input.Content,
		IsRead:      false,
		IsEncrypted: input.IsEncrypted,
		ReplyToID:   input.ReplyToID,
		CreatedAt:   time.Now(),
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}

	full, err := s.messageRepo.GetByID(ctx, msg.ID)
	if err != nil {
		return nil, err
	}
	if full == nil {
		// Fresh row not visible to the read yet; what we stored is as good.
		full = msg
	}
	full.ReplyTo = s.resolveReply(ctx, full.ReplyToID)

	if s.notifier != nil {
		s.notifier.NotifyNewMessage(full)
	}

	return full, nil
}

// Typing forwards a typing indicator to the recipient. Nothing is persisted.
func (s *ChatService) Typing(senderID, recipientID uuid.UUID) error {
	if recipientID == uuid.Nil {
		return ErrRecipientRequired
	}
	if s.notifier != nil {
		s.notifier.NotifyTyping(senderID, recipientID)
	}
	return nil
}

// MarkRead flips every unread message from senderID to readerID to read, then
// tells the sender who read them. Running it again is a no-op that still
// reports success.
func (s *ChatService) MarkRead(ctx context.Context, readerID, senderID uuid.UUID) error {
	if senderID == uuid.Nil {
		return ErrSenderRequired
	}

	if _, err := s.messageRepo.BulkMarkRead(ctx, senderID, readerID); err != nil {
		return fmt.Errorf("marking messages read: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyMessagesRead(readerID, senderID)
	}
	return nil
}

// Edit replaces a message's content. Only the original sender may edit; a
// request from anyone else (or for a missing message) is dropped without
// feedback so message ids are not probeable by non-owners.
func (s *ChatService) Edit(ctx context.Context, requesterID, messageID uuid.UUID, content string) error {
	if content == "" {
		return ErrContentRequired
	}

	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg == nil || msg.SenderID != requesterID {
		return nil
	}

	msg.Content = content
	if err := s.messageRepo.Update(ctx, msg); err != nil {
		return fmt.Errorf("updating message: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyEditedMessage(msg.SenderID, msg.RecipientID, msg.ID, content)
	}
	return nil
}

// Delete removes a message outright, with the same owner-only silent-drop
// rule as Edit. Replies quoting the deleted message keep their reference;
// the quote just stops resolving.
func (s *ChatService) Delete(ctx context.Context, requesterID, messageID uuid.UUID) error {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg == nil || msg.SenderID != requesterID {
		return nil
	}

	if err := s.messageRepo.Delete(ctx, messageID); err != nil {
		return fmt.Errorf("deleting message: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyDeletedMessage(msg.SenderID, msg.RecipientID, msg.ID)
	}
	return nil
}

// History returns the full conversation between two users, oldest first,
// with reply quotes resolved.
func (s *ChatService) History(ctx context.Context, userID, otherID uuid.UUID) ([]domain.Message, error) {
	messages, err := s.messageRepo.ListBetween(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	s.resolveReplies(ctx, messages)
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

// SearchMessages finds conversation messages containing the query, newest
// first, with reply quotes resolved.
func (s *ChatService) SearchMessages(ctx context.Context, userID, otherID uuid.UUID, query string) ([]domain.Message, error) {
	messages, err := s.messageRepo.SearchBetween(ctx, userID, otherID, query)
	if err != nil {
		return nil, err
	}
	s.resolveReplies(ctx, messages)
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

func (s *ChatService) resolveReplies(ctx context.Context, messages []domain.Message) {
	for i := range messages {
		messages[i].ReplyTo = s.resolveReply(ctx, messages[i].ReplyToID)
	}
}

// resolveReply looks up the quoted message at read time. A missing referent
// is not an error: the reply simply has no quote anymore.
func (s *ChatService) resolveReply(ctx context.Context, replyToID *uuid.UUID) *domain.MessageReply {
	if replyToID == nil {
		return nil
	}
	referent, err := s.messageRepo.GetByID(ctx, *replyToID)
	if err != nil || referent == nil {
		return nil
	}
	return &domain.MessageReply{
		ID:             referent.ID,
		Content:        referent.Content,
		SenderUsername: referent.SenderUsername,
	}
}
