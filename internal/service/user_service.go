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
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidBirthDate = errors.New("birth date must be YYYY-MM-DD")
)

// Presence answers "does this user have a live connection right now". The
// WebSocket registry is the only implementation; the zero value used in tests
// reports everyone offline.
type Presence interface {
	IsOnline(userID uuid.UUID) bool
}

type offlinePresence struct{}

func (offlinePresence) IsOnline(uuid.UUID) bool { return false }

type UserService struct {
	userRepo    repository.UserRepository
	messageRepo repository.MessageRepository
	presence    Presence
}

func NewUserService(userRepo repository.UserRepository, messageRepo repository.MessageRepository) *UserService {
	return &UserService{
		userRepo:    userRepo,
		messageRepo: messageRepo,
		presence:    offlinePresence{},
	}
}

// SetPresence sets the live-presence source (optional dependency).
func (s *UserService) SetPresence(p Presence) {
	s.presence = p
}

func (s *UserService) Get(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Contacts lists every other user with a preview of the latest message in the
// shared conversation and live online state.
func (s *UserService) Contacts(ctx context.Context, userID uuid.UUID) ([]domain.Contact, error) {
	users, err := s.userRepo.ListOthers(ctx, userID)
	if err != nil {
		return nil, err
	}

	contacts := make([]domain.Contact, 0, len(users))
	for _, user := range users {
		contact := domain.Contact{
			ID:          user.ID,
			Username:    user.Username,
			IsOnline:    s.presence.IsOnline(user.ID),
			AvatarURL:   user.AvatarURL,
			PhoneNumber: user.PhoneNumber,
			BirthDate:   user.BirthDate,
		}

		last, err := s.messageRepo.LastBetween(ctx, userID, user.ID)
		if err != nil {
			return nil, fmt.Errorf("loading last message: %w", err)
		}
		if last != nil {
			contact.LastMessage = &last.Content
			t := last.CreatedAt
			contact.LastMessageTime = &t
		}

		contacts = append(contacts, contact)
	}
	return contacts, nil
}

func (s *UserService) Search(ctx context.Context, userID uuid.UUID, query string) ([]domain.User, error) {
	users, err := s.userRepo.Search(ctx, userID, query)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

type UpdateProfileInput struct {
	Username    *string `json:"username,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	BirthDate   *string `json:"birth_date,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

// UpdateProfile patches the caller's own profile fields; absent fields are
// left untouched.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if input.Username != nil && *input.Username != user.Username {
		existing, err := s.userRepo.GetByUsername(ctx, *input.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrUsernameTaken
		}
		user.Username = *input.Username
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = input.PhoneNumber
	}
	if input.BirthDate != nil {
		t, err := parseBirthDate(*input.BirthDate)
		if err != nil {
			return nil, err
		}
		user.BirthDate = t
	}
	if input.AvatarURL != nil {
		user.AvatarURL = input.AvatarURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	return user, nil
}

func parseBirthDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, ErrInvalidBirthDate
	}
	return &t, nil
}
