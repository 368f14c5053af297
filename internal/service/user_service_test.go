package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/IApofeoz/diplom/internal/domain"
)

type mapPresence map[uuid.UUID]bool

func (m mapPresence) IsOnline(userID uuid.UUID) bool { return m[userID] }

func TestUserService_Contacts_PreviewAndPresence(t *testing.T) {
	req := require.New(t)
	userRepo := newFakeUserRepo()
	messageRepo := newFakeMessageRepo()
	svc := NewUserService(userRepo, messageRepo)

	me := domain.User{ID: uuid.New(), Username: "me", Email: "me@example.com"}
	alice := domain.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}
	bob := domain.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com"}
	for _, u := range []domain.User{me, alice, bob} {
		req.NoError(userRepo.Create(context.Background(), &u))
	}
	svc.SetPresence(mapPresence{alice.ID: true})

	req.NoError(messageRepo.Create(context.Background(), &domain.Message{
		ID: uuid.New(), SenderID: alice.ID, RecipientID: me.ID,
		Content: "hello", CreatedAt: time.Now(),
	}))

	contacts, err := svc.Contacts(context.Background(), me.ID)
	req.NoError(err)
	req.Len(contacts, 2, "the caller is not their own contact")

	byName := make(map[string]domain.Contact)
	for _, c := range contacts {
		byName[c.Username] = c
	}

	req.True(byName["alice"].IsOnline)
	req.NotNil(byName["alice"].LastMessage)
	req.Equal("hello", *byName["alice"].LastMessage)
	req.NotNil(byName["alice"].LastMessageTime)

	req.False(byName["bob"].IsOnline)
	req.Nil(byName["bob"].LastMessage, "no conversation yet")
}

func TestUserService_UpdateProfile(t *testing.T) {
	req := require.New(t)
	userRepo := newFakeUserRepo()
	svc := NewUserService(userRepo, newFakeMessageRepo())

	user := domain.User{ID: uuid.New(), Username: "old", Email: "me@example.com"}
	taken := domain.User{ID: uuid.New(), Username: "taken", Email: "other@example.com"}
	req.NoError(userRepo.Create(context.Background(), &user))
	req.NoError(userRepo.Create(context.Background(), &taken))

	name := "fresh"
	phone := "+123456"
	birth := "1999-12-31"
	updated, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		Username:    &name,
		PhoneNumber: &phone,
		BirthDate:   &birth,
	})
	req.NoError(err)
	req.Equal("fresh", updated.Username)
	req.Equal("+123456", *updated.PhoneNumber)
	req.Equal(1999, updated.BirthDate.Year())

	conflict := "taken"
	_, err = svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{Username: &conflict})
	req.ErrorIs(err, ErrUsernameTaken)

	bad := "31/12/1999"
	_, err = svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{BirthDate: &bad})
	req.ErrorIs(err, ErrInvalidBirthDate)

	_, err = svc.UpdateProfile(context.Background(), uuid.New(), UpdateProfileInput{})
	req.ErrorIs(err, ErrUserNotFound)
}
