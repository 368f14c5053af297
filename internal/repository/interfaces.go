package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/IApofeoz/diplom/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ListOthers(ctx context.Context, userID uuid.UUID) ([]domain.User, error)
	Search(ctx context.Context, userID uuid.UUID, query string) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error)
	ListBetween(ctx context.Context, userA, userB uuid.UUID) ([]domain.Message, error)
	LastBetween(ctx context.Context, userA, userB uuid.UUID) (*domain.Message, error)
	SearchBetween(ctx context.Context, userA, userB uuid.UUID, query string) ([]domain.Message, error)
	Update(ctx context.Context, msg *domain.Message) error
	Delete(ctx context.Context, id uuid.UUID) error
	BulkMarkRead(ctx context.Context, senderID, recipientID uuid.UUID) (int64, error)
}
