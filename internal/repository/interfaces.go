package repository

import (
	"context"
	"time"

	"github.com/courierhq/courier/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// UpdateLastLogin sets last_login_at for the given user and reports the
	// number of rows touched, so callers can detect a missing user without a
	// separate lookup.
	UpdateLastLogin(ctx context.Context, username string, at time.Time) (int64, error)
	Exists(ctx context.Context, username string) (bool, error)
}

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	GetByID(ctx context.Context, id uint) (*domain.Message, error)
	ListFrom(ctx context.Context, username string) ([]*domain.Message, error)
	ListTo(ctx context.Context, username string) ([]*domain.Message, error)
	MarkRead(ctx context.Context, id uint, at time.Time) (int64, error)
}

type Repositories struct {
	User    UserRepository
	Message MessageRepository
}
