package service

import (
	"context"
	"errors"
	"time"

	"github.com/courierhq/courier/internal/domain"
	"github.com/courierhq/courier/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
	hasher   *PasswordHasher
}

func NewUserService(userRepo repository.UserRepository, hasher *PasswordHasher) *UserService {
	return &UserService{
		userRepo: userRepo,
		hasher:   hasher,
	}
}

type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// Register hashes the password and persists a new user. The returned record
// carries the stored hash; callers exposing it externally must filter that
// field out. Duplicate usernames surface as domain.ErrUserExists, decided
// solely by the storage constraint.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:  input.Username,
		Password:  hashed,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		JoinAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate checks credentials. An unknown username is reported as false,
// not an error, so this path cannot be used to enumerate usernames.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (bool, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return s.hasher.Verify(password, user.Password), nil
}

// UpdateLoginTimestamp stamps last_login_at and returns the new value. A
// missing user is detected from the update's affected-row count, so there is
// no window between an existence check and the write.
func (s *UserService) UpdateLoginTimestamp(ctx context.Context, username string) (time.Time, error) {
	now := time.Now()
	affected, err := s.userRepo.UpdateLastLogin(ctx, username, now)
	if err != nil {
		return time.Time{}, err
	}
	if affected == 0 {
		return time.Time{}, domain.ErrUserNotFound
	}
	return now, nil
}

func (s *UserService) All(ctx context.Context) ([]domain.PublicIdentity, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	listing := make([]domain.PublicIdentity, 0, len(users))
	for _, u := range users {
		listing = append(listing, u.Public())
	}
	return listing, nil
}

func (s *UserService) Get(ctx context.Context, username string) (*domain.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}
