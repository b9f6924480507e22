package service

import (
	"github.com/courierhq/courier/internal/config"
	"github.com/courierhq/courier/internal/repository"
)

type Services struct {
	User    *UserService
	Message *MessageService
	Auth    *AuthService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	userService := NewUserService(repos.User, NewPasswordHasher(cfg.BcryptCost))
	return &Services{
		User:    userService,
		Message: NewMessageService(repos.Message, repos.User),
		Auth:    NewAuthService(userService, cfg),
	}
}
