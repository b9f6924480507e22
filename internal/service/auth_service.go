package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/courierhq/courier/internal/config"
	"github.com/courierhq/courier/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

type AuthService struct {
	users *UserService
	cfg   *config.Config
}

func NewAuthService(users *UserService, cfg *config.Config) *AuthService {
	return &AuthService{
		users: users,
		cfg:   cfg,
	}
}

// Login verifies credentials, stamps the login time, and issues a token.
// Unknown users and wrong passwords both come back as
// domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	ok, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrInvalidCredentials
	}

	if _, err := s.users.UpdateLoginTimestamp(ctx, username); err != nil {
		return "", err
	}

	return s.generateToken(username)
}

// RegisterAndIssue registers a user and issues their first token. The login
// timestamp is stamped by a detached goroutine: its failure is logged and
// dropped, and token issuance never waits on it. The two writes are not
// transactionally linked, so a crash in between leaves a registered user with
// no login stamp.
func (s *AuthService) RegisterAndIssue(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	user, err := s.users.Register(ctx, input)
	if err != nil {
		return nil, "", err
	}

	token, err := s.generateToken(user.Username)
	if err != nil {
		return nil, "", err
	}

	go func() {
		stampCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := s.users.UpdateLoginTimestamp(stampCtx, user.Username); err != nil {
			log.Printf("ERROR [auth.RegisterAndIssue] login stamp for %q failed: %v", user.Username, err)
		}
	}()

	return user, token, nil
}

func (s *AuthService) generateToken(username string) (string, error) {
	claims := jwt.MapClaims{
		"sub": username,
		"exp": time.Now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ValidateToken checks the signature and returns the username claim.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})

	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}

	username, ok := claims["sub"].(string)
	if !ok || username == "" {
		return "", errors.New("missing username claim")
	}

	return username, nil
}
