package domain

import "errors"

var (
	ErrUserExists         = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrMessageNotFound    = errors.New("message not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
