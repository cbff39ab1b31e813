package auth

import (
	"errors"

	"topup/internal/repositories"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrEmailTaken         = repositories.ErrEmailTaken
	ErrPhoneTaken         = repositories.ErrPhoneTaken
)
