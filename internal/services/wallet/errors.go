package wallet

import (
	"errors"

	"topup/internal/repositories"
)

// Service errors
var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidType       = errors.New("invalid transaction type")
	ErrInsufficientFunds = repositories.ErrInsufficientFunds
	ErrUserNotFound      = repositories.ErrUserNotFound
)
