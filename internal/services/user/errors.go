package user

import "topup/internal/repositories"

var (
	ErrUserNotFound     = repositories.ErrUserNotFound
	ErrPhoneTaken       = repositories.ErrPhoneTaken
	ErrFavoriteExists   = repositories.ErrFavoriteExists
	ErrFavoriteNotFound = repositories.ErrFavoriteNotFound
)
