package utils

import (
	"errors"

	"topup/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by the auth middleware.
const (
	LocalsClaims = "claims"
	LocalsUser   = "user"
)

// GetUserClaims extracts the user claims from the Fiber context.
// It returns an error if the claims are missing or of an invalid type.
func GetUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	v := c.Locals(LocalsClaims)
	if v == nil {
		return nil, errors.New("claims not found in context")
	}

	claims, ok := v.(*models.UserClaims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}
	return claims, nil
}

// CurrentUser returns the authenticated user attached by the auth middleware.
func CurrentUser(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals(LocalsUser).(*models.User)
	if !ok || user == nil {
		return nil, errors.New("user not found in context")
	}
	return user, nil
}
