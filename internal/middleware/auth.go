// Package middleware provides the fiber middleware that guards the API:
// bearer-token authentication, role checks and idempotent replay.
package middleware

import (
	"strings"

	"topup/internal/services/auth"
	"topup/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// AuthMiddleware validates bearer tokens and attaches the caller to the
// request context.
type AuthMiddleware struct {
	authService auth.Service
	log         *logrus.Logger
}

func NewAuthMiddleware(authService auth.Service, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		log:         log,
	}
}

// Handler requires an "Authorization: Bearer <token>" header. On success the
// user and claims are stored under utils.LocalsUser and utils.LocalsClaims.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return utils.Unauthorized(c, "Missing authorization header")
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return utils.Unauthorized(c, "Invalid authorization format")
	}

	user, claims, err := m.authService.Authenticate(c.UserContext(), strings.TrimSpace(token))
	if err != nil {
		m.log.WithError(err).WithField("path", c.Path()).Debug("authentication failed")
		return utils.Unauthorized(c, "Invalid or expired token")
	}

	c.Locals(utils.LocalsClaims, claims)
	c.Locals(utils.LocalsUser, user)
	return c.Next()
}

// RequireRole rejects authenticated callers whose role differs from role.
// It must run after Handler.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.GetUserClaims(c)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		if claims.Role != role {
			return utils.Forbidden(c, "Insufficient permissions")
		}
		return c.Next()
	}
}
