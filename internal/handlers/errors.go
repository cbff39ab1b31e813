// Package handlers holds the fiber handlers for the HTTP API. Handlers parse
// input, call one service and shape the JSON response; every service error
// is translated by HandleError.
package handlers

import (
	"errors"
	"fmt"

	"topup/internal/logger"
	"topup/internal/repositories"
	"topup/internal/services/auth"
	"topup/internal/services/recharge"
	"topup/internal/utils"
	"topup/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// HandleError writes the response for err. Unknown errors are logged and
// answered with a generic 500.
func HandleError(c *fiber.Ctx, log logrus.FieldLogger, err error) error {
	var declined *recharge.DeclinedError

	switch {
	case errors.Is(err, validation.ErrInvalid):
		return utils.ValidationFailed(c, validation.ToDetails(err))
	case errors.Is(err, auth.ErrInvalidCredentials):
		return utils.Unauthorized(c, "Invalid credentials")
	case errors.Is(err, auth.ErrUnauthorized):
		return utils.Unauthorized(c, "Unauthorized")
	case errors.Is(err, repositories.ErrInsufficientFunds):
		return utils.BadRequest(c, "Insufficient wallet balance")
	case errors.Is(err, repositories.ErrEmailTaken):
		return utils.Conflict(c, "Email already registered")
	case errors.Is(err, repositories.ErrPhoneTaken):
		return utils.Conflict(c, "Phone number already registered")
	case errors.Is(err, repositories.ErrFavoriteExists):
		return utils.Conflict(c, "Number is already a favorite")
	case errors.Is(err, repositories.ErrFavoriteNotFound):
		return utils.NotFound(c, "Favorite not found")
	case errors.Is(err, repositories.ErrUserNotFound):
		return utils.NotFound(c, "User not found")
	case errors.As(err, &declined):
		return utils.PaymentDeclined(c, declined.Reason)
	case errors.Is(err, recharge.ErrGatewayUnavailable):
		logger.LogError(log, "payment gateway unavailable", err, logrus.Fields{"path": c.Path()})
		return utils.BadGateway(c, "Payment gateway unavailable")
	default:
		logger.LogError(log, "request failed", err, logrus.Fields{
			"path":   c.Path(),
			"method": c.Method(),
		})
		return utils.InternalError(c)
	}
}

// parseBody decodes the JSON body into dst. Decoding failures are reported
// as validation errors.
func parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fmt.Errorf("%w: %w", validation.ErrInvalid, err)
	}
	return nil
}
