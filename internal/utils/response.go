package utils

import "github.com/gofiber/fiber/v2"

// Respond sends a JSON response with the specified status code.
func Respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// Success sends a successful JSON response.
func Success(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusOK, data)
}

// Created sends a JSON response with status 201.
func Created(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusCreated, data)
}

// Message sends {"message": message} with the given status.
func Message(c *fiber.Ctx, status int, message string) error {
	return Respond(c, status, fiber.Map{"message": message})
}

// ValidationFailed sends a 400 with per-field details.
func ValidationFailed(c *fiber.Ctx, details map[string]string) error {
	return Respond(c, fiber.StatusBadRequest, fiber.Map{
		"message": "Validation failed",
		"errors":  details,
	})
}

// BadRequest sends a JSON error response with status 400.
func BadRequest(c *fiber.Ctx, message string) error {
	return Message(c, fiber.StatusBadRequest, message)
}

// Unauthorized sends a JSON error response with status 401.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Message(c, fiber.StatusUnauthorized, message)
}

// PaymentDeclined sends a 402 with the gateway's decline reason.
func PaymentDeclined(c *fiber.Ctx, reason string) error {
	return Respond(c, fiber.StatusPaymentRequired, fiber.Map{
		"message": "Payment declined",
		"reason":  reason,
	})
}

// Forbidden sends a JSON error response with status 403.
func Forbidden(c *fiber.Ctx, message string) error {
	return Message(c, fiber.StatusForbidden, message)
}

// NotFound sends a JSON error response with status 404.
func NotFound(c *fiber.Ctx, message string) error {
	return Message(c, fiber.StatusNotFound, message)
}

// Conflict sends a JSON error response with status 409.
func Conflict(c *fiber.Ctx, message string) error {
	return Message(c, fiber.StatusConflict, message)
}

// InternalError sends the generic 500 body. The cause is never included.
func InternalError(c *fiber.Ctx) error {
	return Message(c, fiber.StatusInternalServerError, "Server error")
}

// BadGateway sends a JSON error response with status 502.
func BadGateway(c *fiber.Ctx, message string) error {
	return Message(c, fiber.StatusBadGateway, message)
}
