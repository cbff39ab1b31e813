package handlers

import (
	"topup/internal/models"
	"topup/internal/services/auth"
	"topup/internal/services/user"
	"topup/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	authService auth.Service
	userService user.Service
	log         *logrus.Logger
}

func NewAuthHandler(authService auth.Service, userService user.Service, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		log:         log,
	}
}

// Register creates a user account and returns a session token.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return HandleError(c, h.log, err)
	}

	session, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return HandleError(c, h.log, err)
	}

	return utils.Created(c, fiber.Map{
		"message":   "User registered successfully",
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
		"user":      session.User,
	})
}

// Login authenticates by email or phone and password.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return HandleError(c, h.log, err)
	}
	if req.LoginIdentifier() == "" || req.Password == "" {
		return utils.BadRequest(c, "Email or phone and password are required")
	}

	session, err := h.authService.Login(c.UserContext(), req.LoginIdentifier(), req.Password)
	if err != nil {
		return HandleError(c, h.log, err)
	}

	return utils.Success(c, fiber.Map{
		"message":   "Login successful",
		"token":     session.Token,
		"expiresAt": session.ExpiresAt,
		"user":      session.User,
	})
}

// Me returns the caller as currently stored. The copy attached by the auth
// middleware may come from the cache and lag behind the ledger.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	current, err := utils.CurrentUser(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	profile, err := h.userService.Profile(c.UserContext(), current.ID)
	if err != nil {
		return HandleError(c, h.log, err)
	}
	return utils.Success(c, fiber.Map{"user": profile})
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	current, err := utils.CurrentUser(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var req models.ChangePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return HandleError(c, h.log, err)
	}
	if err := h.authService.ChangePassword(c.UserContext(), current.ID, req.OldPassword, req.NewPassword); err != nil {
		return HandleError(c, h.log, err)
	}

	return utils.Message(c, fiber.StatusOK, "Password updated successfully")
}
