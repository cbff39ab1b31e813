package handlers

import (
	"topup/internal/services/user"
	"topup/internal/services/wallet"
	"topup/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// AdminHandler serves the read-only admin views. Routes are guarded by
// middleware.RequireRole.
type AdminHandler struct {
	userService   user.Service
	walletService wallet.Service
	log           *logrus.Logger
}

func NewAdminHandler(userService user.Service, walletService wallet.Service, log *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		userService:   userService,
		walletService: walletService,
		log:           log,
	}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.userService.ListUsers(c.UserContext())
	if err != nil {
		return HandleError(c, h.log, err)
	}
	return utils.Success(c, fiber.Map{"users": users})
}

func (h *AdminHandler) ListTransactions(c *fiber.Ctx) error {
	txns, err := h.walletService.AllTransactions(c.UserContext())
	if err != nil {
		return HandleError(c, h.log, err)
	}
	return utils.Success(c, fiber.Map{"transactions": txns})
}
