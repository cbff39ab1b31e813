package handlers

import (
	"topup/internal/models"
	"topup/internal/services/wallet"
	"topup/internal/utils"
	"topup/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type WalletHandler struct {
	walletService wallet.Service
	log           *logrus.Logger
}

func NewWalletHandler(walletService wallet.Service, log *logrus.Logger) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		log:           log,
	}
}

func (h *WalletHandler) Balance(c *fiber.Ctx) error {
	user, err := utils.CurrentUser(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	balance, err := h.walletService.Balance(c.UserContext(), user.ID)
	if err != nil {
		return HandleError(c, h.log, err)
	}
	return utils.Success(c, fiber.Map{"balance": balance})
}

// AddMoney credits the caller's wallet.
func (h *WalletHandler) AddMoney(c *fiber.Ctx) error {
	user, err := utils.CurrentUser(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var req models.AddMoneyRequest
	if err := parseBody(c, &req); err != nil {
		return HandleError(c, h.log, err)
	}
	if err := validation.Check(req); err != nil {
		return HandleError(c, h.log, err)
	}

	receipt, err := h.walletService.Credit(c.UserContext(), user.ID, req.Amount)
	if err != nil {
		return HandleError(c, h.log, err)
	}

	return utils.Success(c, fiber.Map{
		"message":     "Money added successfully",
		"balance":     receipt.Balance,
		"transaction": receipt.Transaction,
	})
}

// Transactions lists the caller's transactions, optionally filtered by ?type=.
func (h *WalletHandler) Transactions(c *fiber.Ctx) error {
	user, err := utils.CurrentUser(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	txns, err := h.walletService.History(c.UserContext(), user.ID, c.Query("type"))
	if err != nil {
		return HandleError(c, h.log, err)
	}
	return utils.Success(c, fiber.Map{"transactions": txns})
}
