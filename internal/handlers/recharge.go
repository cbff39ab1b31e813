package handlers

import (
	"topup/internal/middleware"
	"topup/internal/models"
	"topup/internal/services/recharge"
	"topup/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type RechargeHandler struct {
	rechargeService recharge.Service
	log             *logrus.Logger
}

func NewRechargeHandler(rechargeService recharge.Service, log *logrus.Logger) *RechargeHandler {
	return &RechargeHandler{
		rechargeService: rechargeService,
		log:             log,
	}
}

func (h *RechargeHandler) Process(c *fiber.Ctx) error {
	user, err := utils.CurrentUser(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var req models.RechargeRequest
	if err := parseBody(c, &req); err != nil {
		return HandleError(c, h.log, err)
	}
	req.IdempotencyKey = c.Get(middleware.HeaderIdempotencyKey)

	receipt, err := h.rechargeService.Process(c.UserContext(), user, req)
	if err != nil {
		return HandleError(c, h.log, err)
	}

	return utils.Success(c, fiber.Map{
		"message":     "Recharge successful",
		"transaction": receipt.Transaction,
		"balance":     receipt.Balance,
	})
}

func (h *RechargeHandler) History(c *fiber.Ctx) error {
	user, err := utils.CurrentUser(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	txns, err := h.rechargeService.History(c.UserContext(), user.ID)
	if err != nil {
		return HandleError(c, h.log, err)
	}
	return utils.Success(c, fiber.Map{"transactions": txns})
}
