package handlers

import (
	"topup/internal/models"
	"topup/internal/services/user"
	"topup/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	userService user.Service
	log         *logrus.Logger
}

func NewUserHandler(userService user.Service, log *logrus.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		log:         log,
	}
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
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

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	current, err := utils.CurrentUser(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var req models.UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return HandleError(c, h.log, err)
	}

	updated, err := h.userService.UpdateProfile(c.UserContext(), current.ID, req)
	if err != nil {
		return HandleError(c, h.log, err)
	}
	return utils.Success(c, fiber.Map{
		"message": "Profile updated successfully",
		"user":    updated,
	})
}

func (h *UserHandler) GetFavorites(c *fiber.Ctx) error {
	current, err := utils.CurrentUser(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	favorites, err := h.userService.Favorites(c.UserContext(), current.ID)
	if err != nil {
		return HandleError(c, h.log, err)
	}
	return utils.Success(c, fiber.Map{"favorites": favorites})
}

func (h *UserHandler) AddFavorite(c *fiber.Ctx) error {
	current, err := utils.CurrentUser(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var fav models.Favorite
	if err := parseBody(c, &fav); err != nil {
		return HandleError(c, h.log, err)
	}

	favorites, err := h.userService.AddFavorite(c.UserContext(), current.ID, fav)
	if err != nil {
		return HandleError(c, h.log, err)
	}
	return utils.Created(c, fiber.Map{
		"message":   "Favorite added",
		"favorites": favorites,
	})
}

func (h *UserHandler) RemoveFavorite(c *fiber.Ctx) error {
	current, err := utils.CurrentUser(c)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	favorites, err := h.userService.RemoveFavorite(c.UserContext(), current.ID, c.Params("number"))
	if err != nil {
		return HandleError(c, h.log, err)
	}
	return utils.Success(c, fiber.Map{
		"message":   "Favorite removed",
		"favorites": favorites,
	})
}
