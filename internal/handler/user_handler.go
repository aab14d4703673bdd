package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vishwam-chepuri/matching-app/internal/middleware"
	"github.com/vishwam-chepuri/matching-app/internal/models"
	"github.com/vishwam-chepuri/matching-app/internal/service"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService *service.UserService
	log         *zap.Logger
}

func NewUserHandler(userService *service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		log:         log,
	}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.userService.List(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(users)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	var req models.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.userService.Update(c.UserContext(), middleware.CurrentUser(c), id, req)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(user)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	if err := h.userService.Delete(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
