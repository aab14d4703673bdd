package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vishwam-chepuri/matching-app/internal/middleware"
	"github.com/vishwam-chepuri/matching-app/internal/models"
	"github.com/vishwam-chepuri/matching-app/internal/service"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	log         *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.authService.Login(c.UserContext(), req)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(resp)
}

// Logout is a no-op; tokens are stateless and the client drops its copy.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(models.NewUserResponse(middleware.CurrentUser(c)))
}
