package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/vishwam-chepuri/matching-app/internal/models"
)

func Health(c *fiber.Ctx) error {
	return c.JSON(models.HealthResponse{Status: "ok", Time: time.Now().UTC()})
}
