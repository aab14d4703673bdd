package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/vishwam-chepuri/matching-app/internal/models"
	"github.com/vishwam-chepuri/matching-app/internal/service"
	"go.uber.org/zap"
)

var errBadID = errors.New("invalid id")

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrUnsupportedType),
		errors.Is(err, service.ErrTooLarge),
		errors.Is(err, service.ErrPhotoLimit),
		errors.Is(err, service.ErrInvalidOperation):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// errorMessage is the client-facing text for err. Unexpected errors never
// leak their details.
func errorMessage(err error) string {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		return "internal server error"
	}
	if msg := service.Message(err); msg != "" {
		return msg
	}
	return utils.StatusMessage(status)
}

func writeError(c *fiber.Ctx, log *zap.Logger, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}
	return c.Status(status).JSON(models.ErrorResponse(errorMessage(err)))
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(msg))
}

func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 32)
	if err != nil || id == 0 {
		return 0, errBadID
	}
	return uint(id), nil
}

// ErrorHandler renders errors that escape handlers, such as unknown
// routes or oversized bodies, in the common error shape.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(models.ErrorResponse(fe.Message))
		}
		return writeError(c, log, err)
	}
}
