package handler

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/vishwam-chepuri/matching-app/internal/filter"
	"github.com/vishwam-chepuri/matching-app/internal/middleware"
	"github.com/vishwam-chepuri/matching-app/internal/models"
	"github.com/vishwam-chepuri/matching-app/internal/service"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	profileService *service.ProfileService
	log            *zap.Logger
}

func NewProfileHandler(profileService *service.ProfileService, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		log:            log,
	}
}

// List accepts sort_by, sort_dir and every filter criterion as query
// parameters.
func (h *ProfileHandler) List(c *fiber.Ctx) error {
	var criteria filter.Criteria
	if err := c.QueryParser(&criteria); err != nil {
		return badRequest(c, "Invalid filter parameters")
	}

	profiles, err := h.profileService.List(c.UserContext(), middleware.CurrentUser(c),
		c.Query("sort_by"), c.Query("sort_dir"), criteria)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(profiles)
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid profile ID")
	}

	profile, err := h.profileService.Get(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(profile)
}

func (h *ProfileHandler) Create(c *fiber.Ctx) error {
	fields, err := parseProfileFields(c.Body())
	if err != nil {
		return badRequest(c, "Invalid request body")
	}

	profile, err := h.profileService.Create(c.UserContext(), middleware.CurrentUser(c), fields)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(profile)
}

func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid profile ID")
	}
	fields, err := parseProfileFields(c.Body())
	if err != nil {
		return badRequest(c, "Invalid request body")
	}

	profile, err := h.profileService.Update(c.UserContext(), middleware.CurrentUser(c), id, fields)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(profile)
}

func (h *ProfileHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid profile ID")
	}

	if err := h.profileService.Delete(c.UserContext(), middleware.CurrentUser(c), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parseProfileFields accepts both {"profile": {...}} and a bare object.
func parseProfileFields(body []byte) (models.ProfileFields, error) {
	var fields models.ProfileFields

	var wrapper struct {
		Profile json.RawMessage `json:"profile"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return fields, err
	}

	raw := json.RawMessage(body)
	if len(wrapper.Profile) > 0 && string(wrapper.Profile) != "null" {
		raw = wrapper.Profile
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fields, err
	}
	return fields, nil
}
