package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/service"
	"github.com/noah-isme/lms-go-api/internal/utils"
)

// CourseHandler manages instructor course endpoints.
type CourseHandler struct {
	service service.CourseService
	logger  zerolog.Logger
}

// NewCourseHandler builds a course handler instance.
func NewCourseHandler(service service.CourseService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		service: service,
		logger:  logger.With().Str("component", "course_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group. The guard runs
// per route because the catalog shares the /courses prefix.
func (h *CourseHandler) Register(router fiber.Router, guard fiber.Handler) {
	router.Post("", guard, h.create)
	router.Get("/mine", guard, h.listMine)
	router.Patch("/:id", guard, h.update)
	router.Patch("/:id/status", guard, h.updateStatus)
}

func (h *CourseHandler) create(c *fiber.Ctx) error {
	var payload dto.CourseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
	}

	response, err := h.service.Create(c.UserContext(), userIDFromContext(c), payload)
	if err != nil {
		return handleError(c, h.logger, err, "COURSE_CREATE_FAILED")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, response)
}

func (h *CourseHandler) update(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}

	var payload dto.CourseUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
	}

	response, err := h.service.Update(c.UserContext(), userIDFromContext(c), id, payload)
	if err != nil {
		return handleError(c, h.logger, err, "COURSE_UPDATE_FAILED")
	}

	return utils.SendSuccess(c, response)
}

func (h *CourseHandler) updateStatus(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}

	var payload dto.CourseStatusUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
	}

	response, err := h.service.UpdateStatus(c.UserContext(), userIDFromContext(c), id, payload)
	if err != nil {
		return handleError(c, h.logger, err, "STATUS_UPDATE_FAILED")
	}

	return utils.SendSuccess(c, response)
}

func (h *CourseHandler) listMine(c *fiber.Ctx) error {
	response, err := h.service.ListOwned(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return handleError(c, h.logger, err, "COURSE_LIST_FAILED")
	}

	return utils.SendSuccess(c, response)
}
