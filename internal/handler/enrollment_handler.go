package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/service"
	"github.com/noah-isme/lms-go-api/internal/utils"
)

// EnrollmentHandler manages learner enrollment endpoints.
type EnrollmentHandler struct {
	service service.EnrollmentService
	logger  zerolog.Logger
}

// NewEnrollmentHandler builds an enrollment handler instance.
func NewEnrollmentHandler(service service.EnrollmentService, logger zerolog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		service: service,
		logger:  logger.With().Str("component", "enrollment_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *EnrollmentHandler) Register(router fiber.Router) {
	router.Post("", h.enroll)
	router.Get("/mine", h.listMine)
	router.Delete("/:id", h.cancel)
}

func (h *EnrollmentHandler) enroll(c *fiber.Ctx) error {
	var payload dto.EnrollRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
	}

	response, err := h.service.Enroll(c.UserContext(), userIDFromContext(c), payload)
	if err != nil {
		return handleError(c, h.logger, err, "ENROLLMENT_FAILED")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, response)
}

func (h *EnrollmentHandler) cancel(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}

	response, err := h.service.Cancel(c.UserContext(), userIDFromContext(c), id)
	if err != nil {
		return handleError(c, h.logger, err, "CANCELLATION_FAILED")
	}

	return utils.SendSuccess(c, response)
}

func (h *EnrollmentHandler) listMine(c *fiber.Ctx) error {
	response, err := h.service.ListMine(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return handleError(c, h.logger, err, "ENROLLMENT_LIST_FAILED")
	}

	return utils.SendSuccess(c, response)
}
