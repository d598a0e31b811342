package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/service"
	"github.com/noah-isme/lms-go-api/internal/utils"
)

// GradingHandler manages instructor grading endpoints.
type GradingHandler struct {
	service service.GradingService
	logger  zerolog.Logger
}

// NewGradingHandler builds a grading handler instance.
func NewGradingHandler(service service.GradingService, logger zerolog.Logger) *GradingHandler {
	return &GradingHandler{
		service: service,
		logger:  logger.With().Str("component", "grading_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *GradingHandler) Register(router fiber.Router) {
	router.Post("/submissions/:id/grade", h.grade)
	router.Get("/submissions/:id/history", h.history)
	router.Post("/batch-grade", h.batchGrade)
}

func (h *GradingHandler) grade(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}

	var payload dto.GradeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
	}

	response, err := h.service.Grade(c.UserContext(), userIDFromContext(c), id, payload)
	if err != nil {
		return handleError(c, h.logger, err, "GRADING_FAILED")
	}

	return utils.SendSuccess(c, response)
}

func (h *GradingHandler) batchGrade(c *fiber.Ctx) error {
	var payload dto.BatchGradeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
	}

	response, err := h.service.BatchGrade(c.UserContext(), userIDFromContext(c), payload)
	if err != nil {
		return handleError(c, h.logger, err, "GRADING_FAILED")
	}

	return utils.SendSuccess(c, response)
}

func (h *GradingHandler) history(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}

	response, err := h.service.History(c.UserContext(), userIDFromContext(c), id)
	if err != nil {
		return handleError(c, h.logger, err, "GRADING_HISTORY_FAILED")
	}

	return utils.SendSuccess(c, response)
}
