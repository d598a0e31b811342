package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lms-go-api/internal/service"
	"github.com/noah-isme/lms-go-api/internal/utils"
)

// GradesHandler serves the learner grade report.
type GradesHandler struct {
	service service.GradesService
	logger  zerolog.Logger
}

// NewGradesHandler builds a grades handler instance.
func NewGradesHandler(service service.GradesService, logger zerolog.Logger) *GradesHandler {
	return &GradesHandler{
		service: service,
		logger:  logger.With().Str("component", "grades_handler").Logger(),
	}
}

// Learner serves the per-course grade report for the calling learner.
func (h *GradesHandler) Learner(c *fiber.Ctx) error {
	response, err := h.service.LearnerGrades(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return handleError(c, h.logger, err, "GRADES_FAILED")
	}

	return utils.SendSuccess(c, response)
}
