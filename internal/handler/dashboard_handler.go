package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lms-go-api/internal/service"
	"github.com/noah-isme/lms-go-api/internal/utils"
)

// DashboardHandler serves the role-specific dashboard projections.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler builds a dashboard handler instance.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Learner serves the learner home view.
func (h *DashboardHandler) Learner(c *fiber.Ctx) error {
	response, err := h.service.LearnerDashboard(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return handleError(c, h.logger, err, "DASHBOARD_FAILED")
	}

	return utils.SendSuccess(c, response)
}

// Instructor serves the instructor home view.
func (h *DashboardHandler) Instructor(c *fiber.Ctx) error {
	response, err := h.service.InstructorDashboard(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return handleError(c, h.logger, err, "DASHBOARD_FAILED")
	}

	return utils.SendSuccess(c, response)
}

// Operator serves the platform-wide statistics view.
func (h *DashboardHandler) Operator(c *fiber.Ctx) error {
	response, err := h.service.OperatorDashboard(c.UserContext())
	if err != nil {
		return handleError(c, h.logger, err, "DASHBOARD_FAILED")
	}

	return utils.SendSuccess(c, response)
}
