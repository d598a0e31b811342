package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/service"
	"github.com/noah-isme/lms-go-api/internal/utils"
)

// SubmissionHandler manages learner submission endpoints.
type SubmissionHandler struct {
	service service.SubmissionService
	logger  zerolog.Logger
}

// NewSubmissionHandler builds a submission handler instance.
func NewSubmissionHandler(service service.SubmissionService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches the learner routes. The guard runs per route because the
// instructor history route shares the /submissions prefix.
func (h *SubmissionHandler) Register(router fiber.Router, guard fiber.Handler) {
	router.Post("", guard, h.submit)
}

// RegisterInstructor attaches the instructor-facing submission history route.
func (h *SubmissionHandler) RegisterInstructor(router fiber.Router, guard fiber.Handler) {
	router.Get("/assignments/:id", guard, h.listForAssignment)
}

func (h *SubmissionHandler) submit(c *fiber.Ctx) error {
	var payload dto.SubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
	}

	result, err := h.service.Submit(c.UserContext(), userIDFromContext(c), payload)
	if err != nil {
		return handleError(c, h.logger, err, "SUBMISSION_FAILED")
	}

	// First submission creates the row, resubmission rewrites it.
	status := fiber.StatusOK
	if result.Created {
		status = fiber.StatusCreated
	}

	return utils.SendSuccessWithStatus(c, status, result.Response)
}

func (h *SubmissionHandler) listForAssignment(c *fiber.Ctx) error {
	assignmentID, err := parseUUIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}

	response, err := h.service.ListForAssignment(c.UserContext(), userIDFromContext(c), assignmentID)
	if err != nil {
		return handleError(c, h.logger, err, "SUBMISSION_LIST_FAILED")
	}

	return utils.SendSuccess(c, response)
}
