package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/service"
	"github.com/noah-isme/lms-go-api/internal/utils"
)

// AssignmentHandler manages instructor assignment endpoints, both authoring
// and lifecycle transitions.
type AssignmentHandler struct {
	assignments service.AssignmentService
	lifecycle   service.AssignmentLifecycleService
	logger      zerolog.Logger
}

// NewAssignmentHandler builds an assignment handler instance.
func NewAssignmentHandler(assignments service.AssignmentService, lifecycle service.AssignmentLifecycleService, logger zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		assignments: assignments,
		lifecycle:   lifecycle,
		logger:      logger.With().Str("component", "assignment_handler").Logger(),
	}
}

// Register attaches the instructor routes. The guard runs per route because
// the operator sweep shares the /assignments prefix.
func (h *AssignmentHandler) Register(router fiber.Router, guard fiber.Handler) {
	router.Post("", guard, h.create)
	router.Get("/course/:courseId", guard, h.listByCourse)
	router.Get("/:id", guard, h.get)
	router.Patch("/:id", guard, h.update)
	router.Patch("/:id/publish", guard, h.publish)
	router.Patch("/:id/close", guard, h.close)
	router.Patch("/:id/extend-deadline", guard, h.extendDeadline)
	router.Patch("/:id/status", guard, h.updateStatus)
}

// RegisterSweep attaches the auto-close sweep, gated separately so only the
// scheduler identity can trigger it.
func (h *AssignmentHandler) RegisterSweep(router fiber.Router, guard fiber.Handler) {
	router.Post("/auto-close", guard, h.autoClose)
}

func (h *AssignmentHandler) create(c *fiber.Ctx) error {
	var payload dto.AssignmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
	}

	response, err := h.assignments.Create(c.UserContext(), userIDFromContext(c), payload)
	if err != nil {
		return handleError(c, h.logger, err, "ASSIGNMENT_CREATE_FAILED")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, response)
}

func (h *AssignmentHandler) get(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}

	response, err := h.assignments.Get(c.UserContext(), userIDFromContext(c), id)
	if err != nil {
		return handleError(c, h.logger, err, "ASSIGNMENT_FETCH_FAILED")
	}

	return utils.SendSuccess(c, response)
}

func (h *AssignmentHandler) listByCourse(c *fiber.Ctx) error {
	courseID, err := parseUUIDParam(c, "courseId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}

	response, err := h.assignments.ListByCourse(c.UserContext(), userIDFromContext(c), courseID)
	if err != nil {
		return handleError(c, h.logger, err, "ASSIGNMENT_LIST_FAILED")
	}

	return utils.SendSuccess(c, response)
}

func (h *AssignmentHandler) update(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}

	var payload dto.AssignmentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
	}

	response, err := h.assignments.Update(c.UserContext(), userIDFromContext(c), id, payload)
	if err != nil {
		return handleError(c, h.logger, err, "ASSIGNMENT_UPDATE_FAILED")
	}

	return utils.SendSuccess(c, response)
}

func (h *AssignmentHandler) publish(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}

	response, err := h.lifecycle.Publish(c.UserContext(), userIDFromContext(c), id)
	if err != nil {
		return handleError(c, h.logger, err, "PUBLISH_FAILED")
	}

	return utils.SendSuccess(c, response)
}

func (h *AssignmentHandler) close(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}

	response, err := h.lifecycle.Close(c.UserContext(), userIDFromContext(c), id)
	if err != nil {
		return handleError(c, h.logger, err, "CLOSE_FAILED")
	}

	return utils.SendSuccess(c, response)
}

func (h *AssignmentHandler) extendDeadline(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}

	var payload dto.ExtendDeadlineRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
	}

	response, err := h.lifecycle.ExtendDeadline(c.UserContext(), userIDFromContext(c), id, payload)
	if err != nil {
		return handleError(c, h.logger, err, "EXTEND_DEADLINE_FAILED")
	}

	return utils.SendSuccess(c, response)
}

func (h *AssignmentHandler) updateStatus(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}

	var payload dto.AssignmentStatusUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
	}

	response, err := h.lifecycle.UpdateStatus(c.UserContext(), userIDFromContext(c), id, payload)
	if err != nil {
		return handleError(c, h.logger, err, "STATUS_UPDATE_FAILED")
	}

	return utils.SendSuccess(c, response)
}

func (h *AssignmentHandler) autoClose(c *fiber.Ctx) error {
	response, err := h.lifecycle.AutoCloseDue(c.UserContext())
	if err != nil {
		return handleError(c, h.logger, err, "LIFECYCLE_FAILED")
	}

	return utils.SendSuccess(c, response)
}
