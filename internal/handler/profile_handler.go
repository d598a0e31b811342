package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/service"
	"github.com/noah-isme/lms-go-api/internal/utils"
)

// ProfileHandler manages onboarding and profile endpoints.
type ProfileHandler struct {
	service service.OnboardingService
	logger  zerolog.Logger
}

// NewProfileHandler builds a profile handler instance.
func NewProfileHandler(service service.OnboardingService, logger zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		logger:  logger.With().Str("component", "profile_handler").Logger(),
	}
}

// RegisterOnboarding attaches the public signup route.
func (h *ProfileHandler) RegisterOnboarding(router fiber.Router) {
	router.Post("/signup", h.signup)
}

// RegisterProfile attaches the authenticated profile routes.
func (h *ProfileHandler) RegisterProfile(router fiber.Router) {
	router.Get("", h.get)
	router.Patch("", h.update)
}

func (h *ProfileHandler) signup(c *fiber.Ctx) error {
	var payload dto.SignupRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
	}

	response, err := h.service.Signup(c.UserContext(), payload)
	if err != nil {
		return handleError(c, h.logger, err, "SIGNUP_FAILED")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, response)
}

func (h *ProfileHandler) get(c *fiber.Ctx) error {
	response, err := h.service.GetProfile(c.UserContext(), userIDFromContext(c))
	if err != nil {
		return handleError(c, h.logger, err, "PROFILE_FETCH_FAILED")
	}

	return utils.SendSuccess(c, response)
}

func (h *ProfileHandler) update(c *fiber.Ctx) error {
	var payload dto.ProfileUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
	}

	response, err := h.service.UpdateProfile(c.UserContext(), userIDFromContext(c), payload)
	if err != nil {
		return handleError(c, h.logger, err, "PROFILE_UPDATE_FAILED")
	}

	return utils.SendSuccess(c, response)
}
