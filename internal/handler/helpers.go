package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lms-go-api/internal/apperr"
	"github.com/noah-isme/lms-go-api/internal/middleware"
	"github.com/noah-isme/lms-go-api/internal/service"
	"github.com/noah-isme/lms-go-api/internal/utils"
)

func parseUUIDParam(c *fiber.Ctx, key string) (uuid.UUID, error) {
	value := strings.TrimSpace(c.Params(key))
	if value == "" {
		return uuid.Nil, errors.New("missing " + key)
	}
	parsed, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, errors.New("invalid " + key)
	}
	return parsed, nil
}

func userIDFromContext(c *fiber.Ctx) uuid.UUID {
	if v := c.Locals(middleware.LocalUserID); v != nil {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

func userRoleFromContext(c *fiber.Ctx) string {
	if v := c.Locals(middleware.LocalUserRole); v != nil {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}

func viewerFromContext(c *fiber.Ctx) service.Viewer {
	return service.Viewer{
		ID:   userIDFromContext(c),
		Role: userRoleFromContext(c),
	}
}

// handleError maps service errors onto the response envelope. Validation
// failures carry field-level details; unknown errors are logged and collapsed
// into a generic per-operation failure code.
func handleError(c *fiber.Ctx, logger zerolog.Logger, err error, fallbackCode string) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make(map[string]string, len(validationErrors))
		for _, fieldError := range validationErrors {
			details[fieldError.Field()] = fieldError.Tag()
		}
		return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid request payload", details)
	}

	var appError *apperr.Error
	if errors.As(err, &appError) {
		if appError.Status >= fiber.StatusInternalServerError {
			logger.Error().Err(err).Str("correlation_id", middleware.GetCorrelationID(c)).Msg("request failed")
		}
		return utils.SendError(c, appError.Status, appError.Code, appError.Message)
	}

	logger.Error().Err(err).Str("correlation_id", middleware.GetCorrelationID(c)).Msg("internal server error")
	return utils.SendAppError(c, err, fallbackCode)
}
