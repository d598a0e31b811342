package utils

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lms-go-api/internal/apperr"
)

// ErrorBody describes the error half of the response envelope.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// APIResponse is the common envelope for every endpoint.
type APIResponse struct {
	OK    bool        `json:"ok"`
	Data  interface{} `json:"data,omitempty"`
	Error *ErrorBody  `json:"error,omitempty"`
}

// SendSuccess writes a 200 success envelope.
func SendSuccess(c *fiber.Ctx, data interface{}) error {
	return SendSuccessWithStatus(c, fiber.StatusOK, data)
}

// SendSuccessWithStatus writes a success envelope with the provided status code.
func SendSuccessWithStatus(c *fiber.Ctx, status int, data interface{}) error {
	if status == 0 {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(APIResponse{OK: true, Data: data})
}

// SendError writes an error envelope with an explicit status and code.
func SendError(c *fiber.Ctx, status int, code, message string) error {
	return SendErrorWithDetails(c, status, code, message, nil)
}

// SendErrorWithDetails writes an error envelope including field-level details.
func SendErrorWithDetails(c *fiber.Ctx, status int, code, message string, details interface{}) error {
	if status == 0 {
		status = fiber.StatusInternalServerError
	}
	return c.Status(status).JSON(APIResponse{
		OK:    false,
		Error: &ErrorBody{Code: code, Message: message, Details: details},
	})
}

// SendAppError normalises any error through apperr and writes the envelope.
// fallbackCode labels unexpected infra failures per operation.
func SendAppError(c *fiber.Ctx, err error, fallbackCode string) error {
	e := apperr.From(err, fallbackCode)
	return SendError(c, e.Status, e.Code, e.Message)
}
