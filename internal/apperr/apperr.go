package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error is a domain error carrying an HTTP status and a stable error code.
type Error struct {
	Code    string
	Status  int
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a typed error.
func New(status int, code, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches a cause to a typed error.
func Wrap(err error, status int, code, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// From normalises any error into an *Error. Unknown errors become a 500
// with the provided fallback code.
func From(err error, fallbackCode string) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if fallbackCode == "" {
		fallbackCode = "INTERNAL_ERROR"
	}
	return Wrap(err, fiber.StatusInternalServerError, fallbackCode, "internal server error")
}

// Course & catalog errors.
var (
	ErrCourseNotFound       = New(fiber.StatusNotFound, "COURSE_NOT_FOUND", "course not found")
	ErrCourseNotPublished   = New(fiber.StatusBadRequest, "COURSE_NOT_PUBLISHED", "course is not published")
	ErrCourseAccessDenied   = New(fiber.StatusForbidden, "COURSE_ACCESS_DENIED", "course is not accessible")
	ErrInvalidCourseFilters = New(fiber.StatusBadRequest, "INVALID_COURSE_FILTERS", "invalid catalog filters")
)

// Enrollment errors.
var (
	ErrAlreadyEnrolled     = New(fiber.StatusConflict, "ALREADY_ENROLLED", "learner already enrolled")
	ErrCapacityReached     = New(fiber.StatusBadRequest, "CAPACITY_REACHED", "course capacity reached")
	ErrEnrollmentNotFound  = New(fiber.StatusNotFound, "ENROLLMENT_NOT_FOUND", "enrollment not found")
	ErrEnrollmentCancelled = New(fiber.StatusConflict, "ENROLLMENT_ALREADY_CANCELLED", "enrollment already cancelled")
)

// Assignment lifecycle errors.
var (
	ErrAssignmentNotFound = New(fiber.StatusNotFound, "ASSIGNMENT_NOT_FOUND", "assignment not found")
	ErrInvalidState       = New(fiber.StatusBadRequest, "INVALID_STATE", "invalid lifecycle state")
	ErrStatusUpdateFailed = New(fiber.StatusBadRequest, "STATUS_UPDATE_FAILED", "status transition not allowed")
)

// Submission & grading errors.
var (
	ErrSubmissionNotFound   = New(fiber.StatusNotFound, "SUBMISSION_NOT_FOUND", "submission not found")
	ErrSubmissionNotAllowed = New(fiber.StatusBadRequest, "SUBMISSION_NOT_ALLOWED", "submission not allowed")
	ErrAccessDenied         = New(fiber.StatusForbidden, "ACCESS_DENIED", "access denied")
	ErrForbidden            = New(fiber.StatusForbidden, "FORBIDDEN", "not allowed")
)

// Identity & onboarding errors.
var (
	ErrUnauthorized     = New(fiber.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
	ErrProfileExists    = New(fiber.StatusConflict, "PROFILE_EXISTS", "profile already exists")
	ErrProfileNotFound  = New(fiber.StatusNotFound, "PROFILE_NOT_FOUND", "profile not found")
	ErrTermsNotAccepted = New(fiber.StatusBadRequest, "TERMS_NOT_ACCEPTED", "terms must be accepted")
)
