package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"filesapi/internal/http/middleware"
	"filesapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "MISSING_NAME", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError maps a service-layer error to its HTTP response. The
// message strings are part of the API contract and never change.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
	case errors.Is(err, service.ErrMissingEmail):
		return writeError(c, fiber.StatusBadRequest, "MISSING_EMAIL", "Missing email")
	case errors.Is(err, service.ErrMissingPassword):
		return writeError(c, fiber.StatusBadRequest, "MISSING_PASSWORD", "Missing password")
	case errors.Is(err, service.ErrAlreadyExists):
		return writeError(c, fiber.StatusBadRequest, "ALREADY_EXIST", "Already exist")
	case errors.Is(err, service.ErrMissingName):
		return writeError(c, fiber.StatusBadRequest, "MISSING_NAME", "Missing name")
	case errors.Is(err, service.ErrMissingType):
		return writeError(c, fiber.StatusBadRequest, "MISSING_TYPE", "Missing type")
	case errors.Is(err, service.ErrMissingData):
		return writeError(c, fiber.StatusBadRequest, "MISSING_DATA", "Missing data")
	case errors.Is(err, service.ErrParentNotFound):
		return writeError(c, fiber.StatusBadRequest, "PARENT_NOT_FOUND", "Parent not found")
	case errors.Is(err, service.ErrParentNotFolder):
		return writeError(c, fiber.StatusBadRequest, "PARENT_NOT_FOLDER", "Parent is not a folder")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "Not found")
	case errors.Is(err, service.ErrFolderNoContent):
		return writeError(c, fiber.StatusBadRequest, "FOLDER_NO_CONTENT", "A folder doesn't have a content")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
