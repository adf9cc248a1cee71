package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"docverify/internal/console"
	"docverify/internal/http/middleware"
	"docverify/internal/navigator"
	"docverify/internal/record"
	"docverify/internal/review"
	"docverify/internal/roster"
	"docverify/internal/service"
	"docverify/internal/viewer"
)

// errorPayload is the body of every non-2xx response.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes the envelope. message must be safe to show an operator.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	rid, _ := c.Locals(middleware.RequestIDLocalKey).(string)
	return c.Status(status).JSON(errorPayload{
		RequestID: rid,
		Error:     errorEnvelope{Code: code, Message: message},
	})
}

type domainError struct {
	target error
	status int
	code   string
}

// domainErrors maps workflow errors to responses. Their messages are safe to show.
var domainErrors = []domainError{
	{service.ErrSessionNotFound, fiber.StatusNotFound, "SESSION_NOT_FOUND"},
	{navigator.ErrStudentNotFound, fiber.StatusNotFound, "STUDENT_NOT_FOUND"},
	{navigator.ErrNotInClass, fiber.StatusConflict, "STUDENT_NOT_IN_CLASS"},
	{console.ErrUnknownClass, fiber.StatusNotFound, "CLASS_NOT_FOUND"},
	{review.ErrNoDocument, fiber.StatusConflict, "NO_DOCUMENT"},
	{review.ErrNoteRequired, fiber.StatusUnprocessableEntity, "NOTE_REQUIRED"},
	{console.ErrReadOnly, fiber.StatusConflict, "READ_ONLY"},
	{console.ErrDialogClosed, fiber.StatusConflict, "DIALOG_CLOSED"},
	{record.ErrInvalidPath, fiber.StatusUnprocessableEntity, "INVALID_PATH"},
	{record.ErrNotContainer, fiber.StatusUnprocessableEntity, "NOT_CONTAINER"},
	{roster.ErrNothingToUndo, fiber.StatusConflict, "NOTHING_TO_UNDO"},
	{service.ErrInvalidAction, fiber.StatusBadRequest, "INVALID_ACTION"},
	{console.ErrInvalidTab, fiber.StatusBadRequest, "INVALID_ACTION"},
	{console.ErrInvalidCategory, fiber.StatusBadRequest, "INVALID_ACTION"},
	{viewer.ErrInvalidLayout, fiber.StatusBadRequest, "INVALID_ACTION"},
}

// writeServiceError translates a service error into the error envelope.
func writeServiceError(c *fiber.Ctx, err error) error {
	for _, d := range domainErrors {
		if errors.Is(err, d.target) {
			return writeError(c, d.status, d.code, err.Error())
		}
	}
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// frameworkErrors covers errors raised by Fiber itself (routing, body limits).
var frameworkErrors = map[int]errorEnvelope{
	fiber.StatusBadRequest:            {"BAD_REQUEST", "bad request"},
	fiber.StatusNotFound:              {"NOT_FOUND", "resource not found"},
	fiber.StatusMethodNotAllowed:      {"METHOD_NOT_ALLOWED", "method not allowed"},
	fiber.StatusRequestEntityTooLarge: {"BODY_TOO_LARGE", "request body too large"},
	fiber.StatusUnsupportedMediaType:  {"UNSUPPORTED_MEDIA_TYPE", "unsupported media type"},
}

// ErrorHandler renders errors that escape the handlers using the envelope.
// Anything unrecognised becomes a 500 without details.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			if env, ok := frameworkErrors[fe.Code]; ok {
				return writeError(c, fe.Code, env.Code, env.Message)
			}
		}
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
