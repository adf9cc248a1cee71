package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docverify/internal/service"
)

type createSessionRequest struct {
	// Target optionally jumps straight to a student, e.g. from a notification.
	Target string `json:"target"`
}

func sessionID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// CreateSession opens a verification console.
//
// @Summary  Open a session
// @Tags     sessions
// @Accept   json
// @Produce  json
// @Param    body body createSessionRequest false "Optional jump target"
// @Success  201 {object} service.Session
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /sessions [post]
func CreateSession(svc service.VerificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createSessionRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
			}
		}
		if req.Target == "" {
			req.Target = c.Query("student")
		}

		sess, err := svc.CreateSession(c.UserContext(), req.Target)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(sess)
	}
}

// GetSession returns the current view of a session.
//
// @Summary  Get session view
// @Tags     sessions
// @Produce  json
// @Param    id path string true "Session ID"
// @Success  200 {object} console.View
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /sessions/{id} [get]
func GetSession(svc service.VerificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := sessionID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		view, err := svc.View(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(view)
	}
}

// DispatchAction applies one operator action and returns the new view.
//
// @Summary  Dispatch an action
// @Tags     sessions
// @Accept   json
// @Produce  json
// @Param    id   path string         true "Session ID"
// @Param    body body service.Action true "Action"
// @Success  200 {object} console.View
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Failure  409 {object} errorPayload
// @Failure  422 {object} errorPayload
// @Router   /sessions/{id}/actions [post]
func DispatchAction(svc service.VerificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := sessionID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var action service.Action
		if err := c.BodyParser(&action); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		view, err := svc.Dispatch(c.UserContext(), id, action)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(view)
	}
}

// CloseSession ends a session.
//
// @Summary  Close a session
// @Tags     sessions
// @Param    id path string true "Session ID"
// @Success  204
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /sessions/{id} [delete]
func CloseSession(svc service.VerificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := sessionID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.CloseSession(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
