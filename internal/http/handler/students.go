package handler

import (
	"github.com/gofiber/fiber/v2"

	"docverify/internal/model"
	"docverify/internal/service"
)

type studentListResponse struct {
	Items []model.Student `json:"data"`
	Total int             `json:"total"`
}

// ListStudents returns the roster as currently held in memory.
//
// @Summary  List students
// @Tags     students
// @Produce  json
// @Success  200 {object} studentListResponse
// @Failure  500 {object} errorPayload
// @Router   /students [get]
func ListStudents(svc service.VerificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		students, err := svc.Students(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(studentListResponse{Items: students, Total: len(students)})
	}
}

// RefreshStudents reloads the roster from the database. Open sessions keep
// their selection where it still resolves.
//
// @Summary  Reload students
// @Tags     students
// @Success  204
// @Failure  500 {object} errorPayload
// @Router   /students/refresh [post]
func RefreshStudents(svc service.VerificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Refresh(c.UserContext()); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
