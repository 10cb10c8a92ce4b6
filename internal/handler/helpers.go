package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/campusworks/teacher-portal-api/internal/models"
)

var validate = validator.New()

// sessionID returns the session identifier bound by the session middleware.
func sessionID(c *fiber.Ctx) string {
	if id, ok := c.Locals("session_id").(string); ok {
		return id
	}
	return ""
}

// currentTeacher returns the teacher record bound by the session middleware.
func currentTeacher(c *fiber.Ctx) models.Teacher {
	if teacher, ok := c.Locals("teacher").(models.Teacher); ok {
		return teacher
	}
	return models.Teacher{}
}
