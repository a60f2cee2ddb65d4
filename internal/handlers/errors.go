package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"parsepro/resume-analyzer/internal/models"
	"parsepro/resume-analyzer/internal/services"
)

// StatusForError maps service error kinds onto HTTP status codes.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrMissingInput), errors.Is(err, services.ErrUnsupportedFile):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrFileTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, services.ErrUpstreamTimeout):
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	code := StatusForError(err)
	if code >= fiber.StatusInternalServerError {
		log.Printf("❌ %s %s failed: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(models.ErrorResponse{
		Error: err.Error(),
		Code:  code,
	})
}
