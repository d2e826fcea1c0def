package server

import (
	"errors"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SharePost handles POST /api/posts/:id/share. Delivery happens in the
// background; the response only confirms the request was accepted.
func (s *Server) SharePost(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	var req service.ShareInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.shareService.SharePost(c.Context(), id, req); err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Fields != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":     appErr.Message,
				"fields":    appErr.Fields,
				"submitted": req,
			})
		}
		return s.respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"sent": true})
}
