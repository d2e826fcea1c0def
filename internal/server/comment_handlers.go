package server

import (
	"errors"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/posts/:id/comments. The target post must be
// published. On validation failure the submitted values are echoed back with
// the per-field errors so the client can redisplay the form.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	var req service.CommentInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.Context(), id, req)
	if err != nil {
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

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// SetCommentActive handles PUT /api/admin/comments/:id/active
func (s *Server) SetCommentActive(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	var req struct {
		Active *bool `json:"active"`
	}
	if err := c.BodyParser(&req); err != nil || req.Active == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Field 'active' is required"))
	}

	comment, err := s.commentService.SetActive(c.Context(), id, *req.Active)
	if err != nil {
		return s.respondServiceError(c, err)
	}
	return c.JSON(comment)
}
