package server

import (
	"errors"
	"time"

	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts the :id route parameter as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func (s *Server) parseID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseDate extracts :year/:month and optionally :day route parameters.
// A missing :day parameter yields day 1. Out-of-range components are a 400.
func (s *Server) parseDate(c *fiber.Ctx) (int, time.Month, int, error) {
	year, yErr := c.ParamsInt("year")
	month, mErr := c.ParamsInt("month")
	day := 1
	var dErr error
	if c.Params("day") != "" {
		day, dErr = c.ParamsInt("day")
	}

	if yErr != nil || mErr != nil || dErr != nil ||
		year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid date"))
		return 0, 0, 0, errResponseWritten
	}
	return year, time.Month(month), day, nil
}

// respondServiceError maps service-layer errors onto HTTP statuses. Field
// validation failures are a 422 so clients can redisplay the form; plain
// validation failures are a 400.
func (s *Server) respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "NOT_FOUND":
			return models.RespondWithError(c, fiber.StatusNotFound, appErr)
		case "VALIDATION_ERROR":
			status := fiber.StatusBadRequest
			if appErr.Fields != nil {
				status = fiber.StatusUnprocessableEntity
			}
			return models.RespondWithError(c, status, appErr)
		case "UNAUTHORIZED":
			return models.RespondWithError(c, fiber.StatusForbidden, appErr)
		}
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError,
		models.NewInternalError(err))
}

// currentUserID reads the authenticated user set by AuthRequired.
func (s *Server) currentUserID(c *fiber.Ctx) uint {
	if uid, ok := c.Locals("userID").(uint); ok {
		return uid
	}
	return 0
}
