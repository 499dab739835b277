package handlers

import (
	"errors"
	"log/slog"

	"github.com/eco-rangers/eco-rangers-api/internal/dto"
	"github.com/eco-rangers/eco-rangers-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors onto the HTTP surface. Internal errors are
// logged and never leak details to the client.
func respondError(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{
			Message: verr.Error(),
			Errors:  verr.Fields,
		})
	}

	switch {
	case errors.Is(err, services.ErrReportNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Report not found",
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid credentials",
		})
	case errors.Is(err, services.ErrInvalidToken):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized: invalid or missing token",
		})
	}

	slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}
