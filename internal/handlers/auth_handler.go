package handlers

import (
	"github.com/eco-rangers/eco-rangers-api/internal/dto"
	"github.com/eco-rangers/eco-rangers-api/internal/middleware"
	"github.com/eco-rangers/eco-rangers-api/internal/models"
	"github.com/eco-rangers/eco-rangers-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Me returns the user resolved by the token middleware.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := c.Locals(middleware.UserKey).(*models.User)
	if !ok {
		return respondError(c, services.ErrInvalidToken)
	}
	return c.JSON(user)
}

// Logout revokes the token used for this request only.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token, ok := c.Locals(middleware.TokenKey).(string)
	if !ok {
		return respondError(c, services.ErrInvalidToken)
	}

	if err := h.authService.Logout(token); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Logged out"})
}
