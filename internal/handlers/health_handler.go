package handlers

import (
	"time"

	"github.com/eco-rangers/eco-rangers-api/internal/database"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Ping is the liveness probe used by the mobile client.
func (h *HealthHandler) Ping(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}

// Check also pings the database.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "up"
	if err := database.Ping(h.db); err != nil {
		dbStatus = "down"
	}

	status := fiber.StatusOK
	if dbStatus != "up" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status":    dbStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
