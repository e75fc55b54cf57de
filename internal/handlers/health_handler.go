package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db             *gorm.DB
	catalogVersion int
}

func NewHealthHandler(db *gorm.DB, catalogVersion int) *HealthHandler {
	return &HealthHandler{db: db, catalogVersion: catalogVersion}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status, dbStatus := "ok", "ok"
	if err := database.Ping(c.UserContext(), h.db); err != nil {
		status = "degraded"
		dbStatus = "unhealthy"
	}

	return c.JSON(dto.HealthResponse{
		Status:         status,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		DB:             dbStatus,
		CatalogVersion: h.catalogVersion,
	})
}
