package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/achievements"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AchievementHandler struct {
	engine *achievements.Engine
}

func NewAchievementHandler(engine *achievements.Engine) *AchievementHandler {
	return &AchievementHandler{engine: engine}
}

// Catalog lists the achievements the caller can see.
func (h *AchievementHandler) Catalog(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	defs, err := h.engine.VisibleCatalog(c.UserContext(), userID)
	if err != nil {
		slog.Error("catalog lookup failed", "user_id", userID.String(), "error", err.Error())
		return fail(c, fiber.StatusInternalServerError, "Failed to load achievements")
	}

	resp := dto.CatalogResponse{
		Version:      h.engine.Catalog().Version(),
		Achievements: make([]dto.AchievementResponse, 0, len(defs)),
	}
	for _, d := range defs {
		resp.Achievements = append(resp.Achievements, dto.NewAchievementResponse(d))
	}
	return c.JSON(resp)
}

func (h *AchievementHandler) Mine(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	summary, err := h.engine.GetUserAchievementSummary(c.UserContext(), userID)
	if err != nil {
		slog.Error("achievement summary failed", "user_id", userID.String(), "error", err.Error())
		return fail(c, fiber.StatusInternalServerError, "Failed to load achievements")
	}
	return c.JSON(dto.NewAchievementSummaryResponse(summary))
}

// Grant awards an achievement by hand, ignoring thresholds.
func (h *AchievementHandler) Grant(c *fiber.Ctx) error {
	var req dto.GrantAchievementRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.UserID == uuid.Nil || req.Slug == "" {
		return fail(c, fiber.StatusBadRequest, "user_id and slug are required")
	}

	adminID := middleware.AdminID(c)
	created, err := h.engine.GrantManually(c.UserContext(), req.UserID, req.Slug, adminID)
	if err != nil {
		switch {
		case errors.Is(err, achievements.ErrUserNotFound), errors.Is(err, achievements.ErrUnknownAchievement):
			return fail(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, achievements.ErrAchievementInactive), errors.Is(err, achievements.ErrMetaNotGrantable):
			return fail(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		slog.Error("manual grant failed",
			"user_id", req.UserID.String(), "action", "manual_grant", "slug", req.Slug, "error", err.Error())
		return fail(c, fiber.StatusInternalServerError, "Failed to grant achievement")
	}

	slog.Info("achievement granted manually",
		"user_id", req.UserID.String(), "slug", req.Slug, "admin_id", adminID.String(), "created", created)

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(dto.GrantAchievementResponse{UserID: req.UserID, Slug: req.Slug, Created: created})
}
