package handlers

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/achievements"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/trust"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

type ProgressHandler struct {
	engine *achievements.Engine
	trust  *trust.Calculator
}

func NewProgressHandler(engine *achievements.Engine, calc *trust.Calculator) *ProgressHandler {
	return &ProgressHandler{engine: engine, trust: calc}
}

// TrustMe never fails: an unavailable count yields the degraded lowest tier.
func (h *ProgressHandler) TrustMe(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(h.trust.GetTrustSnapshot(c.UserContext(), userID))
}

// Profile loads trust and achievements for :id concurrently.
func (h *ProgressHandler) Profile(c *fiber.Ctx) error {
	userID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var (
		snapshot trust.Snapshot
		summary  *achievements.Summary
	)
	g, ctx := errgroup.WithContext(c.UserContext())
	g.Go(func() error {
		snapshot = h.trust.GetTrustSnapshot(ctx, userID)
		return nil
	})
	g.Go(func() error {
		s, err := h.engine.GetUserAchievementSummary(ctx, userID)
		summary = s
		return err
	})
	if err := g.Wait(); err != nil {
		slog.Error("profile progress failed", "user_id", userID.String(), "error", err.Error())
		return fail(c, fiber.StatusInternalServerError, "Failed to load progress")
	}

	return c.JSON(dto.ProfileProgressResponse{
		UserID:       userID,
		Trust:        snapshot,
		Achievements: dto.NewAchievementSummaryResponse(summary),
	})
}
