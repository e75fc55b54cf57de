package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ActivityHandler struct {
	activity *services.ActivityService
}

func NewActivityHandler(activity *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

func (h *ActivityHandler) RecordLogin(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	first, err := h.activity.RecordLogin(c.UserContext(), userID)
	if err != nil {
		slog.Error("record login failed", "user_id", userID.String(), "error", err.Error())
		return fail(c, fiber.StatusInternalServerError, "Failed to record login")
	}
	return c.JSON(dto.LoginResponse{FirstLoginToday: first})
}

func (h *ActivityHandler) RecordGame(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.RecordGameRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	play, err := h.activity.RecordGamePlay(c.UserContext(), userID, req.Game, req.Score)
	if err != nil {
		if errors.Is(err, services.ErrInvalidGame) {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		slog.Error("record game failed", "user_id", userID.String(), "error", err.Error())
		return fail(c, fiber.StatusInternalServerError, "Failed to record game")
	}
	return c.Status(fiber.StatusCreated).JSON(play)
}
