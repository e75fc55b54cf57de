package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type SocialHandler struct {
	social *services.SocialService
}

func NewSocialHandler(social *services.SocialService) *SocialHandler {
	return &SocialHandler{social: social}
}

func (h *SocialHandler) CreateStory(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateStoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	story, err := h.social.CreateStory(c.UserContext(), userID, req.Title, req.Body)
	if err != nil {
		if errors.Is(err, services.ErrInvalidStory) {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		slog.Error("create story failed", "user_id", userID.String(), "error", err.Error())
		return fail(c, fiber.StatusInternalServerError, "Failed to create story")
	}
	return c.Status(fiber.StatusCreated).JSON(story)
}

func (h *SocialHandler) LikeStory(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	storyID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	liked, err := h.social.LikeStory(c.UserContext(), storyID, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStoryNotFound):
			return fail(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrSelfLike):
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		slog.Error("like story failed", "user_id", userID.String(), "error", err.Error())
		return fail(c, fiber.StatusInternalServerError, "Failed to like story")
	}
	return c.JSON(dto.LikeResponse{Liked: liked})
}

func (h *SocialHandler) SendFriendRequest(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	targetID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	f, err := h.social.SendFriendRequest(c.UserContext(), userID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSelfFriend):
			return fail(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrUserNotFound):
			return fail(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrFriendshipExists):
			return fail(c, fiber.StatusConflict, err.Error())
		}
		slog.Error("friend request failed", "user_id", userID.String(), "error", err.Error())
		return fail(c, fiber.StatusInternalServerError, "Failed to send friend request")
	}
	return c.Status(fiber.StatusCreated).JSON(f)
}

// AcceptFriendRequest accepts the pending request sent by :id to the caller.
func (h *SocialHandler) AcceptFriendRequest(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	requesterID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.social.AcceptFriendRequest(c.UserContext(), userID, requesterID); err != nil {
		if errors.Is(err, services.ErrFriendRequestNotFound) {
			return fail(c, fiber.StatusNotFound, err.Error())
		}
		slog.Error("accept friend failed", "user_id", userID.String(), "error", err.Error())
		return fail(c, fiber.StatusInternalServerError, "Failed to accept friend request")
	}
	return c.JSON(dto.MessageResponse{Message: "Friend request accepted"})
}
