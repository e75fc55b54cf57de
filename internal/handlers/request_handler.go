package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/trust"
	"github.com/gofiber/fiber/v2"
)

type RequestHandler struct {
	requests *services.RequestService
}

func NewRequestHandler(requests *services.RequestService) *RequestHandler {
	return &RequestHandler{requests: requests}
}

func (h *RequestHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req dto.CreateHelpRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	created, err := h.requests.Create(c.UserContext(), userID, req.Title, req.Description, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRequest):
			return fail(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, trust.ErrAmountOutOfRange):
			return fail(c, fiber.StatusUnprocessableEntity, err.Error())
		}
		slog.Error("create request failed", "user_id", userID.String(), "error", err.Error())
		return fail(c, fiber.StatusInternalServerError, "Failed to create request")
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *RequestHandler) ListMine(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	reqs, err := h.requests.ListForUser(c.UserContext(), userID, limit, offset)
	if err != nil {
		slog.Error("list requests failed", "user_id", userID.String(), "error", err.Error())
		return fail(c, fiber.StatusInternalServerError, "Failed to list requests")
	}
	return c.JSON(fiber.Map{"requests": reqs})
}

func (h *RequestHandler) Approve(c *fiber.Ctx) error {
	requestID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	req, err := h.requests.Approve(c.UserContext(), requestID, middleware.AdminID(c))
	if err != nil {
		return h.reviewError(c, err)
	}
	return c.JSON(req)
}

func (h *RequestHandler) Reject(c *fiber.Ctx) error {
	requestID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	req, err := h.requests.Reject(c.UserContext(), requestID, middleware.AdminID(c))
	if err != nil {
		return h.reviewError(c, err)
	}
	return c.JSON(req)
}

func (h *RequestHandler) SetTrust(c *fiber.Ctx) error {
	requestID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var body dto.SetTrustRequest
	if err := c.BodyParser(&body); err != nil || body.CountsTowardTrust == nil {
		return fail(c, fiber.StatusBadRequest, "counts_toward_trust is required")
	}

	req, err := h.requests.SetCountsTowardTrust(c.UserContext(), requestID, *body.CountsTowardTrust, body.Note)
	if err != nil {
		return h.reviewError(c, err)
	}
	return c.JSON(req)
}

func (h *RequestHandler) reviewError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrRequestNotFound):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrRequestNotPending):
		return fail(c, fiber.StatusConflict, err.Error())
	}
	slog.Error("request review failed", "action", "review_request", "error", err.Error())
	return fail(c, fiber.StatusInternalServerError, "Failed to update request")
}
