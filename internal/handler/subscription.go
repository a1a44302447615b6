package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/vidora/vidora-go/internal/middleware"
	"github.com/vidora/vidora-go/internal/respond"
	"github.com/vidora/vidora-go/internal/service"
)

type SubscriptionHandler struct {
	subs *service.SubscriptionService
}

func NewSubscriptionHandler(subs *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subs: subs}
}

// Toggle handles POST /api/v1/subscriptions/:channelId.
func (h *SubscriptionHandler) Toggle(c fiber.Ctx) error {
	channelID, err := middleware.ParseID(c, "channelId")
	if err != nil {
		return respond.Error(c, err)
	}

	result, err := h.subs.Toggle(c.Context(), middleware.UserID(c), channelID)
	if err != nil {
		return respond.Error(c, err)
	}

	if Metrics.TogglesTotal != nil {
		Metrics.TogglesTotal.WithLabelValues("subscription", toggleState(result.IsSubscribed)).Inc()
	}
	return respond.OK(c, result, "subscription toggled")
}

// Status handles GET /api/v1/subscriptions/:channelId/status.
func (h *SubscriptionHandler) Status(c fiber.Ctx) error {
	channelID, err := middleware.ParseID(c, "channelId")
	if err != nil {
		return respond.Error(c, err)
	}

	status, err := h.subs.Status(c.Context(), middleware.UserID(c), channelID)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, status, "subscription status")
}

// Mine handles GET /api/v1/subscriptions, the channels the caller
// follows.
func (h *SubscriptionHandler) Mine(c fiber.Ctx) error {
	page, err := h.subs.Subscriptions(c.Context(), middleware.UserID(c), middleware.PageParams(c))
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, page, "subscribed channels")
}

// Subscribers handles GET /api/v1/channels/:channelId/subscribers.
func (h *SubscriptionHandler) Subscribers(c fiber.Ctx) error {
	channelID, err := middleware.ParseID(c, "channelId")
	if err != nil {
		return respond.Error(c, err)
	}

	page, err := h.subs.Subscribers(c.Context(), channelID, middleware.PageParams(c))
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, page, "subscribers")
}
