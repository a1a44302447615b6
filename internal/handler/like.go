package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/vidora/vidora-go/internal/middleware"
	"github.com/vidora/vidora-go/internal/model"
	"github.com/vidora/vidora-go/internal/respond"
	"github.com/vidora/vidora-go/internal/service"
)

type LikeHandler struct {
	likes *service.LikeService
}

func NewLikeHandler(likes *service.LikeService) *LikeHandler {
	return &LikeHandler{likes: likes}
}

// Toggle handles POST /api/v1/likes/:kind/:id.
func (h *LikeHandler) Toggle(c fiber.Ctx) error {
	targetID, err := middleware.ParseID(c, "id")
	if err != nil {
		return respond.Error(c, err)
	}

	result, err := h.likes.Toggle(c.Context(), middleware.UserID(c), model.TargetKind(c.Params("kind")), targetID)
	if err != nil {
		return respond.Error(c, err)
	}

	if Metrics.TogglesTotal != nil {
		Metrics.TogglesTotal.WithLabelValues("like", toggleState(result.IsLiked)).Inc()
	}
	return respond.OK(c, result, "like toggled")
}

// Status handles GET /api/v1/likes/:kind/:id/status.
func (h *LikeHandler) Status(c fiber.Ctx) error {
	targetID, err := middleware.ParseID(c, "id")
	if err != nil {
		return respond.Error(c, err)
	}

	status, err := h.likes.Status(c.Context(), middleware.UserID(c), model.TargetKind(c.Params("kind")), targetID)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, status, "like status")
}

// Videos handles GET /api/v1/likes/videos.
func (h *LikeHandler) Videos(c fiber.Ctx) error {
	page, err := h.likes.LikedVideos(c.Context(), middleware.UserID(c), middleware.PageParams(c))
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, page, "liked videos")
}

// Tweets handles GET /api/v1/likes/tweets.
func (h *LikeHandler) Tweets(c fiber.Ctx) error {
	page, err := h.likes.LikedTweets(c.Context(), middleware.UserID(c), middleware.PageParams(c))
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, page, "liked tweets")
}

// Comments handles GET /api/v1/likes/comments.
func (h *LikeHandler) Comments(c fiber.Ctx) error {
	page, err := h.likes.LikedComments(c.Context(), middleware.UserID(c), middleware.PageParams(c))
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, page, "liked comments")
}
