package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/vidora/vidora-go/internal/apperr"
	"github.com/vidora/vidora-go/internal/middleware"
	"github.com/vidora/vidora-go/internal/model"
	"github.com/vidora/vidora-go/internal/respond"
	"github.com/vidora/vidora-go/internal/service"
)

type CommentHandler struct {
	comments *service.CommentService
}

func NewCommentHandler(comments *service.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// commentKind restricts the :kind parameter to commentable targets.
func commentKind(c fiber.Ctx) (model.TargetKind, error) {
	kind := model.TargetKind(c.Params("kind"))
	if !kind.Commentable() {
		return "", apperr.Invalid("comments attach to videos or tweets")
	}
	return kind, nil
}

// Create handles POST /api/v1/comments/:kind/:id.
func (h *CommentHandler) Create(c fiber.Ctx) error {
	kind, err := commentKind(c)
	if err != nil {
		return respond.Error(c, err)
	}
	targetID, err := middleware.ParseID(c, "id")
	if err != nil {
		return respond.Error(c, err)
	}

	var req model.CreateCommentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return respond.Error(c, apperr.Invalid("invalid request body"))
	}

	comment, err := h.comments.Create(c.Context(), middleware.UserID(c), kind, targetID, req)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.Created(c, comment, "comment added")
}

// ForTarget handles GET /api/v1/comments/:kind/:id.
func (h *CommentHandler) ForTarget(c fiber.Ctx) error {
	kind, err := commentKind(c)
	if err != nil {
		return respond.Error(c, err)
	}
	targetID, err := middleware.ParseID(c, "id")
	if err != nil {
		return respond.Error(c, err)
	}

	page, err := h.comments.ForTarget(c.Context(), kind, targetID, middleware.PageParams(c))
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, page, "comments")
}

// Replies handles GET /api/v1/comments/:id/replies.
func (h *CommentHandler) Replies(c fiber.Ctx) error {
	parentID, err := middleware.ParseID(c, "id")
	if err != nil {
		return respond.Error(c, err)
	}

	page, err := h.comments.Replies(c.Context(), parentID, middleware.PageParams(c))
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, page, "replies")
}

// Update handles PATCH /api/v1/comments/:id.
func (h *CommentHandler) Update(c fiber.Ctx) error {
	id, err := middleware.ParseID(c, "id")
	if err != nil {
		return respond.Error(c, err)
	}

	var req model.UpdateCommentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return respond.Error(c, apperr.Invalid("invalid request body"))
	}

	comment, err := h.comments.Update(c.Context(), id, middleware.UserID(c), req)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, comment, "comment updated")
}

// Delete handles DELETE /api/v1/comments/:id.
func (h *CommentHandler) Delete(c fiber.Ctx) error {
	id, err := middleware.ParseID(c, "id")
	if err != nil {
		return respond.Error(c, err)
	}

	if err := h.comments.Delete(c.Context(), id, middleware.UserID(c)); err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, nil, "comment deleted")
}
