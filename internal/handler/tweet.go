package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/vidora/vidora-go/internal/apperr"
	"github.com/vidora/vidora-go/internal/middleware"
	"github.com/vidora/vidora-go/internal/model"
	"github.com/vidora/vidora-go/internal/respond"
	"github.com/vidora/vidora-go/internal/service"
)

type TweetHandler struct {
	tweets *service.TweetService
}

func NewTweetHandler(tweets *service.TweetService) *TweetHandler {
	return &TweetHandler{tweets: tweets}
}

// Create handles POST /api/v1/tweets (multipart: content plus an
// optional image).
func (h *TweetHandler) Create(c fiber.Ctx) error {
	up, err := openUpload(c, "image")
	if err != nil {
		return respond.Error(c, apperr.Invalid("unreadable image upload"))
	}
	defer up.Close()

	var t *model.Tweet
	if up != nil {
		t, err = h.tweets.Create(c.Context(), middleware.UserID(c), c.FormValue("content"), up.file, up.size, up.name, up.contentType)
	} else {
		t, err = h.tweets.Create(c.Context(), middleware.UserID(c), c.FormValue("content"), nil, 0, "", "")
	}
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.Created(c, t, "tweet posted")
}

// Get handles GET /api/v1/tweets/:id.
func (h *TweetHandler) Get(c fiber.Ctx) error {
	id, err := middleware.ParseID(c, "id")
	if err != nil {
		return respond.Error(c, err)
	}

	t, err := h.tweets.Get(c.Context(), id)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, t, "tweet")
}

// ByUser handles GET /api/v1/users/:userId/tweets.
func (h *TweetHandler) ByUser(c fiber.Ctx) error {
	userID, err := middleware.ParseID(c, "userId")
	if err != nil {
		return respond.Error(c, err)
	}

	page, err := h.tweets.ByUser(c.Context(), userID, middleware.PageParams(c))
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, page, "tweets")
}

// Feed handles GET /api/v1/tweets/feed, tweets from subscribed channels.
func (h *TweetHandler) Feed(c fiber.Ctx) error {
	page, err := h.tweets.Feed(c.Context(), middleware.UserID(c), middleware.PageParams(c))
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, page, "tweet feed")
}

// Update handles PATCH /api/v1/tweets/:id.
func (h *TweetHandler) Update(c fiber.Ctx) error {
	id, err := middleware.ParseID(c, "id")
	if err != nil {
		return respond.Error(c, err)
	}

	var req model.UpdateTweetRequest
	if err := c.Bind().JSON(&req); err != nil {
		return respond.Error(c, apperr.Invalid("invalid request body"))
	}

	t, err := h.tweets.Update(c.Context(), id, middleware.UserID(c), req)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, t, "tweet updated")
}

// Delete handles DELETE /api/v1/tweets/:id.
func (h *TweetHandler) Delete(c fiber.Ctx) error {
	id, err := middleware.ParseID(c, "id")
	if err != nil {
		return respond.Error(c, err)
	}

	if err := h.tweets.Delete(c.Context(), id, middleware.UserID(c)); err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, nil, "tweet deleted")
}
