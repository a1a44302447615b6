package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/vidora/vidora-go/internal/apperr"
	"github.com/vidora/vidora-go/internal/middleware"
	"github.com/vidora/vidora-go/internal/model"
	"github.com/vidora/vidora-go/internal/respond"
	"github.com/vidora/vidora-go/internal/service"
)

type PlaylistHandler struct {
	playlists *service.PlaylistService
}

func NewPlaylistHandler(playlists *service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlists: playlists}
}

// Create handles POST /api/v1/playlists.
func (h *PlaylistHandler) Create(c fiber.Ctx) error {
	var req model.CreatePlaylistRequest
	if err := c.Bind().JSON(&req); err != nil {
		return respond.Error(c, apperr.Invalid("invalid request body"))
	}

	p, err := h.playlists.Create(c.Context(), middleware.UserID(c), req)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.Created(c, p, "playlist created")
}

// Get handles GET /api/v1/playlists/:id.
func (h *PlaylistHandler) Get(c fiber.Ctx) error {
	id, err := middleware.ParseID(c, "id")
	if err != nil {
		return respond.Error(c, err)
	}

	detail, page, err := h.playlists.Get(c.Context(), id, middleware.OptionalUserID(c), middleware.PageParams(c))
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.Map{
		"playlist": detail,
		"videos":   page,
	}, "playlist")
}

// Update handles PATCH /api/v1/playlists/:id.
func (h *PlaylistHandler) Update(c fiber.Ctx) error {
	id, err := middleware.ParseID(c, "id")
	if err != nil {
		return respond.Error(c, err)
	}

	var req model.UpdatePlaylistRequest
	if err := c.Bind().JSON(&req); err != nil {
		return respond.Error(c, apperr.Invalid("invalid request body"))
	}

	p, err := h.playlists.Update(c.Context(), id, middleware.UserID(c), req)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, p, "playlist updated")
}

// Delete handles DELETE /api/v1/playlists/:id.
func (h *PlaylistHandler) Delete(c fiber.Ctx) error {
	id, err := middleware.ParseID(c, "id")
	if err != nil {
		return respond.Error(c, err)
	}

	if err := h.playlists.Delete(c.Context(), id, middleware.UserID(c)); err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, nil, "playlist deleted")
}

// AddVideo handles POST /api/v1/playlists/:id/videos/:videoId.
func (h *PlaylistHandler) AddVideo(c fiber.Ctx) error {
	id, err := middleware.ParseID(c, "id")
	if err != nil {
		return respond.Error(c, err)
	}
	videoID, err := middleware.ParseID(c, "videoId")
	if err != nil {
		return respond.Error(c, err)
	}

	p, err := h.playlists.AddVideo(c.Context(), id, videoID, middleware.UserID(c))
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, p, "video added to playlist")
}

// RemoveVideo handles DELETE /api/v1/playlists/:id/videos/:videoId.
func (h *PlaylistHandler) RemoveVideo(c fiber.Ctx) error {
	id, err := middleware.ParseID(c, "id")
	if err != nil {
		return respond.Error(c, err)
	}
	videoID, err := middleware.ParseID(c, "videoId")
	if err != nil {
		return respond.Error(c, err)
	}

	p, err := h.playlists.RemoveVideo(c.Context(), id, videoID, middleware.UserID(c))
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, p, "video removed from playlist")
}

// ContainsVideo handles GET /api/v1/playlists/:id/videos/:videoId.
func (h *PlaylistHandler) ContainsVideo(c fiber.Ctx) error {
	id, err := middleware.ParseID(c, "id")
	if err != nil {
		return respond.Error(c, err)
	}
	videoID, err := middleware.ParseID(c, "videoId")
	if err != nil {
		return respond.Error(c, err)
	}

	contains, err := h.playlists.Contains(c.Context(), id, videoID, middleware.OptionalUserID(c))
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.Map{"inPlaylist": contains}, "playlist membership")
}

// ByUser handles GET /api/v1/users/:userId/playlists.
func (h *PlaylistHandler) ByUser(c fiber.Ctx) error {
	userID, err := middleware.ParseID(c, "userId")
	if err != nil {
		return respond.Error(c, err)
	}

	page, err := h.playlists.ByUser(c.Context(), userID, middleware.OptionalUserID(c), middleware.PageParams(c))
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, page, "playlists")
}
