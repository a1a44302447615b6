package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/vidora/vidora-go/internal/apperr"
	"github.com/vidora/vidora-go/internal/middleware"
	"github.com/vidora/vidora-go/internal/model"
	"github.com/vidora/vidora-go/internal/respond"
	"github.com/vidora/vidora-go/internal/service"
)

type VideoHandler struct {
	videos *service.VideoService
}

func NewVideoHandler(videos *service.VideoService) *VideoHandler {
	return &VideoHandler{videos: videos}
}

// Upload handles POST /api/v1/videos (multipart: metadata fields plus
// the video file and an optional thumbnail).
func (h *VideoHandler) Upload(c fiber.Ctx) error {
	videoUp, err := openUpload(c, "video")
	if err != nil || videoUp == nil {
		return respond.Error(c, apperr.Invalid("video file is required"))
	}
	defer videoUp.Close()

	thumbUp, err := openUpload(c, "thumbnail")
	if err != nil {
		return respond.Error(c, apperr.Invalid("unreadable thumbnail upload"))
	}
	defer thumbUp.Close()

	duration, _ := strconv.ParseFloat(c.FormValue("duration"), 64)
	published := c.FormValue("isPublished") != "false"

	in := service.UploadInput{
		OwnerID:     middleware.UserID(c),
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		Tags:        splitTags(c.FormValue("tags")),
		Duration:    duration,
		IsPublished: published,
		Video:       videoUp.file,
		VideoSize:   videoUp.size,
		VideoName:   videoUp.name,
		VideoType:   videoUp.contentType,
	}
	if thumbUp != nil {
		in.Thumbnail = thumbUp.file
		in.ThumbnailSize = thumbUp.size
		in.ThumbnailName = thumbUp.name
		in.ThumbnailType = thumbUp.contentType
	}

	v, err := h.videos.Upload(c.Context(), in)
	if err != nil {
		return respond.Error(c, err)
	}

	if Metrics.UploadsTotal != nil {
		Metrics.UploadsTotal.Inc()
	}
	return respond.Created(c, v, "video uploaded")
}

// Get handles GET /api/v1/videos/:id.
func (h *VideoHandler) Get(c fiber.Ctx) error {
	id, err := middleware.ParseID(c, "id")
	if err != nil {
		return respond.Error(c, err)
	}

	v, err := h.videos.Get(c.Context(), id, middleware.OptionalUserID(c))
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, v, "video")
}

// Update handles PATCH /api/v1/videos/:id.
func (h *VideoHandler) Update(c fiber.Ctx) error {
	id, err := middleware.ParseID(c, "id")
	if err != nil {
		return respond.Error(c, err)
	}

	var req model.UpdateVideoRequest
	if err := c.Bind().JSON(&req); err != nil {
		return respond.Error(c, apperr.Invalid("invalid request body"))
	}

	v, err := h.videos.Update(c.Context(), id, middleware.UserID(c), req)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, v, "video updated")
}

// UpdateThumbnail handles PATCH /api/v1/videos/:id/thumbnail.
func (h *VideoHandler) UpdateThumbnail(c fiber.Ctx) error {
	id, err := middleware.ParseID(c, "id")
	if err != nil {
		return respond.Error(c, err)
	}

	up, err := openUpload(c, "thumbnail")
	if err != nil || up == nil {
		return respond.Error(c, apperr.Invalid("thumbnail file is required"))
	}
	defer up.Close()

	v, err := h.videos.UpdateThumbnail(c.Context(), id, middleware.UserID(c), up.file, up.size, up.name, up.contentType)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, v, "thumbnail updated")
}

// TogglePublish handles PATCH /api/v1/videos/:id/publish.
func (h *VideoHandler) TogglePublish(c fiber.Ctx) error {
	id, err := middleware.ParseID(c, "id")
	if err != nil {
		return respond.Error(c, err)
	}

	var body struct {
		IsPublished bool `json:"isPublished"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return respond.Error(c, apperr.Invalid("invalid request body"))
	}

	v, err := h.videos.SetPublished(c.Context(), id, middleware.UserID(c), body.IsPublished)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, v, "publish state updated")
}

// Delete handles DELETE /api/v1/videos/:id.
func (h *VideoHandler) Delete(c fiber.Ctx) error {
	id, err := middleware.ParseID(c, "id")
	if err != nil {
		return respond.Error(c, err)
	}

	if err := h.videos.Delete(c.Context(), id, middleware.UserID(c)); err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, nil, "video deleted")
}

// ByChannel handles GET /api/v1/channels/:channelId/videos.
func (h *VideoHandler) ByChannel(c fiber.Ctx) error {
	channelID, err := middleware.ParseID(c, "channelId")
	if err != nil {
		return respond.Error(c, err)
	}

	page, err := h.videos.ByChannel(c.Context(), channelID, middleware.OptionalUserID(c), middleware.PageParams(c))
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, page, "channel videos")
}

// Feed handles GET /api/v1/videos/feed, videos from subscribed channels.
func (h *VideoHandler) Feed(c fiber.Ctx) error {
	page, err := h.videos.Feed(c.Context(), middleware.UserID(c), middleware.PageParams(c))
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, page, "video feed")
}

// Search handles GET /api/v1/search.
func (h *VideoHandler) Search(c fiber.Ctx) error {
	p, err := parseSearchParams(c)
	if err != nil {
		return respond.Error(c, err)
	}

	page, err := h.videos.Search(c.Context(), p, middleware.PageParams(c))
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, page, "search results")
}

var sortKeys = map[model.VideoSortKey]bool{
	model.SortNewest:    true,
	model.SortOldest:    true,
	model.SortViews:     true,
	model.SortLikes:     true,
	model.SortDuration:  true,
	model.SortRelevance: true,
}

func parseSearchParams(c fiber.Ctx) (model.SearchParams, error) {
	p := model.SearchParams{
		Query:    strings.TrimSpace(c.Query("query")),
		Category: strings.TrimSpace(c.Query("category")),
		SortBy:   model.SortNewest,
	}

	if raw := c.Query("sortBy"); raw != "" {
		key := model.VideoSortKey(raw)
		if !sortKeys[key] {
			return p, apperr.Invalid("unknown sortBy %q", raw)
		}
		p.SortBy = key
	}

	if raw := c.Query("startDate"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			if t, err = time.Parse("2006-01-02", raw); err != nil {
				return p, apperr.Invalid("startDate must be RFC3339 or YYYY-MM-DD")
			}
		}
		p.StartDate = &t
	}
	if raw := c.Query("endDate"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			if t, err = time.Parse("2006-01-02", raw); err != nil {
				return p, apperr.Invalid("endDate must be RFC3339 or YYYY-MM-DD")
			}
		}
		p.EndDate = &t
	}

	if raw := c.Query("minDuration"); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, apperr.Invalid("minDuration must be a number")
		}
		p.MinDuration = &d
	}
	if raw := c.Query("maxDuration"); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, apperr.Invalid("maxDuration must be a number")
		}
		p.MaxDuration = &d
	}

	return p, nil
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, t := range parts {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
