package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/vidora/vidora-go/internal/middleware"
	"github.com/vidora/vidora-go/internal/model"
	"github.com/vidora/vidora-go/internal/repository"
	"github.com/vidora/vidora-go/internal/respond"
	"github.com/vidora/vidora-go/internal/service"
)

type DashboardHandler struct {
	dashboard *service.DashboardService
}

func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats handles GET /api/v1/dashboard/stats/:channelId. Requesting any
// channel but your own is a 403.
func (h *DashboardHandler) Stats(c fiber.Ctx) error {
	channelID, err := middleware.ParseID(c, "channelId")
	if err != nil {
		return respond.Error(c, err)
	}

	stats, err := h.dashboard.Stats(c.Context(), channelID, middleware.UserID(c))
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, stats, "channel stats")
}

// Videos handles GET /api/v1/dashboard/videos, the per-video table.
func (h *DashboardHandler) Videos(c fiber.Ctx) error {
	page, err := h.dashboard.Videos(c.Context(), middleware.UserID(c), middleware.PageParams(c))
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, page, "dashboard videos")
}

// Export handles GET /api/v1/dashboard/export, the per-video table as a
// CSV download. The export is not paginated; it walks every page.
func (h *DashboardHandler) Export(c fiber.Ctx) error {
	ownerID := middleware.UserID(c)

	videos, err := collectDashboardVideos(func(params repository.PageParams) (*repository.Page[model.DashboardVideo], error) {
		return h.dashboard.Videos(c.Context(), ownerID, params)
	})
	if err != nil {
		return respond.Error(c, err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "title", "published", "views", "likes", "comments", "uploadedAt"})
	for _, v := range videos {
		_ = w.Write([]string{
			v.ID.String(),
			v.Title,
			strconv.FormatBool(v.IsPublished),
			strconv.FormatInt(v.ViewCount, 10),
			strconv.FormatInt(v.LikeCount, 10),
			strconv.FormatInt(v.CommentCount, 10),
			v.CreatedAt.Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return respond.Error(c, err)
	}

	filename := fmt.Sprintf("dashboard-%s.csv", time.Now().Format("20060102"))
	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(buf.Bytes())
}

// collectDashboardVideos fetches page after page at the max limit until
// the last page, so the export covers the whole table.
func collectDashboardVideos(fetch func(repository.PageParams) (*repository.Page[model.DashboardVideo], error)) ([]model.DashboardVideo, error) {
	var all []model.DashboardVideo
	for page := 1; ; page++ {
		p, err := fetch(repository.PageParams{Page: page, Limit: repository.MaxLimit})
		if err != nil {
			return nil, err
		}
		all = append(all, p.Items...)
		if !p.HasNextPage {
			return all, nil
		}
	}
}
