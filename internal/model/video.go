package model

import (
	"time"

	"github.com/google/uuid"
)

type Video struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"ownerId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"videoUrl"`
	VideoKey     string    `json:"-"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	ThumbnailKey string    `json:"-"`
	Duration     float64   `json:"duration"`
	Category     string    `json:"category"`
	Tags         []string  `json:"tags"`
	ViewCount    int64     `json:"viewCount"`
	LikeCount    int64     `json:"likeCount"`
	IsPublished  bool      `json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// VideoWithOwner is the joined listing row: the video plus the reduced
// owner projection.
type VideoWithOwner struct {
	Video
	Owner PublicUser `json:"owner"`
}

type UpdateVideoRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Tags        []string `json:"tags"`
}

// VideoSortKey enumerates the client-selectable orderings. An enum rather
// than a raw column passthrough so the contract is closed.
type VideoSortKey string

const (
	SortNewest    VideoSortKey = "newest"
	SortOldest    VideoSortKey = "oldest"
	SortViews     VideoSortKey = "views"
	SortLikes     VideoSortKey = "likes"
	SortDuration  VideoSortKey = "duration"
	SortRelevance VideoSortKey = "relevance"
)

// SearchParams are the validated filters for GET /search.
type SearchParams struct {
	Query       string
	Category    string
	StartDate   *time.Time
	EndDate     *time.Time
	MinDuration *float64
	MaxDuration *float64
	SortBy      VideoSortKey
}
