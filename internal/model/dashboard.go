package model

import (
	"time"

	"github.com/google/uuid"
)

// ChannelStats is the owner-only dashboard report.
type ChannelStats struct {
	TotalVideos      int64   `json:"totalVideos"`
	TotalViews       int64   `json:"totalViews"`
	TotalLikes       int64   `json:"totalLikes"`
	TotalComments    int64   `json:"totalComments"`
	TotalSubscribers int64   `json:"totalSubscribers"`
	TotalTweets      int64   `json:"totalTweets"`
	AvgViewsPerVideo float64 `json:"avgViewsPerVideo"`
	EngagementRate   float64 `json:"engagementRate"`

	ViewsGrowthPct       float64 `json:"viewsGrowthPct"`
	SubscriberGrowthPct  float64 `json:"subscriberGrowthPct"`

	MonthlyViews       []MonthBucket `json:"monthlyViews"`
	MonthlySubscribers []MonthBucket `json:"monthlySubscribers"`
}

// MonthBucket is one point of a month-bucketed time series.
type MonthBucket struct {
	Month time.Time `json:"month"`
	Count int64     `json:"count"`
}

// DashboardVideo is one row of the per-video dashboard table.
type DashboardVideo struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	IsPublished  bool      `json:"isPublished"`
	ViewCount    int64     `json:"viewCount"`
	LikeCount    int64     `json:"likeCount"`
	CommentCount int64     `json:"commentCount"`
	CreatedAt    time.Time `json:"createdAt"`
}
