package service

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vidora/vidora-go/internal/apperr"
	"github.com/vidora/vidora-go/internal/model"
	"github.com/vidora/vidora-go/internal/repository"
)

type DashboardService struct {
	dashboard *repository.DashboardRepo
	cache     *CacheService
}

func NewDashboardService(dashboard *repository.DashboardRepo, cache *CacheService) *DashboardService {
	return &DashboardService{dashboard: dashboard, cache: cache}
}

// Stats assembles the owner-only channel report. Any requester other
// than the channel owner is rejected. The result is cached; toggle and
// subscribe paths invalidate it.
func (s *DashboardService) Stats(ctx context.Context, channelID, requesterID uuid.UUID) (*model.ChannelStats, error) {
	if channelID != requesterID {
		return nil, apperr.Forbidden("dashboard stats are visible to the channel owner only")
	}
	ownerID := channelID

	var cached model.ChannelStats
	hit, err := s.cache.GetStats(ctx, ownerID.String(), &cached)
	if err != nil {
		log.Warn().Err(err).Msg("stats cache read failed")
	}
	if hit {
		return &cached, nil
	}

	totals, err := s.dashboard.Totals(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	windows, err := s.dashboard.Windows(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	monthlyViews, err := s.dashboard.MonthlyViews(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	monthlySubs, err := s.dashboard.MonthlySubscribers(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	stats := &model.ChannelStats{
		TotalVideos:         totals.Videos,
		TotalViews:          totals.Views,
		TotalLikes:          totals.VideoLikes,
		TotalComments:       totals.Comments,
		TotalSubscribers:    totals.Subscribers,
		TotalTweets:         totals.Tweets,
		AvgViewsPerVideo:    AvgPerItem(totals.Views, totals.Videos),
		EngagementRate:      EngagementRate(totals.VideoLikes, totals.Views),
		ViewsGrowthPct:      GrowthPct(windows.ViewsLast30, windows.ViewsPrior30),
		SubscriberGrowthPct: GrowthPct(windows.SubsLast30, windows.SubsPrior30),
		MonthlyViews:        monthlyViews,
		MonthlySubscribers:  monthlySubs,
	}

	if err := s.cache.SetStats(ctx, ownerID.String(), stats); err != nil {
		log.Warn().Err(err).Msg("stats cache write failed")
	}
	return stats, nil
}

func (s *DashboardService) Videos(ctx context.Context, ownerID uuid.UUID, params repository.PageParams) (*repository.Page[model.DashboardVideo], error) {
	return s.dashboard.Videos(ctx, ownerID, params)
}

// GrowthPct is the percentage change from prior to current. An empty
// prior window yields exactly 0 rather than an infinite or undefined
// delta.
func GrowthPct(current, prior int64) float64 {
	if prior == 0 {
		return 0
	}
	return round2(float64(current-prior) / float64(prior) * 100)
}

// EngagementRate is likes per hundred views. Zero views yields 0.
func EngagementRate(likes, views int64) float64 {
	if views == 0 {
		return 0
	}
	return round2(float64(likes) / float64(views) * 100)
}

// AvgPerItem divides a total across items, 0 when there are none.
func AvgPerItem(total, items int64) float64 {
	if items == 0 {
		return 0
	}
	return round2(float64(total) / float64(items))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
