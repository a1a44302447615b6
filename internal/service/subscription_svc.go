package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vidora/vidora-go/internal/model"
	"github.com/vidora/vidora-go/internal/repository"
)

type SubscriptionService struct {
	subs  *repository.SubscriptionRepo
	cache *CacheService
}

func NewSubscriptionService(subs *repository.SubscriptionRepo, cache *CacheService) *SubscriptionService {
	return &SubscriptionService{subs: subs, cache: cache}
}

func (s *SubscriptionService) Toggle(ctx context.Context, subscriberID, channelID uuid.UUID) (*model.SubscribeResult, error) {
	subscribed, err := s.subs.Toggle(ctx, subscriberID, channelID)
	if err != nil {
		return nil, err
	}

	// Subscriber counts feed the dashboard; drop its cached stats.
	if err := s.cache.InvalidateStats(ctx, channelID.String()); err != nil {
		log.Warn().Err(err).Msg("stats cache invalidate failed")
	}

	return &model.SubscribeResult{IsSubscribed: subscribed}, nil
}

// Status pairs the viewer's relation state with the channel's live
// subscriber count.
func (s *SubscriptionService) Status(ctx context.Context, subscriberID, channelID uuid.UUID) (*model.SubscriptionStatus, error) {
	subscribed, err := s.subs.Status(ctx, subscriberID, channelID)
	if err != nil {
		return nil, err
	}
	count, err := s.subs.CountForChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return &model.SubscriptionStatus{IsSubscribed: subscribed, SubscriberCount: count}, nil
}

func (s *SubscriptionService) Subscriptions(ctx context.Context, subscriberID uuid.UUID, params repository.PageParams) (*repository.Page[model.PublicUser], error) {
	return s.subs.Subscriptions(ctx, subscriberID, params)
}

func (s *SubscriptionService) Subscribers(ctx context.Context, channelID uuid.UUID, params repository.PageParams) (*repository.Page[model.PublicUser], error) {
	return s.subs.Subscribers(ctx, channelID, params)
}
