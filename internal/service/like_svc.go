package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vidora/vidora-go/internal/apperr"
	"github.com/vidora/vidora-go/internal/model"
	"github.com/vidora/vidora-go/internal/repository"
)

type LikeService struct {
	likes *repository.LikeRepo
	cache *CacheService
}

func NewLikeService(likes *repository.LikeRepo, cache *CacheService) *LikeService {
	return &LikeService{likes: likes, cache: cache}
}

// Toggle flips the like relation and returns the resulting state.
func (s *LikeService) Toggle(ctx context.Context, userID uuid.UUID, kind model.TargetKind, targetID uuid.UUID) (*model.ToggleResult, error) {
	if !kind.Valid() {
		return nil, apperr.Invalid("unknown like target kind %q", kind)
	}

	liked, err := s.likes.Toggle(ctx, userID, kind, targetID)
	if err != nil {
		return nil, err
	}

	if kind == model.TargetVideo {
		if err := s.cache.InvalidateVideo(ctx, targetID.String()); err != nil {
			log.Warn().Err(err).Msg("cache invalidate failed")
		}
	}

	return &model.ToggleResult{IsLiked: liked}, nil
}

// Status is the relation read backing like-button state, paired with
// the target's current like count.
func (s *LikeService) Status(ctx context.Context, userID uuid.UUID, kind model.TargetKind, targetID uuid.UUID) (*model.LikeStatus, error) {
	if !kind.Valid() {
		return nil, apperr.Invalid("unknown like target kind %q", kind)
	}

	liked, err := s.likes.Status(ctx, userID, kind, targetID)
	if err != nil {
		return nil, err
	}
	count, err := s.likes.CountForTarget(ctx, kind, targetID)
	if err != nil {
		return nil, err
	}
	return &model.LikeStatus{IsLiked: liked, LikeCount: count}, nil
}

func (s *LikeService) LikedVideos(ctx context.Context, userID uuid.UUID, params repository.PageParams) (*repository.Page[model.VideoWithOwner], error) {
	return s.likes.LikedVideos(ctx, userID, params)
}

func (s *LikeService) LikedTweets(ctx context.Context, userID uuid.UUID, params repository.PageParams) (*repository.Page[model.TweetWithOwner], error) {
	return s.likes.LikedTweets(ctx, userID, params)
}

func (s *LikeService) LikedComments(ctx context.Context, userID uuid.UUID, params repository.PageParams) (*repository.Page[model.CommentWithOwner], error) {
	return s.likes.LikedComments(ctx, userID, params)
}
