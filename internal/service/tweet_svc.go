package service

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vidora/vidora-go/internal/apperr"
	"github.com/vidora/vidora-go/internal/model"
	"github.com/vidora/vidora-go/internal/repository"
)

type TweetService struct {
	tweets      *repository.TweetRepo
	subs        *repository.SubscriptionRepo
	maintenance *repository.MaintenanceRepo
	assets      *AssetService
}

func NewTweetService(tweets *repository.TweetRepo, subs *repository.SubscriptionRepo, maintenance *repository.MaintenanceRepo, assets *AssetService) *TweetService {
	return &TweetService{tweets: tweets, subs: subs, maintenance: maintenance, assets: assets}
}

// Create posts a tweet with an optional image.
func (s *TweetService) Create(ctx context.Context, ownerID uuid.UUID, content string, image io.Reader, imageSize int64, imageName, imageType string) (*model.Tweet, error) {
	content = strings.TrimSpace(content)
	if content == "" && image == nil {
		return nil, apperr.Invalid("tweet needs text or an image")
	}
	if len(content) > 500 {
		return nil, apperr.Invalid("tweet must be at most 500 characters")
	}

	t := &model.Tweet{OwnerID: ownerID, Content: content}

	if image != nil {
		asset, err := s.assets.Upload(ctx, image, imageSize, "tweet-images", imageName, imageType)
		if err != nil {
			return nil, apperr.Internal("failed to store image", err)
		}
		t.ImageURL, t.ImageKey = asset.URL, asset.Key
	}

	created, err := s.tweets.Create(ctx, t)
	if err != nil {
		if t.ImageKey != "" {
			if qerr := s.maintenance.QueueAsset(ctx, t.ImageKey, s.assets.Bucket()); qerr != nil {
				log.Error().Err(qerr).Msg("failed to queue orphaned tweet image")
			}
		}
		return nil, err
	}
	return created, nil
}

func (s *TweetService) Get(ctx context.Context, id uuid.UUID) (*model.Tweet, error) {
	return s.tweets.FindByID(ctx, id)
}

func (s *TweetService) ByUser(ctx context.Context, ownerID uuid.UUID, params repository.PageParams) (*repository.Page[model.TweetWithOwner], error) {
	return s.tweets.ByOwner(ctx, ownerID, params)
}

// Feed lists tweets from the channels the user subscribes to.
func (s *TweetService) Feed(ctx context.Context, userID uuid.UUID, params repository.PageParams) (*repository.Page[model.TweetWithOwner], error) {
	channels, err := s.subs.ChannelIDsOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(channels) == 0 {
		return repository.NewPage([]model.TweetWithOwner{}, 0, params, "tweets"), nil
	}
	return s.tweets.Feed(ctx, channels, params)
}

func (s *TweetService) Update(ctx context.Context, id, requesterID uuid.UUID, req model.UpdateTweetRequest) (*model.Tweet, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperr.Invalid("tweet content is required")
	}

	t, err := s.tweets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.OwnerID != requesterID {
		return nil, apperr.Forbidden("only the author may edit this tweet")
	}

	return s.tweets.UpdateContent(ctx, id, content)
}

func (s *TweetService) Delete(ctx context.Context, id, requesterID uuid.UUID) error {
	t, err := s.tweets.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if t.OwnerID != requesterID {
		return apperr.Forbidden("only the author may delete this tweet")
	}

	return s.tweets.Delete(ctx, id, s.assets.Bucket())
}
