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

type VideoService struct {
	videos      *repository.VideoRepo
	subs        *repository.SubscriptionRepo
	maintenance *repository.MaintenanceRepo
	assets      *AssetService
	cache       *CacheService
}

func NewVideoService(videos *repository.VideoRepo, subs *repository.SubscriptionRepo, maintenance *repository.MaintenanceRepo, assets *AssetService, cache *CacheService) *VideoService {
	return &VideoService{videos: videos, subs: subs, maintenance: maintenance, assets: assets, cache: cache}
}

// UploadInput carries the staged multipart streams plus metadata. Duration
// is client-reported; there is no server-side probe (no transcoding in
// this system).
type UploadInput struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
	Category    string
	Tags        []string
	Duration    float64
	IsPublished bool

	Video         io.Reader
	VideoSize     int64
	VideoName     string
	VideoType     string
	Thumbnail     io.Reader
	ThumbnailSize int64
	ThumbnailName string
	ThumbnailType string
}

// Upload stores both assets, then the record. If the record insert fails
// the already-uploaded objects are queued for cleanup rather than left
// orphaned.
func (s *VideoService) Upload(ctx context.Context, in UploadInput) (*model.Video, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Invalid("title is required")
	}
	if in.Video == nil {
		return nil, apperr.Invalid("video file is required")
	}
	if in.Duration < 0 {
		return nil, apperr.Invalid("duration must not be negative")
	}

	videoAsset, err := s.assets.Upload(ctx, in.Video, in.VideoSize, "videos", in.VideoName, in.VideoType)
	if err != nil {
		return nil, apperr.Internal("failed to store video file", err)
	}

	var thumbAsset *Asset
	if in.Thumbnail != nil {
		thumbAsset, err = s.assets.Upload(ctx, in.Thumbnail, in.ThumbnailSize, "thumbnails", in.ThumbnailName, in.ThumbnailType)
		if err != nil {
			s.queueOrphan(ctx, videoAsset.Key)
			return nil, apperr.Internal("failed to store thumbnail", err)
		}
	}

	v := &model.Video{
		OwnerID:     in.OwnerID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		VideoURL:    videoAsset.URL,
		VideoKey:    videoAsset.Key,
		Duration:    in.Duration,
		Category:    strings.TrimSpace(in.Category),
		Tags:        in.Tags,
		IsPublished: in.IsPublished,
	}
	if thumbAsset != nil {
		v.ThumbnailURL, v.ThumbnailKey = thumbAsset.URL, thumbAsset.Key
	}

	created, err := s.videos.Create(ctx, v)
	if err != nil {
		s.queueOrphan(ctx, videoAsset.Key)
		if thumbAsset != nil {
			s.queueOrphan(ctx, thumbAsset.Key)
		}
		return nil, err
	}
	return created, nil
}

// Get applies the visibility rule: an unpublished video is visible only
// to its owner. Views are counted for published fetches only.
func (s *VideoService) Get(ctx context.Context, id uuid.UUID, requesterID *uuid.UUID) (*model.Video, error) {
	v, err := s.videos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !v.IsPublished {
		if requesterID == nil {
			return nil, apperr.Unauthenticated("authentication required")
		}
		if *requesterID != v.OwnerID {
			return nil, apperr.Forbidden("this video is not published")
		}
		return v, nil
	}

	if err := s.videos.IncrementView(ctx, id); err != nil {
		log.Warn().Err(err).Str("video", id.String()).Msg("view increment failed")
	} else {
		v.ViewCount++
	}
	return v, nil
}

func (s *VideoService) Update(ctx context.Context, id, requesterID uuid.UUID, req model.UpdateVideoRequest) (*model.Video, error) {
	if err := s.requireOwner(ctx, id, requesterID); err != nil {
		return nil, err
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, apperr.Invalid("title must not be empty")
	}

	v, err := s.videos.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return v, nil
}

// UpdateThumbnail stores the new asset, swaps the reference and queues
// the old object for cleanup.
func (s *VideoService) UpdateThumbnail(ctx context.Context, id, requesterID uuid.UUID, r io.Reader, size int64, name, contentType string) (*model.Video, error) {
	if err := s.requireOwner(ctx, id, requesterID); err != nil {
		return nil, err
	}

	asset, err := s.assets.Upload(ctx, r, size, "thumbnails", name, contentType)
	if err != nil {
		return nil, apperr.Internal("failed to store thumbnail", err)
	}

	oldKey, err := s.videos.UpdateThumbnail(ctx, id, asset.URL, asset.Key)
	if err != nil {
		s.queueOrphan(ctx, asset.Key)
		return nil, err
	}
	s.queueOrphan(ctx, oldKey)
	s.invalidate(ctx, id)

	return s.videos.FindByID(ctx, id)
}

func (s *VideoService) SetPublished(ctx context.Context, id, requesterID uuid.UUID, published bool) (*model.Video, error) {
	if err := s.requireOwner(ctx, id, requesterID); err != nil {
		return nil, err
	}
	v, err := s.videos.SetPublished(ctx, id, published)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return v, nil
}

// Delete removes the record and queues both remote assets; the reconcile
// worker deletes the objects after commit.
func (s *VideoService) Delete(ctx context.Context, id, requesterID uuid.UUID) error {
	if err := s.requireOwner(ctx, id, requesterID); err != nil {
		return err
	}
	if err := s.videos.Delete(ctx, id, s.assets.Bucket()); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// ByChannel lists a channel's videos; unpublished rows appear only for
// the owner, enforced in the query's base filter.
func (s *VideoService) ByChannel(ctx context.Context, channelID uuid.UUID, requesterID *uuid.UUID, params repository.PageParams) (*repository.Page[model.VideoWithOwner], error) {
	isOwner := requesterID != nil && *requesterID == channelID
	return s.videos.ByOwner(ctx, channelID, isOwner, params)
}

// Feed lists recent videos from the channels the user subscribes to.
func (s *VideoService) Feed(ctx context.Context, userID uuid.UUID, params repository.PageParams) (*repository.Page[model.VideoWithOwner], error) {
	channels, err := s.subs.ChannelIDsOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(channels) == 0 {
		return repository.NewPage([]model.VideoWithOwner{}, 0, params, "videos"), nil
	}
	return s.videos.FromChannels(ctx, channels, params)
}

// Search runs the public catalog search with the enumerated sort keys.
func (s *VideoService) Search(ctx context.Context, p model.SearchParams, params repository.PageParams) (*repository.Page[model.VideoWithOwner], error) {
	if p.MinDuration != nil && *p.MinDuration < 0 {
		return nil, apperr.Invalid("minDuration must not be negative")
	}
	if p.MinDuration != nil && p.MaxDuration != nil && *p.MinDuration > *p.MaxDuration {
		return nil, apperr.Invalid("minDuration must not exceed maxDuration")
	}
	if p.StartDate != nil && p.EndDate != nil && p.StartDate.After(*p.EndDate) {
		return nil, apperr.Invalid("startDate must not be after endDate")
	}
	return s.videos.Search(ctx, p, params)
}

func (s *VideoService) requireOwner(ctx context.Context, id, requesterID uuid.UUID) error {
	v, err := s.videos.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if v.OwnerID != requesterID {
		return apperr.Forbidden("only the owner may modify this video")
	}
	return nil
}

func (s *VideoService) queueOrphan(ctx context.Context, key string) {
	if err := s.maintenance.QueueAsset(ctx, key, s.assets.Bucket()); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to queue orphaned asset")
	}
}

func (s *VideoService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.InvalidateVideo(ctx, id.String()); err != nil {
		log.Warn().Err(err).Msg("cache invalidate failed")
	}
}
