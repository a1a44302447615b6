package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vidora/vidora-go/internal/apperr"
	"github.com/vidora/vidora-go/internal/model"
	"github.com/vidora/vidora-go/internal/repository"
)

type PlaylistService struct {
	playlists *repository.PlaylistRepo
}

func NewPlaylistService(playlists *repository.PlaylistRepo) *PlaylistService {
	return &PlaylistService{playlists: playlists}
}

func (s *PlaylistService) Create(ctx context.Context, ownerID uuid.UUID, req model.CreatePlaylistRequest) (*model.Playlist, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Invalid("playlist name is required")
	}
	if len(name) > 80 {
		return nil, apperr.Invalid("playlist name must be at most 80 characters")
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	return s.playlists.Create(ctx, &model.Playlist{
		OwnerID:     ownerID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		IsPublic:    isPublic,
	})
}

// Get applies the visibility rule and loads the first page of videos.
// A private playlist yields 401 for anonymous requesters and 403 for
// authenticated non-owners; content never leaks either way.
func (s *PlaylistService) Get(ctx context.Context, id uuid.UUID, requesterID *uuid.UUID, params repository.PageParams) (*model.PlaylistWithVideos, *repository.Page[model.VideoWithOwner], error) {
	p, err := s.fetchVisible(ctx, id, requesterID)
	if err != nil {
		return nil, nil, err
	}

	page, err := s.playlists.Videos(ctx, id, params)
	if err != nil {
		return nil, nil, err
	}

	return &model.PlaylistWithVideos{Playlist: *p, Videos: page.Items}, page, nil
}

func (s *PlaylistService) Update(ctx context.Context, id, requesterID uuid.UUID, req model.UpdatePlaylistRequest) (*model.Playlist, error) {
	if _, err := s.fetchOwned(ctx, id, requesterID); err != nil {
		return nil, err
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, apperr.Invalid("playlist name must not be empty")
	}
	return s.playlists.Update(ctx, id, req)
}

func (s *PlaylistService) Delete(ctx context.Context, id, requesterID uuid.UUID) error {
	if _, err := s.fetchOwned(ctx, id, requesterID); err != nil {
		return err
	}
	return s.playlists.Delete(ctx, id)
}

// AddVideo appends a video with set semantics; only the playlist owner
// may modify the playlist, whatever its visibility.
func (s *PlaylistService) AddVideo(ctx context.Context, playlistID, videoID, requesterID uuid.UUID) (*model.Playlist, error) {
	if _, err := s.fetchOwned(ctx, playlistID, requesterID); err != nil {
		return nil, err
	}
	return s.playlists.AddVideo(ctx, playlistID, videoID)
}

func (s *PlaylistService) RemoveVideo(ctx context.Context, playlistID, videoID, requesterID uuid.UUID) (*model.Playlist, error) {
	if _, err := s.fetchOwned(ctx, playlistID, requesterID); err != nil {
		return nil, err
	}
	return s.playlists.RemoveVideo(ctx, playlistID, videoID)
}

// Contains reports whether a visible playlist already holds the video,
// backing the add-to-playlist checkbox state.
func (s *PlaylistService) Contains(ctx context.Context, playlistID, videoID uuid.UUID, requesterID *uuid.UUID) (bool, error) {
	if _, err := s.fetchVisible(ctx, playlistID, requesterID); err != nil {
		return false, err
	}
	return s.playlists.ContainsVideo(ctx, playlistID, videoID)
}

// ByUser lists a user's playlists; private ones only for the owner.
func (s *PlaylistService) ByUser(ctx context.Context, ownerID uuid.UUID, requesterID *uuid.UUID, params repository.PageParams) (*repository.Page[model.Playlist], error) {
	isOwner := requesterID != nil && *requesterID == ownerID
	return s.playlists.ByOwner(ctx, ownerID, isOwner, params)
}

func (s *PlaylistService) fetchVisible(ctx context.Context, id uuid.UUID, requesterID *uuid.UUID) (*model.Playlist, error) {
	p, err := s.playlists.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsPublic {
		if requesterID == nil {
			return nil, apperr.Unauthenticated("authentication required")
		}
		if *requesterID != p.OwnerID {
			return nil, apperr.Forbidden("this playlist is private")
		}
	}
	return p, nil
}

func (s *PlaylistService) fetchOwned(ctx context.Context, id, requesterID uuid.UUID) (*model.Playlist, error) {
	p, err := s.playlists.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != requesterID {
		return nil, apperr.Forbidden("only the owner may modify this playlist")
	}
	return p, nil
}
