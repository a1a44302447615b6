package service

import (
	"context"
	"io"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vidora/vidora-go/internal/apperr"
	"github.com/vidora/vidora-go/internal/model"
	"github.com/vidora/vidora-go/internal/repository"
)

type UserService struct {
	users       *repository.UserRepo
	maintenance *repository.MaintenanceRepo
	assets      *AssetService
}

func NewUserService(users *repository.UserRepo, maintenance *repository.MaintenanceRepo, assets *AssetService) *UserService {
	return &UserService{users: users, maintenance: maintenance, assets: assets}
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req model.UpdateProfileRequest) (*model.User, error) {
	if req.FullName == nil && req.Email == nil {
		return nil, apperr.Invalid("nothing to update")
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, apperr.Invalid("invalid email address")
		}
		req.Email = &email
	}
	return s.users.UpdateProfile(ctx, id, req.FullName, req.Email)
}

// UpdateAvatar stores the new image, swaps the reference and queues the
// replaced object for deletion.
func (s *UserService) UpdateAvatar(ctx context.Context, id uuid.UUID, file io.Reader, size int64, name, contentType string) (*model.User, error) {
	return s.swapImage(ctx, id, file, size, name, contentType, "avatars", s.users.UpdateAvatar)
}

// UpdateCover swaps the cover image the same way.
func (s *UserService) UpdateCover(ctx context.Context, id uuid.UUID, file io.Reader, size int64, name, contentType string) (*model.User, error) {
	return s.swapImage(ctx, id, file, size, name, contentType, "covers", s.users.UpdateCover)
}

func (s *UserService) swapImage(ctx context.Context, id uuid.UUID, file io.Reader, size int64, name, contentType, folder string,
	swap func(context.Context, uuid.UUID, string, string) (string, error)) (*model.User, error) {

	asset, err := s.assets.Upload(ctx, file, size, folder, name, contentType)
	if err != nil {
		return nil, apperr.Internal("failed to store image", err)
	}

	oldKey, err := swap(ctx, id, asset.URL, asset.Key)
	if err != nil {
		if qerr := s.maintenance.QueueAsset(ctx, asset.Key, s.assets.Bucket()); qerr != nil {
			log.Error().Err(qerr).Msg("failed to queue orphaned image")
		}
		return nil, err
	}

	if oldKey != "" {
		if err := s.maintenance.QueueAsset(ctx, oldKey, s.assets.Bucket()); err != nil {
			log.Error().Err(err).Msg("failed to queue replaced image")
		}
	}

	return s.users.FindByID(ctx, id)
}

// Channel loads a channel page as seen by the viewer.
func (s *UserService) Channel(ctx context.Context, username string, viewerID *uuid.UUID) (*model.ChannelProfile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperr.Invalid("username is required")
	}
	return s.users.ChannelProfile(ctx, username, viewerID)
}
